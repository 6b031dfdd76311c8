package util

import "sync"

// ChunkSize is the buffer size used when pulling line data off a
// socket.  A full line may span many chunks.
const ChunkSize = 2048

// chunkPool provides reusable read buffers for the line-assembly hot
// path, reducing GC pressure when many sessions are active.
var chunkPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, ChunkSize)
		return &buf
	},
}

// GetChunk retrieves a ChunkSize buffer from the pool.  Callers must
// return it with [PutChunk] when finished.
func GetChunk() *[]byte {
	return chunkPool.Get().(*[]byte)
}

// PutChunk returns a buffer to the pool for reuse.
func PutChunk(buf *[]byte) {
	if buf == nil {
		return
	}
	chunkPool.Put(buf)
}
