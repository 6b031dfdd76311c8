package util

import (
	"context"
	"errors"
	"io"
	"net"
)

// EOT is the ASCII End-of-Transmission byte.  A client sends it as a
// lone line to tell the server to end the session immediately.
const EOT = 0x04

// Bridge shuttles data between a Unix-socket connection and a local
// reader/writer pair (typically stdin/stdout) until the remote closes
// or the context is cancelled.
//
// When the reader reaches EOF, Bridge sends a lone EOT byte and then
// half-closes the socket's write side, so the server ends the session
// cleanly while the read side stays open to drain its final output.
// Bridge returns as soon as the remote side is done; it does not wait
// for the reader, which may sit blocked in a stdin read forever.
func Bridge(ctx context.Context, conn *net.UnixConn, in io.Reader, out io.Writer) error {
	// socket → writer; the session is over when this side finishes.
	done := make(chan error, 1)
	go func() {
		_, err := io.Copy(out, conn)
		done <- err
	}()

	// reader → socket.  Left behind on shutdown: a goroutine blocked
	// in in.Read cannot be interrupted, and the process is about to
	// exit anyway.
	go func() {
		_, err := io.Copy(conn, in)
		if err == nil {
			// Local EOF: ask the server to end the session, then
			// signal no more data is coming.
			conn.Write([]byte{EOT}) //nolint:errcheck
			conn.CloseWrite()       //nolint:errcheck
		}
	}()

	select {
	case err := <-done:
		conn.Close()
		if err != nil && !isHarmless(err) {
			return err
		}
		return nil
	case <-ctx.Done():
		conn.Close() // unblock the pending read
		<-done
		return nil
	}
}

// isHarmless returns true for errors that are expected during shutdown.
func isHarmless(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return true
	}
	// net.OpError wrapping "use of closed network connection"
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, net.ErrClosed)
	}
	return false
}
