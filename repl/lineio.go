package repl

import (
	"bytes"
	"errors"
	"io"
	"net"

	"replsock/util"
)

// errSessionEnded marks any transport-level end of a session: peer
// disconnect, an EOT byte, or a failed write.  It unwinds the session
// loop; it is never shown to the client.
var errSessionEnded = errors.New("session ended")

// readLine writes prompt to the connection, then appends bytes to cmd
// until the latest chunk ends in a newline.  A trailing CRLF in a
// chunk is collapsed to LF before appending.  A chunk consisting of a
// single EOT byte, a read of zero bytes, or any I/O error yields
// errSessionEnded; a partial line accumulated before that is simply
// abandoned in cmd.
func readLine(conn net.Conn, prompt string, cmd *bytes.Buffer) error {
	if _, err := io.WriteString(conn, prompt); err != nil {
		return errSessionEnded
	}

	chunk := util.GetChunk()
	defer util.PutChunk(chunk)
	buf := *chunk

	for {
		n, _ := conn.Read(buf)
		if n <= 0 {
			return errSessionEnded
		}

		// Translate a trailing CRLF into LF.
		if n > 1 && buf[n-1] == '\n' && buf[n-2] == '\r' {
			buf[n-2] = '\n'
			n--
		}

		if n == 1 && buf[0] == util.EOT {
			return errSessionEnded
		}

		cmd.Write(buf[:n])
		if buf[n-1] == '\n' {
			return nil
		}
	}
}
