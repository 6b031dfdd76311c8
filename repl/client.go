package repl

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"

	"golang.org/x/term"

	"replsock/util"
)

// Connect dials the server socket at path and bridges it to in/out
// until the server closes the session or ctx is cancelled.  On EOF
// from in (interactively, ^D) the bridge sends the EOT byte so the
// server tears the session down cleanly.
func Connect(ctx context.Context, path string, in io.Reader, out io.Writer, logger *util.Logger) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", path, err)
	}
	defer conn.Close()

	uc, ok := conn.(*net.UnixConn)
	if !ok {
		return fmt.Errorf("connect to %s: not a unix connection", path)
	}

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		logger.Info("connected to %s (end with ^D)", path)
	}

	return util.Bridge(ctx, uc, in, out)
}
