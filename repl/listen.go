package repl

import (
	"errors"
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"

	"replsock/config"
)

// listen binds a stream socket at path with restrictive permissions
// and a bounded backlog.  Any stale socket file from a previous run is
// removed first.  The raw fd is wrapped in a *net.UnixListener so the
// accept loop gets ordinary net.Conn semantics.
func (s *Server) listen(path string) (*net.UnixListener, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove stale socket %s: %w", path, err)
	}

	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("create socket @ %s: %w", path, err)
	}

	if err := unix.Bind(fd, &unix.SockaddrUnix{Name: path}); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("bind socket @ %s: %w", path, err)
	}

	// ug=rw on the socket node; connect access is governed by these
	// bits, so set them before anyone can race the listen call.
	if err := os.Chmod(path, config.SocketMode); err != nil {
		s.Logger.Error("could not 'chmod ug=rw' the socket @ %s: %v", path, err)
	}

	if err := unix.Listen(fd, config.AcceptBacklog); err != nil {
		unix.Close(fd)
		os.Remove(path)
		return nil, fmt.Errorf("listen on socket @ %s: %w", path, err)
	}

	f := os.NewFile(uintptr(fd), path)
	defer f.Close() // FileListener dups the fd

	ln, err := net.FileListener(f)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("wrap socket @ %s: %w", path, err)
	}
	ul, ok := ln.(*net.UnixListener)
	if !ok {
		ln.Close()
		os.Remove(path)
		return nil, fmt.Errorf("socket @ %s is not a unix listener", path)
	}
	return ul, nil
}
