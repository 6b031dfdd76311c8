package repl

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"replsock/util"
)

// startServer runs srv.Run on a fresh socket path and waits until the
// socket is accepting.
func startServer(t *testing.T, srv *Server) (path string, stop func()) {
	t.Helper()
	path, cleanup, err := util.TempSocketPath("listentest")
	if err != nil {
		t.Fatal(err)
	}
	srv.Config.SocketPath = path

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	// Wait for the socket to appear and accept.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if conn, err := net.Dial("unix", path); err == nil {
			conn.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("server never came up")
		}
		time.Sleep(10 * time.Millisecond)
	}

	stop = func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Run returned %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("Run did not return after cancel")
		}
		cleanup()
	}
	return path, stop
}

// dialSession connects and consumes the initial prompt.
func dialSession(t *testing.T, path string) net.Conn {
	t.Helper()
	conn, err := net.Dial("unix", path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	readUntil(t, conn, "0> ")
	return conn
}

// TestRun_SocketHygiene: a stale socket file is replaced, the new
// socket carries ug=rw permissions, and shutdown removes it.
func TestRun_SocketHygiene(t *testing.T) {
	srv := newTestServer(t)
	path, cleanup, err := util.TempSocketPath("hygiene")
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()

	// Plant a stale file where the socket goes.
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	srv.Config.SocketPath = path
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	var fi os.FileInfo
	for {
		fi, err = os.Stat(path)
		if err == nil && fi.Mode()&os.ModeSocket != 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("socket never bound (stat: %v, mode %v)", err, fi)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if perm := fi.Mode().Perm(); perm != 0o660 {
		t.Errorf("socket mode = %o, want 660", perm)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if _, err := os.Stat(path); err == nil {
		t.Error("socket file left behind after shutdown")
	}
}

// TestRun_BindFailureIsFatal: an unusable path fails Run immediately.
func TestRun_BindFailureIsFatal(t *testing.T) {
	srv := newTestServer(t)
	srv.Config.SocketPath = "/nonexistent-dir/replsock-test.sock"

	err := srv.Run(context.Background())
	if err == nil {
		t.Fatal("expected bind failure")
	}
	if !strings.Contains(err.Error(), "socket") {
		t.Errorf("error %q should mention the socket", err)
	}
}

// TestRun_SessionIDsIncrease: concurrently accepted sessions still get
// distinct ids, and the counter matches the number of accepts.
func TestRun_SessionIDsIncrease(t *testing.T) {
	srv := newTestServer(t)
	path, stop := startServer(t, srv)
	defer stop()

	const clients = 20
	var wg sync.WaitGroup
	for k := 0; k < clients; k++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn, err := net.Dial("unix", path)
			if err != nil {
				t.Error(err)
				return
			}
			defer conn.Close()
			conn.Write([]byte{util.EOT}) //nolint:errcheck
		}()
	}
	wg.Wait()

	// startServer's probe connection counts too.
	deadline := time.Now().Add(2 * time.Second)
	for srv.lastID.Load() != clients+1 {
		if time.Now().After(deadline) {
			t.Fatalf("lastID = %d, want %d", srv.lastID.Load(), clients+1)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// TestRun_ConcurrentSessions: two clients run disjoint command
// streams; each session's variables and prompt counters stay its own.
func TestRun_ConcurrentSessions(t *testing.T) {
	srv := newTestServer(t)
	path, stop := startServer(t, srv)
	defer stop()

	const ncmds = 100
	var wg sync.WaitGroup
	for k := 0; k < 2; k++ {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			conn := dialSession(t, path)

			mine := fmt.Sprintf("client%d", k)
			conn.Write([]byte("set who " + mine + "\n")) //nolint:errcheck
			readUntil(t, conn, "1> ")

			for n := 2; n <= ncmds; n++ {
				conn.Write([]byte("get who\n")) //nolint:errcheck
				got := readUntil(t, conn, fmt.Sprintf("%d> ", n))
				if !strings.Contains(got, mine) {
					t.Errorf("client %d saw %q, want its own %q", k, got, mine)
					return
				}
			}
			conn.Write([]byte{util.EOT}) //nolint:errcheck
		}(k)
	}
	wg.Wait()
}

// TestRun_Stats reflects accepted and live sessions.
func TestRun_Stats(t *testing.T) {
	srv := newTestServer(t)
	path, stop := startServer(t, srv)
	defer stop()

	conn := dialSession(t, path)

	st := srv.Stats()
	if st.SocketPath != path {
		t.Errorf("Stats.SocketPath = %q, want %q", st.SocketPath, path)
	}
	if st.SessionsStarted < 2 { // probe + this session
		t.Errorf("SessionsStarted = %d, want >= 2", st.SessionsStarted)
	}
	if st.SessionsLive < 1 {
		t.Errorf("SessionsLive = %d, want >= 1", st.SessionsLive)
	}

	conn.Write([]byte{util.EOT}) //nolint:errcheck
	deadline := time.Now().Add(2 * time.Second)
	for srv.Stats().SessionsLive != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("SessionsLive = %d, want 0", srv.Stats().SessionsLive)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
