package repl

import (
	"bytes"
	"fmt"
	"net"
	"strings"

	"replsock/interp"
)

// session is one accepted connection.  It is owned exclusively by its
// own goroutine from accept to teardown; nothing else ever touches its
// interpreter or counters, so no locking is needed.
type session struct {
	srv  *Server
	id   uint64
	conn *net.UnixConn
	who  Identity

	interp interp.Interpreter
	ncmds  uint64 // submissions evaluated
	nerrs  uint64 // submissions that reported an error
	status int    // last evaluation status: 0 ok, 1 error
	stop   bool   // set by the session-local exit command
}

// run drives the session through its whole lifecycle: authenticate,
// allocate the interpreter, loop, tear down.  Resource release is
// ordered: interpreter first, then the connection.
func (s *session) run() {
	defer s.srv.live.Add(-1)

	who, err := peerIdentity(s.conn)
	if err != nil {
		// No prompt was ever sent; the client just sees the socket
		// close.
		s.srv.Logger.Error("%d: rejected: %v", s.id, err)
		s.conn.Close()
		return
	}
	s.who = who
	s.srv.Logger.Info("%d: connected %s:%s {pid:%d, uid:%d, gid:%d}",
		s.id, s.who.User, s.who.Group, s.who.PID, s.who.UID, s.who.GID)

	s.interp = s.srv.Factory()
	s.interp.Register("exit", s.exitCmd)

	s.loop()

	s.conn.Write([]byte("\n")) //nolint:errcheck // best-effort trailer
	s.interp.Close()
	s.srv.Logger.Info("%d: disconnected %s:%s {pid:%d, uid:%d, gid:%d}",
		s.id, s.who.User, s.who.Group, s.who.PID, s.who.UID, s.who.GID)
	s.conn.Close()
}

// loop runs the accumulate → evaluate → respond cycle until the stop
// flag is set or the transport ends the session.
func (s *session) loop() {
	var cmd bytes.Buffer
	for !s.stop {
		cmd.Reset()

		text, err := s.collect(&cmd)
		if err != nil {
			return
		}
		if strings.TrimSpace(text) == "" {
			continue // blank submission: re-prompt, count nothing
		}

		if s.srv.Config.LogCommands {
			s.srv.Logger.Debug("%s %d: start eval %s", s.who.User, s.ncmds, text)
		}

		res, err := s.interp.Eval(text)
		s.ncmds++
		if err != nil {
			s.srv.Logger.Error("%d: %s: %v", s.id, s.who.User, err)
			s.nerrs++
			s.status = 1
			res = err.Error()
		} else {
			s.status = 0
		}

		if !s.send(res) {
			return
		}

		if s.srv.Config.LogCommands {
			s.srv.Logger.Debug("%s %d: end eval", s.who.User, s.ncmds)
		}
	}
}

// collect accumulates lines into cmd until the interpreter deems the
// buffer complete, then cuts the buffer back to its last newline
// (dropping that newline and anything after it).  The result may be
// empty, which the caller discards without evaluating.
func (s *session) collect(cmd *bytes.Buffer) (string, error) {
	prompt := s.promptPrimary()
	for n := 0; ; n++ {
		if err := readLine(s.conn, prompt, cmd); err != nil {
			return "", err
		}
		if s.interp.Complete(cmd.String()) {
			break
		}
		if n == 0 {
			prompt = s.promptContinuation()
		}
	}

	b := cmd.Bytes()
	if i := bytes.LastIndexByte(b, '\n'); i >= 0 {
		b = b[:i]
	}
	return string(b), nil
}

// promptPrimary prefers the interpreter's prompt1 variable; otherwise
// a generated prompt carrying the server name, the last evaluation
// status, and the running command count.
func (s *session) promptPrimary() string {
	if p, ok := s.interp.Var("prompt1"); ok {
		return p
	}
	return fmt.Sprintf("\n%s:repl(%d) %d> ", s.srv.Config.ServerName, s.status, s.ncmds)
}

// promptContinuation prefers the interpreter's prompt2 variable.
func (s *session) promptContinuation() string {
	if p, ok := s.interp.Var("prompt2"); ok {
		return p
	}
	return fmt.Sprintf("\n%s:repl %d\\\t", s.srv.Config.ServerName, s.ncmds)
}

// send writes res fully, resuming on partial writes.  A write that
// makes no progress ends the session.
func (s *session) send(res string) bool {
	b := []byte(res)
	for len(b) > 0 {
		n, err := s.conn.Write(b)
		if n <= 0 || err != nil {
			return false
		}
		b = b[n:]
	}
	return true
}

// exitCmd is the session-local exit command.  Its only effect is to
// set the stop flag; the loop finishes the current respond step and
// then terminates.
func (s *session) exitCmd(args []string) (string, error) {
	if len(args) != 0 {
		return "", fmt.Errorf("wrong # args: should be \"exit\"")
	}
	s.stop = true
	return "", nil
}
