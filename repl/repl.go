// Package repl serves an embedded command interpreter over a local
// Unix domain socket.  Connections are authenticated by OS peer
// credentials; each accepted connection gets its own session goroutine
// and its own private interpreter, which it drives through a cycle of
// prompting, accumulating, evaluating and responding until the client
// disconnects, sends an EOT byte, or runs the session's exit command.
//
// Because the transport is a Unix socket, access control is plain
// file permissions: the socket is created mode 0660.
package repl

import (
	"context"
	"errors"
	"net"
	"os"
	"sync/atomic"

	"replsock/config"
	"replsock/interp"
	"replsock/util"
)

// Server owns the listening socket and spawns sessions.
type Server struct {
	Config  *config.Config
	Factory interp.Factory
	Logger  *util.Logger

	// lastID is the process-wide session id counter.  Ids are unique
	// and strictly increasing even under concurrent accepts.
	lastID atomic.Uint64
	live   atomic.Int64
}

// New returns a ready-to-run Server.  factory is called once per
// authenticated session to allocate that session's interpreter.
func New(cfg *config.Config, factory interp.Factory, logger *util.Logger) *Server {
	return &Server{Config: cfg, Factory: factory, Logger: logger}
}

// Run binds the socket and accepts connections until ctx is cancelled.
// Bind or listen failure is fatal and returned; accept failures are
// logged and skipped.  Sessions already running when ctx is cancelled
// are left to finish on their own.
func (s *Server) Run(ctx context.Context) error {
	path := s.Config.EffectiveSocketPath()

	ln, err := s.listen(path)
	if err != nil {
		return err
	}
	defer func() {
		ln.Close()
		os.Remove(path)
	}()

	// Unblock Accept when the context expires.
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	s.Logger.Info("listening @ %s", path)

	for {
		conn, err := ln.AcceptUnix()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.Logger.Info("shutdown")
				return nil
			}
			s.Logger.Error("accept failed: %v", err)
			continue
		}

		sn := &session{
			srv:  s,
			id:   s.lastID.Add(1),
			conn: conn,
		}
		s.live.Add(1)
		go sn.run()
	}
}

// Stats is a point-in-time snapshot of the server's state, suitable
// for a host's diagnostic surface.
type Stats struct {
	SocketPath      string
	LogCommands     bool
	SessionsStarted uint64
	SessionsLive    int64
}

// Stats reports the server's current state.
func (s *Server) Stats() Stats {
	return Stats{
		SocketPath:      s.Config.EffectiveSocketPath(),
		LogCommands:     s.Config.LogCommands,
		SessionsStarted: s.lastID.Load(),
		SessionsLive:    s.live.Load(),
	}
}
