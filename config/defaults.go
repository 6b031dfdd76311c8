package config

import "io/fs"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags, config file parsing, and environment variable
// loading.

const (
	// DefaultServerName identifies the server in generated prompts
	// and in the derived socket path.
	DefaultServerName = "replsock"

	// SocketSuffix is appended to the server name when deriving a
	// socket path.
	SocketSuffix = ".repl"

	// SocketMode is the permission mask applied to the listening
	// socket: owner and group may connect, nobody else.
	SocketMode fs.FileMode = 0o660

	// AcceptBacklog bounds the queue of not-yet-accepted connections.
	AcceptBacklog = 16

	// ReadChunkSize is the maximum number of bytes pulled off the
	// socket per read while assembling a line.
	ReadChunkSize = 2048

	// MaxSocketPath is a conservative bound on sun_path length
	// (104 on the BSDs, 108 on Linux).
	MaxSocketPath = 100
)

// Default returns a Config populated with the defaults above.
func Default() Config {
	return Config{
		ServerName: DefaultServerName,
	}
}
