package repl

import (
	"fmt"
	"net"
	"os/user"
	"strconv"
)

// Identity is the authenticated peer of a session: the raw credentials
// delivered by the kernel plus the resolved account names.  A session
// never evaluates anything without one.
type Identity struct {
	PID int32 // -1 when the platform cannot supply it
	UID uint32
	GID uint32

	User  string
	Group string
}

// Account lookups are indirected so tests can simulate a peer whose
// uid or gid has no account database entry.
var (
	lookupUser  = user.LookupId
	lookupGroup = user.LookupGroupId
)

// peerIdentity retrieves the peer credentials of conn and resolves the
// uid and gid to account names.  Any failure, including a uid or gid
// with no account database entry, rejects the connection: without a
// human-readable identity nothing may be logged, so nothing may run.
func peerIdentity(conn *net.UnixConn) (Identity, error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return Identity{}, fmt.Errorf("peer credentials: %w", err)
	}

	var id Identity
	var credErr error
	if err := raw.Control(func(fd uintptr) {
		id.PID, id.UID, id.GID, credErr = peerCreds(fd)
	}); err != nil {
		return Identity{}, fmt.Errorf("peer credentials: %w", err)
	}
	if credErr != nil {
		return Identity{}, fmt.Errorf("peer credentials: %w", credErr)
	}

	u, err := lookupUser(strconv.FormatUint(uint64(id.UID), 10))
	if err != nil {
		return Identity{}, fmt.Errorf("resolve uid %d: %w", id.UID, err)
	}
	id.User = u.Username

	g, err := lookupGroup(strconv.FormatUint(uint64(id.GID), 10))
	if err != nil {
		return Identity{}, fmt.Errorf("resolve gid %d: %w", id.GID, err)
	}
	id.Group = g.Name

	return id, nil
}
