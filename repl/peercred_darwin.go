//go:build darwin

package repl

import "golang.org/x/sys/unix"

// peerCreds retrieves the remote end's uid and gid via LOCAL_PEERCRED.
// The pid comes from LOCAL_PEERPID when available, else -1.
func peerCreds(fd uintptr) (pid int32, uid, gid uint32, err error) {
	cred, err := unix.GetsockoptXucred(int(fd), unix.SOL_LOCAL, unix.LOCAL_PEERCRED)
	if err != nil {
		return 0, 0, 0, err
	}
	uid = cred.Uid
	if cred.Ngroups > 0 {
		gid = uint32(cred.Groups[0])
	}
	pid = -1
	if p, err := unix.GetsockoptInt(int(fd), unix.SOL_LOCAL, unix.LOCAL_PEERPID); err == nil {
		pid = int32(p)
	}
	return pid, uid, gid, nil
}
