//go:build linux

package repl

import "golang.org/x/sys/unix"

// peerCreds asks the kernel for the remote end's pid, uid, and gid via
// SO_PEERCRED.
func peerCreds(fd uintptr) (pid int32, uid, gid uint32, err error) {
	cred, err := unix.GetsockoptUcred(int(fd), unix.SOL_SOCKET, unix.SO_PEERCRED)
	if err != nil {
		return 0, 0, 0, err
	}
	return cred.Pid, cred.Uid, cred.Gid, nil
}
