//go:build unix

package sys

import (
	"syscall"
)

// Detach drops the controlling terminal and moves the process into its own
// process group, so a server started with --daemon survives the shell.
func Detach() error {
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, 0, uintptr(syscall.TIOCNOTTY), 0)
	if errno != 0 {
		return errno
	}
	_, _, errno = syscall.Syscall(syscall.SYS_SETPGID, 0, uintptr(0), 0)
	if errno != 0 {
		return errno
	}
	return nil
}
