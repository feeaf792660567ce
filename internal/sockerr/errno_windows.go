//go:build windows

package sockerr

import "syscall"

// FromErrno normalizes a Winsock error. On Windows the socket calls report
// WSA codes through syscall.Errno.
func FromErrno(errno syscall.Errno) Code {
	return FromWSA(uint32(errno))
}
