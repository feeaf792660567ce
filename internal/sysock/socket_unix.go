//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package sysock

import (
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// recvNonblock performs one MSG_DONTWAIT receive. It returns EAGAIN when
// nothing is queued and (0, nil) on an orderly close.
func recvNonblock(fd uintptr, p []byte) (int, error) {
	for {
		n, _, err := unix.Recvfrom(int(fd), p, unix.MSG_DONTWAIT)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, errors.Wrap(err, "recv")
		}
		return n, nil
	}
}

// readable peeks one byte. EOF counts as readable so the caller observes it.
func readable(fd uintptr) bool {
	var b [1]byte
	_, _, err := unix.Recvfrom(int(fd), b[:], unix.MSG_PEEK|unix.MSG_DONTWAIT)
	return err != unix.EAGAIN && err != unix.EINTR
}

func pendingError(fd uintptr) error {
	code, err := unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return errors.Wrap(err, "getsockopt SO_ERROR")
	}
	if code != 0 {
		return syscall.Errno(code)
	}
	return nil
}

func shutdown(fd uintptr) error {
	if err := unix.Shutdown(int(fd), unix.SHUT_RDWR); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}
