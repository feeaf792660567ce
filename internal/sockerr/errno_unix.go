//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package sockerr

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// FromErrno normalizes a POSIX errno. EWOULDBLOCK equals EAGAIN on every
// supported platform, so it needs no case of its own.
func FromErrno(errno syscall.Errno) Code {
	switch errno {
	case 0:
		return CodeNone
	case unix.EINTR:
		return EINTR
	case unix.EINVAL:
		return EINVAL
	case unix.EBADF:
		return EBADF
	case unix.ENOMEM:
		return ENOMEM
	case unix.ENAMETOOLONG:
		return ENAMETOOLONG
	case unix.ENOTEMPTY:
		return ENOTEMPTY
	case unix.EAGAIN:
		return EAGAIN
	case unix.EINPROGRESS:
		return EINPROGRESS
	case unix.EALREADY:
		return EALREADY
	case unix.ENOTSOCK:
		return ENOTSOCK
	case unix.EDESTADDRREQ:
		return EDESTADDRREQ
	case unix.EMSGSIZE:
		return EMSGSIZE
	case unix.EPROTOTYPE:
		return EPROTOTYPE
	case unix.ENOPROTOOPT:
		return ENOPROTOOPT
	case unix.EPROTONOSUPPORT:
		return EPROTONOSUPPORT
	case unix.EOPNOTSUPP:
		return EOPNOTSUPP
	case unix.EAFNOSUPPORT:
		return EAFNOSUPPORT
	case unix.EADDRINUSE:
		return EADDRINUSE
	case unix.EADDRNOTAVAIL:
		return EADDRNOTAVAIL
	case unix.ENETDOWN:
		return ENETDOWN
	case unix.ENETUNREACH:
		return ENETUNREACH
	case unix.ENETRESET:
		return ENETRESET
	case unix.ECONNABORTED:
		return ECONNABORTED
	case unix.ECONNRESET:
		return ECONNRESET
	case unix.ENOBUFS:
		return ENOBUFS
	case unix.EISCONN:
		return EISCONN
	case unix.ENOTCONN:
		return ENOTCONN
	case unix.ETIMEDOUT:
		return ETIMEDOUT
	case unix.ECONNREFUSED:
		return ECONNREFUSED
	case unix.ELOOP:
		return ELOOP
	case unix.EHOSTUNREACH:
		return EHOSTUNREACH
	case unix.EPIPE:
		return EPIPE
	default:
		return EIO
	}
}
