package sockerr

import (
	"errors"
	"os"
	"syscall"
)

// Translate classifies a raw platform error code.
func Translate(errno syscall.Errno) Kind {
	return Classify(FromErrno(errno))
}

// FromError classifies an arbitrary error returned by a socket operation.
// The error chain is searched for a syscall.Errno; a deadline expiry counts
// as ETIMEDOUT. Anything unrecognized is reported as EIO.
func FromError(err error) (Kind, Code) {
	if err == nil {
		return None, CodeNone
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		code := FromErrno(errno)
		return Classify(code), code
	}

	if errors.Is(err, os.ErrDeadlineExceeded) {
		return Timeout, ETIMEDOUT
	}

	return Other, EIO
}

// Errno extracts the raw platform code from err, or 0 when there is none.
func Errno(err error) int {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	return 0
}
