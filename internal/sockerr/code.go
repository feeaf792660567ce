package sockerr

import "strconv"

// Code is a platform-independent error code named after its POSIX errno.
// Both errno values and WSA codes are normalized into this space before
// classification.
type Code int

// Portable codes. The numeric values are local to this package and do not
// match any platform's errno numbering.
const (
	CodeNone Code = iota
	EINTR
	EINVAL
	EBADF
	ENOMEM
	ENAMETOOLONG
	ENOTEMPTY
	EAGAIN
	EINPROGRESS
	EALREADY
	ENOTSOCK
	EDESTADDRREQ
	EMSGSIZE
	EPROTOTYPE
	ENOPROTOOPT
	EPROTONOSUPPORT
	EOPNOTSUPP
	EAFNOSUPPORT
	EADDRINUSE
	EADDRNOTAVAIL
	ENETDOWN
	ENETUNREACH
	ENETRESET
	ECONNABORTED
	ECONNRESET
	ENOBUFS
	EISCONN
	ENOTCONN
	ETIMEDOUT
	ECONNREFUSED
	ELOOP
	EHOSTUNREACH
	EPIPE
	EIO
)

var codeNames = [...]string{
	CodeNone:        "none",
	EINTR:           "EINTR",
	EINVAL:          "EINVAL",
	EBADF:           "EBADF",
	ENOMEM:          "ENOMEM",
	ENAMETOOLONG:    "ENAMETOOLONG",
	ENOTEMPTY:       "ENOTEMPTY",
	EAGAIN:          "EAGAIN",
	EINPROGRESS:     "EINPROGRESS",
	EALREADY:        "EALREADY",
	ENOTSOCK:        "ENOTSOCK",
	EDESTADDRREQ:    "EDESTADDRREQ",
	EMSGSIZE:        "EMSGSIZE",
	EPROTOTYPE:      "EPROTOTYPE",
	ENOPROTOOPT:     "ENOPROTOOPT",
	EPROTONOSUPPORT: "EPROTONOSUPPORT",
	EOPNOTSUPP:      "EOPNOTSUPP",
	EAFNOSUPPORT:    "EAFNOSUPPORT",
	EADDRINUSE:      "EADDRINUSE",
	EADDRNOTAVAIL:   "EADDRNOTAVAIL",
	ENETDOWN:        "ENETDOWN",
	ENETUNREACH:     "ENETUNREACH",
	ENETRESET:       "ENETRESET",
	ECONNABORTED:    "ECONNABORTED",
	ECONNRESET:      "ECONNRESET",
	ENOBUFS:         "ENOBUFS",
	EISCONN:         "EISCONN",
	ENOTCONN:        "ENOTCONN",
	ETIMEDOUT:       "ETIMEDOUT",
	ECONNREFUSED:    "ECONNREFUSED",
	ELOOP:           "ELOOP",
	EHOSTUNREACH:    "EHOSTUNREACH",
	EPIPE:           "EPIPE",
	EIO:             "EIO",
}

func (c Code) String() string {
	if c >= 0 && int(c) < len(codeNames) {
		return codeNames[c]
	}
	return "Code(" + strconv.Itoa(int(c)) + ")"
}

// Classify maps a portable code onto its Kind.
func Classify(c Code) Kind {
	switch c {
	case CodeNone:
		return None
	case EAGAIN:
		return WouldBlock
	case ETIMEDOUT:
		return Timeout
	case ECONNRESET:
		return ConnectionReset
	case EPIPE:
		return BrokenPipe
	default:
		return Other
	}
}
