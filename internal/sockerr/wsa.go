package sockerr

// Winsock error codes as returned by WSAGetLastError. They are declared
// numerically so the table can be exercised on every platform.
const (
	WSA_INVALID_HANDLE    uint32 = 6
	WSA_NOT_ENOUGH_MEMORY uint32 = 8
	WSA_INVALID_PARAMETER uint32 = 87
	WSAEINTR              uint32 = 10004
	WSAEBADF              uint32 = 10009
	WSAEINVAL             uint32 = 10022
	WSAEWOULDBLOCK        uint32 = 10035
	WSAEINPROGRESS        uint32 = 10036
	WSAEALREADY           uint32 = 10037
	WSAENOTSOCK           uint32 = 10038
	WSAEDESTADDRREQ       uint32 = 10039
	WSAEMSGSIZE           uint32 = 10040
	WSAEPROTOTYPE         uint32 = 10041
	WSAENOPROTOOPT        uint32 = 10042
	WSAEPROTONOSUPPORT    uint32 = 10043
	WSAEOPNOTSUPP         uint32 = 10045
	WSAEAFNOSUPPORT       uint32 = 10047
	WSAEADDRINUSE         uint32 = 10048
	WSAEADDRNOTAVAIL      uint32 = 10049
	WSAENETDOWN           uint32 = 10050
	WSAENETUNREACH        uint32 = 10051
	WSAENETRESET          uint32 = 10052
	WSAECONNABORTED       uint32 = 10053
	WSAECONNRESET         uint32 = 10054
	WSAENOBUFS            uint32 = 10055
	WSAEISCONN            uint32 = 10056
	WSAENOTCONN           uint32 = 10057
	WSAESHUTDOWN          uint32 = 10058
	WSAETIMEDOUT          uint32 = 10060
	WSAECONNREFUSED       uint32 = 10061
	WSAELOOP              uint32 = 10062
	WSAENAMETOOLONG       uint32 = 10063
	WSAEHOSTUNREACH       uint32 = 10065
	WSAENOTEMPTY          uint32 = 10066
)

// FromWSA normalizes a Winsock error code to its POSIX counterpart.
// Unknown codes become EIO.
func FromWSA(code uint32) Code {
	switch code {
	case 0:
		return CodeNone
	case WSAEINTR:
		return EINTR
	case WSAEINVAL, WSA_INVALID_PARAMETER:
		return EINVAL
	case WSA_INVALID_HANDLE, WSAEBADF:
		return EBADF
	case WSA_NOT_ENOUGH_MEMORY:
		return ENOMEM
	case WSAENAMETOOLONG:
		return ENAMETOOLONG
	case WSAENOTEMPTY:
		return ENOTEMPTY
	case WSAEWOULDBLOCK:
		return EAGAIN
	case WSAEINPROGRESS:
		return EINPROGRESS
	case WSAEALREADY:
		return EALREADY
	case WSAENOTSOCK:
		return ENOTSOCK
	case WSAEDESTADDRREQ:
		return EDESTADDRREQ
	case WSAEMSGSIZE:
		return EMSGSIZE
	case WSAEPROTOTYPE:
		return EPROTOTYPE
	case WSAENOPROTOOPT:
		return ENOPROTOOPT
	case WSAEPROTONOSUPPORT:
		return EPROTONOSUPPORT
	case WSAEOPNOTSUPP:
		return EOPNOTSUPP
	case WSAEAFNOSUPPORT:
		return EAFNOSUPPORT
	case WSAEADDRINUSE:
		return EADDRINUSE
	case WSAEADDRNOTAVAIL:
		return EADDRNOTAVAIL
	case WSAENETDOWN:
		return ENETDOWN
	case WSAENETUNREACH:
		return ENETUNREACH
	case WSAENETRESET:
		return ENETRESET
	case WSAECONNABORTED:
		return ECONNABORTED
	case WSAECONNRESET:
		return ECONNRESET
	case WSAENOBUFS:
		return ENOBUFS
	case WSAEISCONN:
		return EISCONN
	case WSAENOTCONN:
		return ENOTCONN
	case WSAESHUTDOWN:
		// sending after shutdown(SD_SEND): the Winsock spelling of EPIPE
		return EPIPE
	case WSAETIMEDOUT:
		return ETIMEDOUT
	case WSAECONNREFUSED:
		return ECONNREFUSED
	case WSAELOOP:
		return ELOOP
	case WSAEHOSTUNREACH:
		return EHOSTUNREACH
	default:
		return EIO
	}
}
