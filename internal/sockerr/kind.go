// Package sockerr normalizes platform socket error codes into a small
// portable taxonomy.
//
// Windows (WSA*) and POSIX errno values are first mapped onto a shared
// POSIX-named Code space, then classified into a Kind. Everything in this
// package is pure: no I/O, no state.
package sockerr

// Kind is the portable classification of a socket error.
type Kind int

const (
	// None means no error was pending.
	None Kind = iota
	// WouldBlock means no data is available yet on a non-blocking socket.
	WouldBlock
	// Timeout means the peer stopped answering (keep-alive or deadline).
	Timeout
	// ConnectionReset means the peer reset the connection.
	ConnectionReset
	// BrokenPipe means the connection can no longer be written to.
	BrokenPipe
	// Other covers every code not listed above.
	Other
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case WouldBlock:
		return "would_block"
	case Timeout:
		return "timeout"
	case ConnectionReset:
		return "connection_reset"
	case BrokenPipe:
		return "broken_pipe"
	default:
		return "other"
	}
}

// Terminal reports whether an error of this kind ends the connection.
func (k Kind) Terminal() bool {
	return k != None && k != WouldBlock
}
