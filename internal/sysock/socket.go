// Package sysock is the platform socket capability used by a connection:
// a non-blocking toggle, receive, send, shutdown, close and pending-error
// lookup. The portable parts live here; the syscalls that differ between
// Windows and POSIX live in socket_unix.go and socket_windows.go.
package sysock

import (
	"io"
	"net"
	"syscall"
	"time"

	"github.com/pkg/errors"
)

// Socket is the capability a connection is written against.
type Socket interface {
	io.ReadWriter

	// SetNonblock switches Read between a single non-blocking receive
	// attempt and an ordinary blocking read.
	SetNonblock(nonblocking bool) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error

	// WaitReadable blocks until data (or EOF) is queued or timeout elapses.
	WaitReadable(timeout time.Duration) error

	// PendingError returns the socket's pending error (SO_ERROR), if any.
	PendingError() error

	// Shutdown shuts down both directions of the connection.
	Shutdown() error
	Close() error
}

// TCPSocket implements Socket over a *net.TCPConn.
//
// The Go runtime keeps every socket it owns in non-blocking mode at the OS
// level, so the mode toggle only selects how Read behaves: a single receive
// attempt through the raw descriptor, or a read parked on the runtime poller.
type TCPSocket struct {
	conn *net.TCPConn
	raw  syscall.RawConn

	nonblocking bool
}

// New wraps conn.
func New(conn *net.TCPConn) (*TCPSocket, error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return nil, errors.Wrap(err, "syscall conn")
	}
	return &TCPSocket{conn: conn, raw: raw}, nil
}

// SetNonblock implements Socket.
func (s *TCPSocket) SetNonblock(nonblocking bool) error {
	s.nonblocking = nonblocking
	return nil
}

// Nonblocking reports the current read mode.
func (s *TCPSocket) Nonblocking() bool {
	return s.nonblocking
}

// Read implements io.Reader. An orderly close by the peer is reported as
// io.EOF in both modes.
func (s *TCPSocket) Read(p []byte) (int, error) {
	if !s.nonblocking {
		return s.conn.Read(p)
	}

	var (
		n    int
		rerr error
	)
	err := s.raw.Read(func(fd uintptr) bool {
		n, rerr = recvNonblock(fd, p)
		return true
	})
	if err != nil {
		return 0, err
	}
	if rerr != nil {
		return n, rerr
	}
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Write implements io.Writer. The runtime loops until the whole buffer is
// written, a deadline passes, or the socket fails.
func (s *TCPSocket) Write(p []byte) (int, error) {
	return s.conn.Write(p)
}

// SetReadDeadline implements Socket.
func (s *TCPSocket) SetReadDeadline(t time.Time) error {
	return s.conn.SetReadDeadline(t)
}

// SetWriteDeadline implements Socket.
func (s *TCPSocket) SetWriteDeadline(t time.Time) error {
	return s.conn.SetWriteDeadline(t)
}

// WaitReadable implements Socket. A deadline expiry is returned as an error
// wrapping os.ErrDeadlineExceeded.
func (s *TCPSocket) WaitReadable(timeout time.Duration) error {
	if err := s.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	defer s.conn.SetReadDeadline(time.Time{})

	waited := false
	return s.raw.Read(func(fd uintptr) bool {
		if waited || readable(fd) {
			return true
		}
		waited = true
		return false
	})
}

// PendingError implements Socket.
func (s *TCPSocket) PendingError() error {
	var soErr error
	err := s.raw.Control(func(fd uintptr) {
		soErr = pendingError(fd)
	})
	if err != nil {
		return err
	}
	return soErr
}

// Shutdown implements Socket.
func (s *TCPSocket) Shutdown() error {
	var serr error
	err := s.raw.Control(func(fd uintptr) {
		serr = shutdown(fd)
	})
	if err != nil {
		return err
	}
	return serr
}

// Close implements Socket.
func (s *TCPSocket) Close() error {
	return s.conn.Close()
}
