// Package framesock implements a length-prefixed message protocol over TCP.
//
// Every message travels as a 4-byte length followed by that many payload
// bytes. A Conn owns one socket: it polls for new messages without blocking,
// drains an announced payload under a deadline, frames outgoing messages and
// turns platform socket errors into connection state.
package framesock

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/Zereker/framesock/internal/sockerr"
	"github.com/Zereker/framesock/internal/sysock"
)

// Errors returned by connection operations.
var (
	// ErrInvalidOption is returned when an option carries a negative timeout.
	ErrInvalidOption = errors.New("invalid option")
	// ErrInvalidKeepAlive is returned when a keep-alive field is negative.
	ErrInvalidKeepAlive = errors.New("invalid keep-alive configuration")
	// ErrMessageTooLarge is returned when a payload does not fit the length prefix.
	ErrMessageTooLarge = errors.New("message too large")
)

// Status is the lifecycle state of a connection.
type Status uint32

const (
	// Disconnected is terminal: the socket has been released.
	Disconnected Status = iota
	// Connected means the socket is open.
	Connected
)

func (s Status) String() string {
	if s == Connected {
		return "connected"
	}
	return "disconnected"
}

// Conn is one accepted (or dialed) socket and its protocol state.
//
// A Conn must be driven by one goroutine at a time. Receive, Send and
// Disconnect are not synchronized with each other; only Status may be read
// concurrently.
type Conn struct {
	id     string
	sock   sysock.Socket // nil once released
	remote *net.TCPAddr
	logger Logger
	opts   options

	status atomic.Uint32
}

// NewConn takes ownership of conn. Keep-alive, when configured, is applied
// here once.
func NewConn(conn *net.TCPConn, opt ...Option) (*Conn, error) {
	opts := defaultOptions()
	for _, o := range opt {
		o(&opts)
	}

	err := checkOptions(&opts)
	if err != nil {
		return nil, err
	}

	if ka := opts.keepAlive; ka != nil {
		err = conn.SetKeepAliveConfig(net.KeepAliveConfig{
			Enable:   true,
			Idle:     ka.Idle,
			Interval: ka.Interval,
			Count:    ka.Count,
		})
		if err != nil {
			return nil, errors.Wrap(err, "set keep-alive")
		}
	}

	sock, err := sysock.New(conn)
	if err != nil {
		return nil, err
	}

	remote, _ := conn.RemoteAddr().(*net.TCPAddr)
	return newConnWithOptions(sock, remote, opts), nil
}

// Dial connects to addr and wraps the result in a Conn.
func Dial(ctx context.Context, addr string, opt ...Option) (*Conn, error) {
	var d net.Dialer
	nc, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	c, err := NewConn(nc.(*net.TCPConn), opt...)
	if err != nil {
		nc.Close()
		return nil, err
	}
	return c, nil
}

// newConnWithOptions creates a Conn over sock with validated options.
func newConnWithOptions(sock sysock.Socket, remote *net.TCPAddr, opts options) *Conn {
	c := &Conn{
		id:     uuid.NewString(),
		sock:   sock,
		remote: remote,
		logger: opts.logger,
		opts:   opts,
	}
	c.status.Store(uint32(Connected))
	opts.metrics.connected()
	return c
}

// ID returns the identifier used for this connection in logs.
func (c *Conn) ID() string {
	return c.id
}

// Status returns the connection state.
func (c *Conn) Status() Status {
	return Status(c.status.Load())
}

// Addr returns the remote address of the connection.
func (c *Conn) Addr() net.Addr {
	if c.remote == nil {
		return nil
	}
	return c.remote
}

// RemoteHost returns the peer's IPv4 address in network byte order, first
// octet most significant. It is 0 for a peer that is not IPv4.
func (c *Conn) RemoteHost() uint32 {
	if c.remote == nil {
		return 0
	}
	ip4 := c.remote.IP.To4()
	if ip4 == nil {
		return 0
	}
	return binary.BigEndian.Uint32(ip4)
}

// RemotePort returns the peer's port.
func (c *Conn) RemotePort() uint16 {
	if c.remote == nil {
		return 0
	}
	return uint16(c.remote.Port)
}

// Receive checks for a new message without blocking. When a length prefix is
// available it blocks, bounded by the read timeout, until the announced
// payload has arrived.
//
// The returned Message is either empty or complete. An empty Message with
// Status still Connected means nothing was pending (or a zero-length frame
// arrived); after a peer close, reset, timeout or unexpected error the Conn
// is Disconnected.
func (c *Conn) Receive() Message {
	if c.Status() != Connected || c.sock == nil {
		return Message{}
	}

	var header [HeaderSize]byte
	n, ok := c.readHeader(header[:])
	if !ok {
		return Message{}
	}

	if n < HeaderSize && !c.drain(header[n:]) {
		return Message{}
	}

	length := c.opts.byteOrder.Uint32(header[:])
	if length == 0 {
		return Message{}
	}

	if uint64(length) > uint64(c.opts.maxReadLength) {
		c.logger.Warn("message too large", "conn_id", c.id, "addr", c.Addr(),
			"length", length, "max", c.opts.maxReadLength)
		c.disconnect(reasonTooLarge)
		return Message{}
	}

	body := make([]byte, length)
	if !c.drain(body) {
		return Message{}
	}

	c.opts.metrics.received(len(body))
	return Message{body: body}
}

// readHeader makes one non-blocking attempt at the length prefix. It returns
// the number of prefix bytes read and whether the caller should go on.
func (c *Conn) readHeader(p []byte) (int, bool) {
	restore, err := c.nonblocking()
	if err != nil {
		c.logger.Debug("switch to non-blocking mode failed", "conn_id", c.id, "error", err)
		return 0, false
	}
	defer restore()

	n, err := c.sock.Read(p)
	if err == nil {
		return n, n > 0
	}

	if errors.Is(err, io.EOF) {
		c.logger.Debug("peer closed connection", "conn_id", c.id, "addr", c.Addr())
		c.disconnect(reasonPeerClosed)
		return 0, false
	}

	if pending := c.sock.PendingError(); pending != nil {
		err = pending
	}

	kind := c.handleError(err)
	return n, kind == sockerr.None && n > 0
}

// nonblocking switches the socket to non-blocking mode and returns the
// function that switches it back.
func (c *Conn) nonblocking() (func(), error) {
	sock := c.sock
	if err := sock.SetNonblock(true); err != nil {
		return nil, err
	}

	return func() {
		if err := sock.SetNonblock(false); err != nil {
			c.logger.Debug("restore blocking mode failed", "conn_id", c.id, "error", err)
		}
	}, nil
}

// drain blocks until p is full or the read deadline passes. Any failure
// leaves the stream unusable, so the connection is released.
func (c *Conn) drain(p []byte) bool {
	sock := c.sock
	if err := sock.SetReadDeadline(time.Now().Add(c.opts.readTimeout)); err != nil {
		c.handleError(err)
		c.disconnect(reasonLocal)
		return false
	}

	_, err := io.ReadFull(sock, p)
	_ = sock.SetReadDeadline(time.Time{})
	if err == nil {
		return true
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		c.logger.Debug("peer closed connection mid-message", "conn_id", c.id, "addr", c.Addr())
		c.disconnect(reasonPeerClosed)
		return false
	}

	if kind := c.handleError(err); !kind.Terminal() {
		c.disconnect(kind.String())
	}
	return false
}

// handleError applies the receive-side error policy and returns the kind.
func (c *Conn) handleError(err error) sockerr.Kind {
	kind, code := sockerr.FromError(err)

	switch kind {
	case sockerr.None, sockerr.WouldBlock:
	case sockerr.Timeout, sockerr.ConnectionReset, sockerr.BrokenPipe:
		c.logger.Debug("connection lost", "conn_id", c.id, "addr", c.Addr(),
			"kind", kind.String(), "error", err)
		c.disconnect(kind.String())
	default:
		c.logger.Error("unhandled socket error", "conn_id", c.id, "addr", c.Addr(),
			"code", code.String(), "errno", sockerr.Errno(err), "error", err)
		c.disconnect(kind.String())
	}

	return kind
}

// Send frames payload and writes it. It returns false without any I/O when
// the connection is not Connected, and false when the write fails. Send never
// changes the connection status.
func (c *Conn) Send(payload []byte) bool {
	if c.Status() != Connected || c.sock == nil {
		return false
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := writeFrame(buf, c.opts.byteOrder, payload); err != nil {
		c.logger.Debug("encode error", "conn_id", c.id, "addr", c.Addr(), "error", err)
		c.opts.metrics.sendFailed()
		return false
	}

	if err := c.write(buf.B); err != nil {
		c.logger.Debug("write error", "conn_id", c.id, "addr", c.Addr(), "error", err)
		c.opts.metrics.sendFailed()
		return false
	}

	c.opts.metrics.sent(len(payload))
	return true
}

// write sends frame with a deadline per attempt. Transient failures retry the
// unsent remainder with exponential backoff; anything else fails at once.
func (c *Conn) write(frame []byte) error {
	sock := c.sock
	defer sock.SetWriteDeadline(time.Time{})

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.opts.retryInterval

	sent := 0
	return backoff.Retry(func() error {
		if err := sock.SetWriteDeadline(time.Now().Add(c.opts.writeTimeout)); err != nil {
			return backoff.Permanent(err)
		}

		n, err := sock.Write(frame[sent:])
		sent += n
		if err == nil {
			return nil
		}

		switch kind, _ := sockerr.FromError(err); kind {
		case sockerr.WouldBlock, sockerr.Timeout:
			c.logger.Debug("send retry", "conn_id", c.id, "sent", sent, "total", len(frame), "error", err)
			return err
		default:
			return backoff.Permanent(err)
		}
	}, backoff.WithMaxRetries(policy, uint64(c.opts.sendRetries)))
}

// Disconnect releases the socket and returns Disconnected. It is safe to call
// more than once.
func (c *Conn) Disconnect() Status {
	return c.disconnect(reasonLocal)
}

// Close implements io.Closer by calling Disconnect.
func (c *Conn) Close() error {
	c.Disconnect()
	return nil
}

func (c *Conn) disconnect(reason string) Status {
	c.status.Store(uint32(Disconnected))
	if c.sock == nil {
		return Disconnected
	}

	if err := c.sock.Shutdown(); err != nil {
		c.logger.Debug("shutdown error", "conn_id", c.id, "error", err)
	}
	if err := c.sock.Close(); err != nil {
		c.logger.Debug("close error", "conn_id", c.id, "error", err)
	}
	c.sock = nil

	c.opts.metrics.disconnected(reason)
	c.logger.Debug("connection released", "conn_id", c.id, "addr", c.Addr(), "reason", reason)
	return Disconnected
}

// Run polls the connection and hands every non-empty message to handler,
// which may reply on the same Conn. It returns ctx.Err() when the context is
// canceled and nil once the connection is disconnected. The connection is
// always released when Run returns.
func (c *Conn) Run(ctx context.Context, handler Handler) error {
	c.logger.Info("connection established", "conn_id", c.id, "addr", c.Addr())
	c.logger.Debug("connection options", "conn_id", c.id,
		"max_read_length", c.opts.maxReadLength,
		"read_timeout", c.opts.readTimeout,
		"write_timeout", c.opts.writeTimeout,
		"poll_interval", c.opts.pollInterval)

	defer func() {
		c.Disconnect()
		c.logger.Info("connection closed", "conn_id", c.id, "addr", c.Addr())
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg := c.Receive()
		if !msg.IsEmpty() {
			handler.OnMessage(msg, c)
			continue
		}

		if c.Status() != Connected {
			return nil
		}

		err := c.sock.WaitReadable(c.opts.pollInterval)
		if err != nil && !errors.Is(err, os.ErrDeadlineExceeded) {
			c.logger.Debug("wait readable error", "conn_id", c.id, "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(c.opts.pollInterval):
			}
		}
	}
}
