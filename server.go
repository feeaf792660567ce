package framesock

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"
)

// Handler receives every non-empty message read from a connection.
// Implementations may reply through conn.Send or end the session with
// conn.Disconnect. OnMessage runs on the connection's own goroutine.
type Handler interface {
	OnMessage(msg Message, conn *Conn)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(msg Message, conn *Conn)

// OnMessage calls f(msg, conn).
func (f HandlerFunc) OnMessage(msg Message, conn *Conn) {
	f(msg, conn)
}

// Server accepts TCP connections and runs each one on a worker.
type Server struct {
	listener        *net.TCPListener
	logger          Logger
	metrics         *Metrics
	shutdownTimeout time.Duration
	workers         int
	connOpts        []Option

	pool  *ants.Pool
	conns cmap.ConcurrentMap[string, *Conn]

	mu          sync.Mutex
	shutdown    bool
	shutdownNow chan struct{} // signals immediate shutdown, bypassing timeout
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// ServerLoggerOption sets the logger for the server. Unless ServerConnOptions
// sets another one, connections log through it too.
func ServerLoggerOption(logger Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// ServerShutdownTimeoutOption sets the graceful shutdown timeout.
// When the context is canceled, the server will wait up to this duration
// before closing the listener. This gives existing connections time to complete.
// Default is 0 (immediate shutdown).
func ServerShutdownTimeoutOption(timeout time.Duration) ServerOption {
	return func(s *Server) {
		s.shutdownTimeout = timeout
	}
}

// ServerConnOptions sets the options every accepted connection is created with.
func ServerConnOptions(opts ...Option) ServerOption {
	return func(s *Server) {
		s.connOpts = append(s.connOpts, opts...)
	}
}

// ServerWorkersOption caps the number of connections served at once.
// Connections accepted beyond the cap are closed immediately. Zero or a
// negative value means no cap.
func ServerWorkersOption(n int) ServerOption {
	return func(s *Server) {
		s.workers = n
	}
}

// ServerMetricsOption records server and connection activity in m.
func ServerMetricsOption(m *Metrics) ServerOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// New creates a new TCP server bound to the specified address.
// Returns an error if the address cannot be bound.
func New(addr *net.TCPAddr, opts ...ServerOption) (*Server, error) {
	s := &Server{
		logger:      slog.Default(),
		conns:       cmap.New[*Conn](),
		shutdownNow: make(chan struct{}, 1),
	}

	for _, opt := range opts {
		opt(s)
	}

	pool, err := ants.NewPool(s.workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}

	listener, err := net.ListenTCP(addr.Network(), addr)
	if err != nil {
		pool.Release()
		return nil, err
	}

	s.listener = listener
	s.pool = pool
	return s, nil
}

// Serve accepts connections and runs each one with handler until ctx is
// canceled or the listener fails. Connections still running when Serve
// returns observe the same ctx and wind down on their own.
//
// If ServerShutdownTimeoutOption is set, the server waits up to that duration
// after cancellation before it stops accepting. Call Close to skip the wait.
func (s *Server) Serve(ctx context.Context, handler Handler) error {
	s.logger.Info("server started", "addr", s.listener.Addr())

	group, child := errgroup.WithContext(ctx)
	stopped := make(chan struct{})

	group.Go(func() error {
		select {
		case <-child.Done():
		case <-stopped:
			return nil
		}

		if ctx.Err() != nil && s.shutdownTimeout > 0 {
			s.logger.Info("graceful shutdown initiated", "timeout", s.shutdownTimeout)
			select {
			case <-time.After(s.shutdownTimeout):
			case <-s.shutdownNow:
				s.logger.Debug("shutdown timeout bypassed via Close()")
			}
		}

		s.mu.Lock()
		s.shutdown = true
		s.mu.Unlock()
		// Set a deadline to unblock Accept
		_ = s.listener.SetDeadline(time.Now())
		return nil
	})

	group.Go(func() error {
		defer close(stopped)
		return s.acceptLoop(ctx, handler)
	})

	err := group.Wait()
	s.pool.Release()
	return err
}

func (s *Server) acceptLoop(ctx context.Context, handler Handler) error {
	for {
		tcp, err := s.listener.AcceptTCP()
		if err != nil {
			if s.isShutdown() {
				s.logger.Info("server stopped", "addr", s.listener.Addr())
				return ctx.Err()
			}

			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			s.logger.Error("accept error", "error", err)
			return err
		}

		s.logger.Debug("accepted connection", "remote_addr", tcp.RemoteAddr())
		_ = tcp.SetNoDelay(true)
		s.serveConn(ctx, tcp, handler)
	}
}

func (s *Server) serveConn(ctx context.Context, tcp *net.TCPConn, handler Handler) {
	opts := make([]Option, 0, len(s.connOpts)+2)
	opts = append(opts, LoggerOption(s.logger), MetricsOption(s.metrics))
	opts = append(opts, s.connOpts...)

	conn, err := NewConn(tcp, opts...)
	if err != nil {
		s.logger.Error("create connection failed", "remote_addr", tcp.RemoteAddr(), "error", err)
		_ = tcp.Close()
		return
	}

	s.conns.Set(conn.ID(), conn)
	err = s.pool.Submit(func() {
		defer s.conns.Remove(conn.ID())
		_ = conn.Run(ctx, handler)
	})
	if err != nil {
		s.logger.Warn("connection rejected", "conn_id", conn.ID(), "addr", conn.Addr(), "error", err)
		s.conns.Remove(conn.ID())
		conn.Close()
	}
}

func (s *Server) isShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdown
}

// Close stops the server by closing the underlying listener.
// If a shutdown timeout is configured, Close() bypasses the remaining timeout.
// Any blocked Accept calls will return with an error. Connections already
// running keep their workers until they end.
func (s *Server) Close() error {
	s.mu.Lock()
	s.shutdown = true
	s.mu.Unlock()

	select {
	case s.shutdownNow <- struct{}{}:
	default:
	}

	s.pool.Release()
	return s.listener.Close()
}

// Addr returns the listener's network address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Len returns the number of connections currently being served.
func (s *Server) Len() int {
	return s.conns.Count()
}
