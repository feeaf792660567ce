package framesock

import (
	"encoding/binary"
	"time"
)

// KeepAlive holds the TCP keep-alive probing parameters applied to a socket
// once, when its Conn is created.
type KeepAlive struct {
	Idle     time.Duration // idle time before the first probe
	Interval time.Duration // time between probes
	Count    int           // unanswered probes before the peer is declared dead
}

// options holds the configuration for a connection.
type options struct {
	logger  Logger
	metrics *Metrics

	byteOrder     binary.ByteOrder
	keepAlive     *KeepAlive
	maxReadLength int           // maximum size of a single message
	readTimeout   time.Duration // deadline for draining an announced payload
	writeTimeout  time.Duration // deadline for each send attempt
	sendRetries   int           // retries for a transient send failure
	retryInterval time.Duration // initial backoff between send retries
	pollInterval  time.Duration // how long Run waits for data between polls
}

// Option is a function that configures connection options.
type Option func(*options)

// Default configuration values.
const (
	// defaultMaxPackageLength is the default maximum size of a single message (1MB).
	defaultMaxPackageLength = 1024 * 1024
	defaultReadTimeout      = 30 * time.Second
	defaultWriteTimeout     = 30 * time.Second
	defaultSendRetries      = 3
	defaultRetryInterval    = 50 * time.Millisecond
	defaultPollInterval     = 50 * time.Millisecond
)

// checkOptions validates and sets default values for connection options.
func checkOptions(opts *options) error {
	if opts.maxReadLength <= 0 {
		opts.maxReadLength = defaultMaxPackageLength
	}

	if opts.readTimeout < 0 || opts.writeTimeout < 0 {
		return ErrInvalidOption
	}
	if opts.readTimeout == 0 {
		opts.readTimeout = defaultReadTimeout
	}
	if opts.writeTimeout == 0 {
		opts.writeTimeout = defaultWriteTimeout
	}

	if opts.sendRetries < 0 {
		opts.sendRetries = defaultSendRetries
	}
	if opts.retryInterval <= 0 {
		opts.retryInterval = defaultRetryInterval
	}

	if opts.pollInterval <= 0 {
		opts.pollInterval = defaultPollInterval
	}

	if opts.byteOrder == nil {
		opts.byteOrder = binary.BigEndian
	}

	if ka := opts.keepAlive; ka != nil {
		if ka.Idle < 0 || ka.Interval < 0 || ka.Count < 0 {
			return ErrInvalidKeepAlive
		}
	}

	if opts.logger == nil {
		opts.logger = defaultLogger()
	}

	return nil
}

func defaultOptions() options {
	return options{sendRetries: -1}
}

// LoggerOption returns an Option that sets the logger.
// If not set, the default slog logger will be used.
func LoggerOption(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// MetricsOption returns an Option that records connection activity in m.
func MetricsOption(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// MessageMaxSize returns an Option that sets the maximum message size.
// A peer announcing a larger message is disconnected.
func MessageMaxSize(size int) Option {
	return func(o *options) {
		o.maxReadLength = size
	}
}

// ReadTimeoutOption bounds how long Receive may block draining a payload
// whose length prefix has already arrived.
func ReadTimeoutOption(timeout time.Duration) Option {
	return func(o *options) {
		o.readTimeout = timeout
	}
}

// WriteTimeoutOption bounds each send attempt.
func WriteTimeoutOption(timeout time.Duration) Option {
	return func(o *options) {
		o.writeTimeout = timeout
	}
}

// SendRetryOption sets how many times a send that failed transiently (would
// block, timed out) is retried, and the initial backoff between attempts.
// Only the unsent remainder of a frame is retried. Zero disables retries.
func SendRetryOption(retries int, interval time.Duration) Option {
	return func(o *options) {
		o.sendRetries = retries
		o.retryInterval = interval
	}
}

// KeepAliveOption returns an Option that enables TCP keep-alive.
func KeepAliveOption(ka KeepAlive) Option {
	return func(o *options) {
		o.keepAlive = &ka
	}
}

// ByteOrderOption sets the byte order of the length prefix. The default is
// network byte order; binary.NativeEndian matches peers that write the host
// representation.
func ByteOrderOption(order binary.ByteOrder) Option {
	return func(o *options) {
		o.byteOrder = order
	}
}

// PollIntervalOption sets how long Run waits for the socket to become
// readable before polling again.
func PollIntervalOption(interval time.Duration) Option {
	return func(o *options) {
		o.pollInterval = interval
	}
}
