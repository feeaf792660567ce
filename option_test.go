package framesock

import (
	"encoding/binary"
	"testing"
	"time"
)

func TestMessageMaxSize(t *testing.T) {
	opt := MessageMaxSize(4096)

	var opts options
	opt(&opts)

	if opts.maxReadLength != 4096 {
		t.Errorf("maxReadLength = %d, want 4096", opts.maxReadLength)
	}
}

func TestLoggerOption(t *testing.T) {
	logger := &mockLogger{}
	opt := LoggerOption(logger)

	var opts options
	opt(&opts)

	if opts.logger != logger {
		t.Error("logger not set correctly")
	}
}

func TestMetricsOption(t *testing.T) {
	m := &Metrics{}
	opt := MetricsOption(m)

	var opts options
	opt(&opts)

	if opts.metrics != m {
		t.Error("metrics not set correctly")
	}
}

func TestKeepAliveOption(t *testing.T) {
	ka := KeepAlive{Idle: time.Second, Interval: 2 * time.Second, Count: 3}
	opt := KeepAliveOption(ka)

	var opts options
	opt(&opts)

	if opts.keepAlive == nil {
		t.Fatal("keepAlive is nil")
	}
	if *opts.keepAlive != ka {
		t.Errorf("keepAlive = %+v, want %+v", *opts.keepAlive, ka)
	}
}

func TestSendRetryOption(t *testing.T) {
	opt := SendRetryOption(5, 10*time.Millisecond)

	var opts options
	opt(&opts)

	if opts.sendRetries != 5 {
		t.Errorf("sendRetries = %d, want 5", opts.sendRetries)
	}
	if opts.retryInterval != 10*time.Millisecond {
		t.Errorf("retryInterval = %v, want 10ms", opts.retryInterval)
	}
}

func TestCheckOptions_Defaults(t *testing.T) {
	opts := defaultOptions()
	if err := checkOptions(&opts); err != nil {
		t.Fatalf("checkOptions: %v", err)
	}

	if opts.maxReadLength != defaultMaxPackageLength {
		t.Errorf("maxReadLength = %d, want %d", opts.maxReadLength, defaultMaxPackageLength)
	}
	if opts.readTimeout != defaultReadTimeout {
		t.Errorf("readTimeout = %v, want %v", opts.readTimeout, defaultReadTimeout)
	}
	if opts.writeTimeout != defaultWriteTimeout {
		t.Errorf("writeTimeout = %v, want %v", opts.writeTimeout, defaultWriteTimeout)
	}
	if opts.sendRetries != defaultSendRetries {
		t.Errorf("sendRetries = %d, want %d", opts.sendRetries, defaultSendRetries)
	}
	if opts.retryInterval != defaultRetryInterval {
		t.Errorf("retryInterval = %v, want %v", opts.retryInterval, defaultRetryInterval)
	}
	if opts.pollInterval != defaultPollInterval {
		t.Errorf("pollInterval = %v, want %v", opts.pollInterval, defaultPollInterval)
	}
	if opts.byteOrder != binary.BigEndian {
		t.Errorf("byteOrder = %v, want BigEndian", opts.byteOrder)
	}
	if opts.keepAlive != nil {
		t.Error("keepAlive set by default")
	}
	if opts.logger == nil {
		t.Error("logger not defaulted")
	}
}

func TestCheckOptions_ZeroRetries(t *testing.T) {
	opts := defaultOptions()
	SendRetryOption(0, 0)(&opts)

	if err := checkOptions(&opts); err != nil {
		t.Fatalf("checkOptions: %v", err)
	}
	if opts.sendRetries != 0 {
		t.Errorf("sendRetries = %d, want 0", opts.sendRetries)
	}
	if opts.retryInterval != defaultRetryInterval {
		t.Errorf("retryInterval = %v, want %v", opts.retryInterval, defaultRetryInterval)
	}
}

func TestCheckOptions_Invalid(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
		want error
	}{
		{"negative read timeout", ReadTimeoutOption(-time.Second), ErrInvalidOption},
		{"negative write timeout", WriteTimeoutOption(-time.Second), ErrInvalidOption},
		{"negative idle", KeepAliveOption(KeepAlive{Idle: -1}), ErrInvalidKeepAlive},
		{"negative interval", KeepAliveOption(KeepAlive{Interval: -1}), ErrInvalidKeepAlive},
		{"negative count", KeepAliveOption(KeepAlive{Count: -1}), ErrInvalidKeepAlive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaultOptions()
			tt.opt(&opts)

			if err := checkOptions(&opts); err != tt.want {
				t.Errorf("checkOptions() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestOptions_MultipleOptions(t *testing.T) {
	logger := &mockLogger{}
	maxSize := 8192

	opts := defaultOptions()
	options := []Option{
		MessageMaxSize(maxSize),
		LoggerOption(logger),
		ReadTimeoutOption(time.Second),
		WriteTimeoutOption(2 * time.Second),
		ByteOrderOption(binary.NativeEndian),
		PollIntervalOption(5 * time.Millisecond),
	}

	for _, opt := range options {
		opt(&opts)
	}
	if err := checkOptions(&opts); err != nil {
		t.Fatalf("checkOptions: %v", err)
	}

	if opts.maxReadLength != maxSize {
		t.Errorf("maxReadLength = %d, want %d", opts.maxReadLength, maxSize)
	}
	if opts.logger != logger {
		t.Error("logger not set")
	}
	if opts.readTimeout != time.Second {
		t.Errorf("readTimeout = %v, want 1s", opts.readTimeout)
	}
	if opts.writeTimeout != 2*time.Second {
		t.Errorf("writeTimeout = %v, want 2s", opts.writeTimeout)
	}
	if opts.byteOrder != binary.NativeEndian {
		t.Error("byteOrder not set")
	}
	if opts.pollInterval != 5*time.Millisecond {
		t.Errorf("pollInterval = %v, want 5ms", opts.pollInterval)
	}
}
