package framesock

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func TestLogger_Interface(t *testing.T) {
	// Verify that *slog.Logger implements our Logger interface
	var _ Logger = slog.Default()
}

func TestDefaultLogger(t *testing.T) {
	logger := defaultLogger()

	if logger == nil {
		t.Fatal("defaultLogger returned nil")
	}

	// Verify it's the slog default
	if logger != slog.Default() {
		t.Error("defaultLogger did not return slog.Default()")
	}
}

// logEntry is one call recorded by mockLogger.
type logEntry struct {
	level string
	msg   string
	args  []any
}

// mockLogger records every call. It is safe for concurrent use.
type mockLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *mockLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, args: args})
}

func (l *mockLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *mockLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *mockLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *mockLogger) Error(msg string, args ...any) { l.record("error", msg, args) }

// find returns the first entry at level with message msg.
func (l *mockLogger) find(level, msg string) (logEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.level == level && e.msg == msg {
			return e, true
		}
	}
	return logEntry{}, false
}

// count returns the number of entries at level.
func (l *mockLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e.level == level {
			n++
		}
	}
	return n
}

// arg returns the value logged for key.
func (e logEntry) arg(key string) any {
	for i := 0; i+1 < len(e.args); i += 2 {
		if e.args[i] == key {
			return e.args[i+1]
		}
	}
	return nil
}

func TestLogger_CustomImplementation(t *testing.T) {
	logger := &mockLogger{}
	var l Logger = logger

	l.Debug("test debug", "key1", "value1")
	l.Info("test info", "key2", "value2")
	l.Warn("test warn", "key3", "value3")
	l.Error("test error", "key4", "value4")

	for _, level := range []string{"debug", "info", "warn", "error"} {
		if logger.count(level) != 1 {
			t.Errorf("%s called %d times, want 1", level, logger.count(level))
		}
	}

	e, ok := logger.find("debug", "test debug")
	if !ok {
		t.Fatal("debug entry not recorded")
	}
	if e.arg("key1") != "value1" {
		t.Errorf("key1 = %v, want value1", e.arg("key1"))
	}
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf))

	logger.Warn("message too large", "conn_id", "abc", "length", 42)

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid log line %q: %v", buf.String(), err)
	}
	if got["level"] != "warn" {
		t.Errorf("level = %v, want warn", got["level"])
	}
	if got["message"] != "message too large" {
		t.Errorf("message = %v, want %q", got["message"], "message too large")
	}
	if got["conn_id"] != "abc" {
		t.Errorf("conn_id = %v, want abc", got["conn_id"])
	}
	if got["length"] != float64(42) {
		t.Errorf("length = %v, want 42", got["length"])
	}
}

func TestZerologLogger_LevelFiltered(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	logger.Debug("hidden", "key", "value")
	if buf.Len() != 0 {
		t.Errorf("debug line written below level: %q", buf.String())
	}

	logger.Info("shown")
	if buf.Len() == 0 {
		t.Error("info line not written")
	}
}
