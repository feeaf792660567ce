//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package framesock

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestConn_ReceiveErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		pending    error
		wantStatus Status
		wantError  bool
	}{
		{name: "would block", err: unix.EAGAIN, wantStatus: Connected},
		{name: "interrupted is unexpected", err: unix.EINTR, wantStatus: Disconnected, wantError: true},
		{name: "connection reset", err: unix.ECONNRESET, wantStatus: Disconnected},
		{name: "broken pipe", err: unix.EPIPE, wantStatus: Disconnected},
		{name: "timed out", err: unix.ETIMEDOUT, wantStatus: Disconnected},
		{name: "unknown errno", err: unix.ENOENT, wantStatus: Disconnected, wantError: true},
		{name: "not a socket", err: unix.ENOTSOCK, wantStatus: Disconnected, wantError: true},
		{name: "pending error wins", err: unix.EAGAIN, pending: unix.ECONNRESET, wantStatus: Disconnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &mockLogger{}
			sock := &fakeSocket{
				reads:   []fakeRead{{err: tt.err}},
				pending: tt.pending,
			}
			conn := newFakeConn(t, sock, LoggerOption(logger))

			assert.True(t, conn.Receive().IsEmpty())
			assert.Equal(t, tt.wantStatus, conn.Status())
			assert.Equal(t, []bool{true, false}, sock.modes)

			_, logged := logger.find("error", "unhandled socket error")
			assert.Equal(t, tt.wantError, logged)

			if tt.wantStatus == Disconnected {
				assert.Nil(t, conn.sock)
				assert.Equal(t, 1, sock.closes)
				assert.False(t, conn.Send([]byte("x")))
				assert.Equal(t, 0, sock.writeCalls)
			}
		})
	}
}

func TestConn_UnhandledErrorLogsCode(t *testing.T) {
	logger := &mockLogger{}
	sock := &fakeSocket{reads: []fakeRead{{err: unix.EADDRINUSE}}}
	conn := newFakeConn(t, sock, LoggerOption(logger))

	conn.Receive()

	e, ok := logger.find("error", "unhandled socket error")
	require.True(t, ok)
	assert.Equal(t, "EADDRINUSE", e.arg("code"))
	assert.Equal(t, int(unix.EADDRINUSE), e.arg("errno"))
	assert.Equal(t, conn.ID(), e.arg("conn_id"))
}

func TestConn_ResetMidPayload(t *testing.T) {
	var header [HeaderSize]byte
	binary.BigEndian.PutUint32(header[:], 8)

	sock := &fakeSocket{reads: []fakeRead{
		{data: header[:]},
		{data: []byte("half"), err: unix.ECONNRESET},
	}}
	conn := newFakeConn(t, sock)

	assert.True(t, conn.Receive().IsEmpty())
	assert.Equal(t, Disconnected, conn.Status())
	assert.Equal(t, 1, sock.shutdowns)
}

func TestConn_SendRetriesRemainder(t *testing.T) {
	sock := &fakeSocket{writes: []fakeWrite{
		{limit: 3, err: unix.EAGAIN},
		{limit: 2, err: unix.EAGAIN},
	}}
	conn := newFakeConn(t, sock, SendRetryOption(3, time.Millisecond))

	require.True(t, conn.Send([]byte("retry me")))
	assert.Equal(t, 3, sock.writeCalls)
	assert.Equal(t, frame(binary.BigEndian, []byte("retry me")), sock.wire.Bytes())
}

func TestConn_SendRetriesExhausted(t *testing.T) {
	sock := &fakeSocket{writes: []fakeWrite{
		{err: unix.EAGAIN},
		{err: unix.EAGAIN},
		{err: unix.EAGAIN},
	}}
	conn := newFakeConn(t, sock, SendRetryOption(2, time.Millisecond))

	assert.False(t, conn.Send([]byte("x")))
	assert.Equal(t, 3, sock.writeCalls)
	assert.Equal(t, Connected, conn.Status())
}

func TestConn_SendPermanentFailure(t *testing.T) {
	sock := &fakeSocket{writes: []fakeWrite{{err: unix.EPIPE}}}
	conn := newFakeConn(t, sock, SendRetryOption(5, time.Millisecond))

	assert.False(t, conn.Send([]byte("x")))
	assert.Equal(t, 1, sock.writeCalls)
	// Send never changes the connection status.
	assert.Equal(t, Connected, conn.Status())
	assert.Equal(t, 0, sock.closes)
}
