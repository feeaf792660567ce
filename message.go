package framesock

import (
	"encoding/binary"
	"io"
	"math"
)

// HeaderSize is the width of the length prefix that precedes every payload.
const HeaderSize = 4

// Message is one received payload.
//
// The zero value is the empty message: Length is 0 and Body is nil. A
// non-empty Message always carries its complete payload.
type Message struct {
	body []byte
}

// NewMessage wraps body without copying it.
func NewMessage(body []byte) Message {
	if len(body) == 0 {
		return Message{}
	}
	return Message{body: body}
}

// Length returns the length of the message body.
func (m Message) Length() int {
	return len(m.body)
}

// Body returns the raw message data. It is nil for an empty message.
func (m Message) Body() []byte {
	return m.body
}

// IsEmpty reports whether the message carries no payload.
func (m Message) IsEmpty() bool {
	return len(m.body) == 0
}

// writeFrame writes the length prefix followed by payload.
func writeFrame(w io.Writer, order binary.ByteOrder, payload []byte) error {
	if uint64(len(payload)) > math.MaxUint32 {
		return ErrMessageTooLarge
	}

	var header [HeaderSize]byte
	order.PutUint32(header[:], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
