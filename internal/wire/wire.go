// Package wire handles reading and writing length-prefixed messages over a
// net.Conn.
//
// Wire format:
//
//	[ 4-byte big-endian length ][ payload bytes ]
//
// The payload is a JSON record defined by the message package. Framing is
// symmetric: both the monitor and the server read and write the same shape.
package wire

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/cazacugmihai/CopyQ/internal/message"
)

const (
	// MaxMessageSize is the largest payload we will accept (16 MiB).
	MaxMessageSize = 16 * 1024 * 1024

	writeDeadline = 5 * time.Second
)

// ProtocolError marks a malformed frame on an otherwise healthy connection:
// an oversized length prefix or an undecodable payload. The stream position
// is past the bad frame, so the caller may keep reading; any other error
// from ReadMsg means the connection is unusable.
type ProtocolError struct {
	Err error
}

func (e *ProtocolError) Error() string { return fmt.Sprintf("protocol: %v", e.Err) }
func (e *ProtocolError) Unwrap() error { return e.Err }

// IsProtocol reports whether err is a recoverable framing error.
func IsProtocol(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

// Conn wraps a net.Conn with buffered length-prefixed framing.
type Conn struct {
	conn net.Conn
	br   *bufio.Reader
}

// New wraps conn.
func New(conn net.Conn) *Conn {
	return &Conn{
		conn: conn,
		br:   bufio.NewReaderSize(conn, 64*1024),
	}
}

// Underlying returns the underlying net.Conn.
func (c *Conn) Underlying() net.Conn { return c.conn }

// Close closes the underlying connection.
func (c *Conn) Close() error { return c.conn.Close() }

// WriteMsg serialises msg and writes it as one frame.
func (c *Conn) WriteMsg(msg *message.Message) error {
	payload, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if len(payload) > MaxMessageSize {
		return fmt.Errorf("message too large (%d bytes)", len(payload))
	}

	frame := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(frame[:4], uint32(len(payload)))
	copy(frame[4:], payload)

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	_, err = c.conn.Write(frame)
	_ = c.conn.SetWriteDeadline(time.Time{})
	return err
}

// ReadMsg reads one complete frame and deserialises it. Blocks until a
// frame arrives, the peer closes the connection (io.EOF), or the transport
// fails. An oversized frame is drained and reported as a *ProtocolError so
// the caller can resume reading at the next frame boundary.
func (c *Conn) ReadMsg() (*message.Message, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(c.br, hdr[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(hdr[:])
	if n > MaxMessageSize {
		// Skip the frame body so the stream stays aligned.
		if _, err := io.CopyN(io.Discard, c.br, int64(n)); err != nil {
			return nil, err
		}
		return nil, &ProtocolError{Err: fmt.Errorf("frame too large (%d bytes)", n)}
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(c.br, payload); err != nil {
		return nil, err
	}

	msg, err := message.Decode(payload)
	if err != nil {
		return nil, &ProtocolError{Err: err}
	}
	return msg, nil
}
