// Package wire implements the ceremony's length-prefixed TCP framing and
// the message codecs layered on top of it (spec §6): a 4-byte big-endian
// length prefix followed by a self-describing binary payload, the same
// shape bbs/marshal.go uses for its own fixed-field encodings.
package wire

import (
	"encoding/binary"
	"errors"
	"io"
)

// MaxFrameSize bounds a single frame's payload, guarding against a
// malicious or corrupt length prefix causing an unbounded allocation.
// The largest legitimate frame is a Stage1Contents for the ceremony's
// largest supported degree; this is set generously above that.
const MaxFrameSize = 256 << 20

// ErrFrameTooLarge is returned by ReadFrame when the length prefix
// exceeds MaxFrameSize.
var ErrFrameTooLarge = errors.New("wire: frame exceeds maximum size")

// WriteFrame writes payload prefixed by its 4-byte big-endian length.
func WriteFrame(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// ReadFrame reads one length-prefixed payload. It blocks until the full
// frame arrives, an error occurs, or the reader's deadline (set by the
// caller on the underlying net.Conn) expires.
func ReadFrame(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}
