package frame

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

const (
	// MaxFilenameLen is the largest name the 16-bit length field can carry.
	MaxFilenameLen = math.MaxUint16

	// MaxPayloadLen is the largest payload the 32-bit length field can carry.
	MaxPayloadLen = math.MaxUint32

	nameLenSize    = 2
	payloadLenSize = 4
)

var (
	// ErrTimeout is returned by Read when not a single byte of the frame
	// arrived before the transport's read timeout.
	ErrTimeout = errors.New("frame: no data before timeout")

	// ErrShortRead is returned by Read when the frame stops after it started.
	ErrShortRead = errors.New("frame: short read")

	// ErrFilenameTooLong is returned for names longer than MaxFilenameLen bytes.
	ErrFilenameTooLong = errors.New("frame: filename too long")

	// ErrPayloadTooLarge is returned for payloads that do not fit the length
	// field or exceed the reader's limit.
	ErrPayloadTooLarge = errors.New("frame: payload too large")
)

// Frame is one self-delimited transfer on the wire:
//
//	[2 bytes] filename length N (big-endian)
//	[N bytes] filename
//	[4 bytes] payload length M (big-endian)
//	[M bytes] payload (FEC encoded)
//
// There is no magic number, version or checksum.
type Frame struct {
	Filename string
	Payload  []byte
}

// Size returns the number of bytes the frame occupies on the wire.
func (f Frame) Size() int {
	return nameLenSize + len(f.Filename) + payloadLenSize + len(f.Payload)
}

// Validate checks that the frame fits its length fields.
func Validate(filename string, payloadLen int) error {
	if len(filename) > MaxFilenameLen {
		return fmt.Errorf("%d bytes: %w", len(filename), ErrFilenameTooLong)
	}
	if uint64(payloadLen) > MaxPayloadLen {
		return fmt.Errorf("%d bytes: %w", payloadLen, ErrPayloadTooLarge)
	}
	return nil
}

// Write emits the frame as four ordered writes. Any failed or partial write
// aborts the frame; nothing is retried.
func Write(w io.Writer, f Frame) error {
	if err := Validate(f.Filename, len(f.Payload)); err != nil {
		return err
	}

	var nameLen [nameLenSize]byte
	binary.BigEndian.PutUint16(nameLen[:], uint16(len(f.Filename)))
	if err := writeAll(w, nameLen[:]); err != nil {
		return fmt.Errorf("write filename length: %w", err)
	}
	if err := writeAll(w, []byte(f.Filename)); err != nil {
		return fmt.Errorf("write filename: %w", err)
	}

	var payloadLen [payloadLenSize]byte
	binary.BigEndian.PutUint32(payloadLen[:], uint32(len(f.Payload)))
	if err := writeAll(w, payloadLen[:]); err != nil {
		return fmt.Errorf("write payload length: %w", err)
	}
	if err := writeAll(w, f.Payload); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	return nil
}

// Marshal returns the wire bytes of f.
func Marshal(f Frame) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(f.Size())
	if err := Write(&buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Read reads exactly one frame from r.
//
// If the transport times out before the first byte, Read returns ErrTimeout.
// A frame that stops after it started yields ErrShortRead. Payload lengths
// above maxPayload are rejected before allocation; maxPayload == 0 means the
// 32-bit field is the only limit. The filename is decoded lossily: invalid
// UTF-8 becomes U+FFFD.
func Read(r io.Reader, maxPayload uint32) (Frame, error) {
	var nameLen [nameLenSize]byte
	if n, err := readFull(r, nameLen[:]); err != nil {
		if n == 0 && errors.Is(err, ErrShortRead) {
			return Frame{}, ErrTimeout
		}
		return Frame{}, fmt.Errorf("read filename length: %w", err)
	}

	name := make([]byte, binary.BigEndian.Uint16(nameLen[:]))
	if _, err := readFull(r, name); err != nil {
		return Frame{}, fmt.Errorf("read filename: %w", err)
	}

	var payloadLen [payloadLenSize]byte
	if _, err := readFull(r, payloadLen[:]); err != nil {
		return Frame{}, fmt.Errorf("read payload length: %w", err)
	}
	m := binary.BigEndian.Uint32(payloadLen[:])
	if maxPayload > 0 && m > maxPayload {
		return Frame{}, fmt.Errorf("%d bytes over limit %d: %w", m, maxPayload, ErrPayloadTooLarge)
	}

	payload := make([]byte, m)
	if _, err := readFull(r, payload); err != nil {
		return Frame{}, fmt.Errorf("read payload: %w", err)
	}

	return Frame{
		Filename: strings.ToValidUTF8(string(name), "\uFFFD"),
		Payload:  payload,
	}, nil
}

// readFull is io.ReadFull for timeout-bounded transports: a read returning
// no data (nil error or io.EOF) means the timeout elapsed.
func readFull(r io.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if m > 0 {
			continue
		}
		if err == nil || errors.Is(err, io.EOF) {
			return n, fmt.Errorf("got %d of %d bytes: %w", n, len(buf), ErrShortRead)
		}
		return n, err
	}
	return n, nil
}

func writeAll(w io.Writer, p []byte) error {
	if len(p) == 0 {
		return nil
	}
	n, err := w.Write(p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return io.ErrShortWrite
	}
	return nil
}
