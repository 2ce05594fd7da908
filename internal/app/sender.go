package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/bft-labs/diodeship/internal/domain"
	"github.com/bft-labs/diodeship/internal/ports"
	"github.com/bft-labs/diodeship/pkg/fec"
	"github.com/bft-labs/diodeship/pkg/frame"
)

// Sender transmits one file as one frame. It never waits for the far side.
type Sender struct {
	opener      ports.TransportOpener
	logger      ports.Logger
	readTimeout time.Duration
}

// NewSender creates a Sender. readTimeout is applied to the opened port.
func NewSender(opener ports.TransportOpener, logger ports.Logger, readTimeout time.Duration) *Sender {
	return &Sender{opener: opener, logger: logger, readTimeout: readTimeout}
}

// SendFile reads the file at path, FEC-encodes it with ecc parity symbols
// per block and writes a single frame to port. A nil error means the bytes
// were handed to the local transport, not that anything was received.
func (s *Sender) SendFile(ctx context.Context, port domain.Port, ecc int, path string) error {
	if err := checkECC(ecc); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrFileRead, err)
	}

	name, err := frameName(path)
	if err != nil {
		return err
	}
	fingerprint := Fingerprint(data)
	s.logger.Info("file read",
		ports.String("file", name),
		ports.Int("bytes", len(data)),
		ports.Hex16("crc16", fingerprint),
	)

	encoded, err := fec.Encode(data, ecc)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidECC, err)
	}
	if err := frame.Validate(name, len(encoded)); err != nil {
		return mapFrameError(err)
	}
	s.logger.Debug("payload encoded",
		ports.Int("ecc", ecc),
		ports.Int("plain_bytes", len(data)),
		ports.Int("encoded_bytes", len(encoded)),
	)

	if err := ctx.Err(); err != nil {
		return err
	}

	t, err := s.opener.Open(port, s.readTimeout)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransportOpen, err)
	}
	defer t.Close()
	s.logger.Debug("port opened", ports.String("port", port.String()))

	f := frame.Frame{Filename: name, Payload: encoded}
	if err := frame.Write(t, f); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrTransportWrite, port.Name, err)
	}

	s.logger.Info("frame sent",
		ports.String("file", name),
		ports.String("port", port.String()),
		ports.Int("wire_bytes", f.Size()),
		ports.Hex16("crc16", fingerprint),
	)
	return nil
}

// frameName derives the name carried on the wire: the final path element,
// which must be non-empty valid UTF-8 that fits the 16-bit length field.
func frameName(path string) (string, error) {
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "", fmt.Errorf("%w: no file name in %q", domain.ErrInvalidFilename, path)
	}
	if !utf8.ValidString(name) {
		return "", fmt.Errorf("%w: %q is not valid UTF-8", domain.ErrInvalidFilename, name)
	}
	if len(name) > frame.MaxFilenameLen {
		return "", fmt.Errorf("%w: %d bytes exceeds %d", domain.ErrInvalidFilename, len(name), frame.MaxFilenameLen)
	}
	return name, nil
}

func checkECC(ecc int) error {
	if ecc < 0 || ecc > fec.MaxECCSymbols {
		return fmt.Errorf("%w: %d not in [0, %d]", domain.ErrInvalidECC, ecc, fec.MaxECCSymbols)
	}
	return nil
}

// mapFrameError translates frame codec errors to domain categories while
// keeping the cause in the chain.
func mapFrameError(err error) error {
	switch {
	case errors.Is(err, frame.ErrTimeout):
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	case errors.Is(err, frame.ErrFilenameTooLong):
		return fmt.Errorf("%w: %w", domain.ErrInvalidFilename, err)
	case errors.Is(err, frame.ErrPayloadTooLarge):
		return fmt.Errorf("%w: %w", domain.ErrPayloadTooLarge, err)
	default:
		return err
	}
}
