package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bft-labs/diodeship/internal/domain"
	"github.com/bft-labs/diodeship/internal/ports"
	"github.com/bft-labs/diodeship/pkg/fec"
	"github.com/bft-labs/diodeship/pkg/frame"
)

// DefaultMaxPayload bounds the encoded payload a receiver will allocate.
const DefaultMaxPayload = 512 << 20

// ReceiverConfig holds the settings that stay fixed for a Receiver.
type ReceiverConfig struct {
	// ReadTimeout bounds each read on the transport.
	ReadTimeout time.Duration
	// MaxPayload rejects frames announcing a larger encoded payload.
	// Zero means DefaultMaxPayload.
	MaxPayload uint32
}

// Receiver performs single receive attempts.
type Receiver struct {
	opener ports.TransportOpener
	store  ports.ArtifactStore
	logger ports.Logger
	cfg    ReceiverConfig
	now    func() time.Time
}

// NewReceiver creates a Receiver.
func NewReceiver(opener ports.TransportOpener, store ports.ArtifactStore, logger ports.Logger, cfg ReceiverConfig) *Receiver {
	if cfg.MaxPayload == 0 {
		cfg.MaxPayload = DefaultMaxPayload
	}
	return &Receiver{
		opener: opener,
		store:  store,
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}
}

// ReceiveFrame opens a fresh transport on port, reads one frame, corrects
// it and writes the artifact under outputDir.
//
// domain.ErrTimeout means no frame started before the read timeout and is
// the normal idle outcome. A frame that stops after its first byte is
// domain.ErrTransportRead.
func (r *Receiver) ReceiveFrame(ctx context.Context, port domain.Port, ecc int, outputDir string) (domain.Receipt, error) {
	if err := checkECC(ecc); err != nil {
		return domain.Receipt{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Receipt{}, err
	}

	t, err := r.opener.Open(port, r.cfg.ReadTimeout)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("%w: %w", domain.ErrTransportOpen, err)
	}
	defer t.Close()

	f, err := frame.Read(t, r.cfg.MaxPayload)
	if err != nil {
		if errors.Is(err, frame.ErrTimeout) || errors.Is(err, frame.ErrPayloadTooLarge) {
			return domain.Receipt{}, mapFrameError(err)
		}
		return domain.Receipt{}, fmt.Errorf("%w: %w", domain.ErrTransportRead, err)
	}
	r.logger.Debug("frame read",
		ports.String("file", f.Filename),
		ports.Int("encoded_bytes", len(f.Payload)),
	)

	data, stats, err := fec.DecodeWithStats(f.Payload, ecc)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("%w: %s: %w", domain.ErrFECDecode, f.Filename, err)
	}

	path, err := r.store.Save(outputDir, f.Filename, r.now(), data)
	if err != nil {
		if !errors.Is(err, domain.ErrFilesystem) {
			err = fmt.Errorf("%w: %w", domain.ErrFilesystem, err)
		}
		return domain.Receipt{}, err
	}

	receipt := domain.Receipt{
		Path:         path,
		Filename:     f.Filename,
		PayloadBytes: len(data),
		EncodedBytes: len(f.Payload),
		Corrected:    stats.Corrected,
		Fingerprint:  Fingerprint(data),
	}
	r.logger.Info("file received",
		ports.String("file", receipt.Filename),
		ports.String("path", receipt.Path),
		ports.Int("bytes", receipt.PayloadBytes),
		ports.Int("corrected", receipt.Corrected),
		ports.Hex16("crc16", receipt.Fingerprint),
	)
	return receipt, nil
}
