// Package diodeship moves files across a one-way serial link.
//
// The functions here are one-shot conveniences over pkg/diode: each call
// builds a client, performs a single attempt and releases the port.
// Long-running receivers should use diode.Client.Listen instead.
//
// Example usage:
//
//	if err := diodeship.SendFile(ctx, "/dev/ttyUSB0", 921600, 10, "report.pdf"); err != nil {
//	    log.Fatal(err)
//	}
//
//	for {
//	    path, err := diodeship.ReceiveFrame(ctx, "/dev/ttyUSB1", 921600, 10, "received_files")
//	    if errors.Is(err, diode.ErrTimeout) {
//	        continue
//	    }
//	    ...
//	}
package diodeship

import (
	"context"

	"github.com/bft-labs/diodeship/pkg/diode"
)

// Config holds the settings of a diode client.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = diode.Config

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return diode.DefaultConfig()
}

// FindPort returns the name of the first USB serial port with the given
// vendor and product ids. It never opens a port.
func FindPort(vid, pid uint16, opts ...diode.Option) (string, bool) {
	cfg := diode.DefaultConfig()
	cfg.VendorID = vid
	cfg.ProductID = pid
	c, err := diode.New(cfg, opts...)
	if err != nil {
		return "", false
	}
	return c.FindPort()
}

// SendFile writes the file at path to port as one frame protected by ecc
// parity symbols per block. An empty port is resolved from the default
// adapter ids, then the platform default.
func SendFile(ctx context.Context, port string, baud, ecc int, path string, opts ...diode.Option) error {
	c, err := diode.New(linkConfig(port, baud, ecc), opts...)
	if err != nil {
		return err
	}
	return c.Send(ctx, path)
}

// ReceiveFrame waits for one frame on port and stores the decoded file in
// outputDir, returning its path. diode.ErrTimeout means nothing arrived;
// callers usually invoke it again.
func ReceiveFrame(ctx context.Context, port string, baud, ecc int, outputDir string, opts ...diode.Option) (string, error) {
	cfg := linkConfig(port, baud, ecc)
	cfg.OutputDir = outputDir
	c, err := diode.New(cfg, opts...)
	if err != nil {
		return "", err
	}
	r, err := c.ReceiveOnce(ctx)
	if err != nil {
		return "", err
	}
	return r.Path, nil
}

func linkConfig(port string, baud, ecc int) Config {
	cfg := diode.DefaultConfig()
	cfg.Port = port
	cfg.BaudRate = baud
	cfg.ECC = ecc
	return cfg
}
