package domain

import "errors"

// Domain errors represent the failure categories of a single transfer attempt.
// They are wrapped with context by the layers that detect them and can be
// checked with errors.Is.
var (
	// ErrTransportOpen is returned when the serial port cannot be opened.
	ErrTransportOpen = errors.New("diodeship: transport open failed")

	// ErrTransportRead is returned when a frame read fails or stops short
	// after the first byte has arrived.
	ErrTransportRead = errors.New("diodeship: transport read failed")

	// ErrTransportWrite is returned when any part of a frame cannot be written.
	ErrTransportWrite = errors.New("diodeship: transport write failed")

	// ErrTimeout is returned when no byte of a frame arrived within the read
	// timeout. The receive loop treats it as the idle state, not a failure.
	ErrTimeout = errors.New("diodeship: timeout waiting for frame")

	// ErrFileRead is returned when the source file cannot be opened or read.
	ErrFileRead = errors.New("diodeship: file read failed")

	// ErrFilesystem is returned when the output directory or artifact cannot
	// be created or written.
	ErrFilesystem = errors.New("diodeship: filesystem error")

	// ErrInvalidFilename is returned when a path has no usable file name.
	ErrInvalidFilename = errors.New("diodeship: invalid filename")

	// ErrFECDecode is returned when a payload block has more symbol errors
	// than the parity can correct.
	ErrFECDecode = errors.New("diodeship: uncorrectable payload")

	// ErrPayloadTooLarge is returned when a payload does not fit the 32-bit
	// length field or exceeds the receiver's configured limit.
	ErrPayloadTooLarge = errors.New("diodeship: payload too large")

	// ErrInvalidECC is returned for an ecc symbol count above MaxECCSymbols.
	ErrInvalidECC = errors.New("diodeship: invalid ecc symbol count")

	// ErrBusy is returned when another send or listen attempt is in flight.
	ErrBusy = errors.New("diodeship: another transfer is in flight")

	// ErrAlreadyRunning is returned when Run() is called on a listening loop.
	ErrAlreadyRunning = errors.New("diodeship: already running")

	// ErrNotRunning is returned when Stop() is called on an idle loop.
	ErrNotRunning = errors.New("diodeship: not running")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("diodeship: invalid configuration")
)
