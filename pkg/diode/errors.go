package diode

import "github.com/bft-labs/diodeship/internal/domain"

// Errors returned by Client operations. Check them with errors.Is.
var (
	ErrTransportOpen   = domain.ErrTransportOpen
	ErrTransportRead   = domain.ErrTransportRead
	ErrTransportWrite  = domain.ErrTransportWrite
	ErrTimeout         = domain.ErrTimeout
	ErrFileRead        = domain.ErrFileRead
	ErrFilesystem      = domain.ErrFilesystem
	ErrInvalidFilename = domain.ErrInvalidFilename
	ErrFECDecode       = domain.ErrFECDecode
	ErrPayloadTooLarge = domain.ErrPayloadTooLarge
	ErrInvalidECC      = domain.ErrInvalidECC
	ErrBusy            = domain.ErrBusy
	ErrAlreadyRunning  = domain.ErrAlreadyRunning
	ErrNotRunning      = domain.ErrNotRunning
	ErrInvalidConfig   = domain.ErrInvalidConfig
)
