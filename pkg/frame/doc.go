// Package frame reads and writes the self-delimited frame carrying one file
// across the one-way link.
//
// The layout has no negotiation, so both ends must agree on it out of band:
//
//	u16 BE filename length | filename | u32 BE payload length | payload
//
// Write and Read work on any io.Writer / io.Reader. Read understands
// timeout-bounded transports: zero bytes before the first timeout is
// [ErrTimeout], a stall after that is [ErrShortRead].
package frame
