// Package fec implements the block Reed-Solomon code protecting payloads on
// the one-way link.
//
// Payloads are cut into blocks of 255-ecc bytes. Each block is followed by
// ecc parity bytes, so a block tolerates up to ecc/2 corrupted bytes at
// unknown positions. The final block is shortened rather than padded.
//
//	encoded, err := fec.Encode(payload, 10)
//	...
//	payload, err := fec.Decode(encoded, 10)
//	if errors.Is(err, fec.ErrUncorrectable) { ... }
//
// ecc == 0 disables the code: Encode and Decode copy their input.
//
// Code parameters: GF(2^8) with primitive polynomial 0x11d, generator 2,
// first consecutive root α^0.
package fec
