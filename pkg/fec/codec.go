package fec

import (
	"errors"
	"fmt"
	"sync"
)

const (
	// BlockSize is the full Reed-Solomon codeword length in bytes.
	BlockSize = 255

	// MaxECCSymbols is the largest parity count that still leaves one data
	// byte per block.
	MaxECCSymbols = BlockSize - 1
)

var (
	// ErrInvalidECC is returned for an ecc symbol count above MaxECCSymbols.
	ErrInvalidECC = errors.New("fec: ecc symbols out of range")

	// ErrUncorrectable is returned when a block carries more symbol errors
	// than its parity can correct.
	ErrUncorrectable = errors.New("fec: uncorrectable block")

	// ErrTruncated is returned when the final block is too short to hold
	// any data after its parity.
	ErrTruncated = errors.New("fec: truncated block")
)

// DecodeStats reports what Decode had to repair.
type DecodeStats struct {
	Blocks    int
	Corrected int
}

// DataPerBlock returns how many payload bytes each block carries.
func DataPerBlock(ecc int) int {
	return BlockSize - ecc
}

// EncodedLen returns the encoded size of n payload bytes.
func EncodedLen(n, ecc int) int {
	if ecc == 0 || n == 0 {
		return n
	}
	k := DataPerBlock(ecc)
	blocks := (n + k - 1) / k
	return n + blocks*ecc
}

// Encode splits data into blocks of 255-ecc bytes and appends ecc parity
// bytes to each. ecc == 0 returns a copy of data.
func Encode(data []byte, ecc int) ([]byte, error) {
	if err := checkECC(ecc); err != nil {
		return nil, err
	}
	if ecc == 0 {
		return append([]byte(nil), data...), nil
	}
	gen := generator(ecc)
	k := DataPerBlock(ecc)
	out := make([]byte, 0, EncodedLen(len(data), ecc))
	for off := 0; off < len(data); off += k {
		end := off + k
		if end > len(data) {
			end = len(data)
		}
		out = append(out, encodeBlock(data[off:end], gen)...)
	}
	return out, nil
}

// Decode reverses Encode, correcting up to ecc/2 symbol errors per block.
func Decode(data []byte, ecc int) ([]byte, error) {
	out, _, err := DecodeWithStats(data, ecc)
	return out, err
}

// DecodeWithStats is Decode that also reports the number of corrected symbols.
func DecodeWithStats(data []byte, ecc int) ([]byte, DecodeStats, error) {
	var st DecodeStats
	if err := checkECC(ecc); err != nil {
		return nil, st, err
	}
	if ecc == 0 {
		return append([]byte(nil), data...), st, nil
	}
	out := make([]byte, 0, len(data))
	for off := 0; off < len(data); off += BlockSize {
		end := off + BlockSize
		if end > len(data) {
			end = len(data)
		}
		if end-off <= ecc {
			return nil, st, fmt.Errorf("block %d: %d bytes for %d parity: %w", st.Blocks, end-off, ecc, ErrTruncated)
		}
		block := append([]byte(nil), data[off:end]...)
		n, err := correctBlock(block, ecc)
		if err != nil {
			return nil, st, fmt.Errorf("block %d: %w", st.Blocks, err)
		}
		st.Blocks++
		st.Corrected += n
		out = append(out, block[:len(block)-ecc]...)
	}
	return out, st, nil
}

func checkECC(ecc int) error {
	if ecc < 0 || ecc > MaxECCSymbols {
		return fmt.Errorf("%d: %w", ecc, ErrInvalidECC)
	}
	return nil
}

var generators sync.Map // int -> []byte

// generator returns prod_{i<ecc} (x - α^i), highest power first.
func generator(ecc int) []byte {
	if g, ok := generators.Load(ecc); ok {
		return g.([]byte)
	}
	g := []byte{1}
	for i := 0; i < ecc; i++ {
		g = mulPoly(g, []byte{1, gfPow2(i)})
	}
	generators.Store(ecc, g)
	return g
}

// encodeBlock returns msg followed by the remainder of msg*x^ecc divided by gen.
func encodeBlock(msg, gen []byte) []byte {
	ecc := len(gen) - 1
	out := make([]byte, len(msg)+ecc)
	copy(out, msg)
	for i := range msg {
		coef := out[i]
		if coef == 0 {
			continue
		}
		for j := 1; j < len(gen); j++ {
			out[i+j] ^= gfMul(gen[j], coef)
		}
	}
	copy(out, msg)
	return out
}

// syndromes evaluates the codeword at α^0..α^(ecc-1).
func syndromes(block []byte, ecc int) ([]byte, bool) {
	s := make([]byte, ecc)
	clean := true
	for i := range s {
		s[i] = evalDesc(block, gfPow2(i))
		if s[i] != 0 {
			clean = false
		}
	}
	return s, clean
}

// correctBlock fixes block in place and returns the number of corrected symbols.
// Byte j of the block is the coefficient of x^(n-1-j).
func correctBlock(block []byte, ecc int) (int, error) {
	synd, clean := syndromes(block, ecc)
	if clean {
		return 0, nil
	}

	locator, err := berlekampMassey(synd)
	if err != nil {
		return 0, err
	}
	nerr := len(locator) - 1

	n := len(block)
	var positions []int
	for j := 0; j < n; j++ {
		if evalAsc(locator, gfPow2(-(n-1-j))) == 0 {
			positions = append(positions, j)
		}
	}
	if len(positions) != nerr {
		return 0, ErrUncorrectable
	}

	// Ω(x) = S(x)Λ(x) mod x^ecc, constant term first.
	omega := mulPoly(synd, locator)
	if len(omega) > ecc {
		omega = omega[:ecc]
	}
	// Formal derivative of Λ: only odd powers survive in characteristic 2.
	deriv := make([]byte, len(locator)-1)
	for i := 1; i < len(locator); i += 2 {
		deriv[i-1] = locator[i]
	}

	for _, j := range positions {
		p := n - 1 - j
		xInv := gfPow2(-p)
		den := evalAsc(deriv, xInv)
		if den == 0 {
			return 0, ErrUncorrectable
		}
		mag := gfMul(gfPow2(p), gfDiv(evalAsc(omega, xInv), den))
		block[j] ^= mag
	}

	if _, clean := syndromes(block, ecc); !clean {
		return 0, ErrUncorrectable
	}
	return nerr, nil
}

// berlekampMassey returns the error locator Λ(x), constant term first.
func berlekampMassey(synd []byte) ([]byte, error) {
	c := []byte{1}
	b := []byte{1}
	l, m := 0, 1
	var last byte = 1

	for n := range synd {
		d := synd[n]
		for i := 1; i <= l && i < len(c); i++ {
			d ^= gfMul(c[i], synd[n-i])
		}
		if d == 0 {
			m++
			continue
		}
		coef := gfDiv(d, last)
		prev := append([]byte(nil), c...)
		if need := len(b) + m; len(c) < need {
			c = append(c, make([]byte, need-len(c))...)
		}
		for i, v := range b {
			c[i+m] ^= gfMul(coef, v)
		}
		if 2*l <= n {
			l = n + 1 - l
			b = prev
			last = d
			m = 1
		} else {
			m++
		}
	}

	for len(c) > 1 && c[len(c)-1] == 0 {
		c = c[:len(c)-1]
	}
	if len(c)-1 != l || 2*l > len(synd) {
		return nil, ErrUncorrectable
	}
	return c, nil
}
