package fec

// Arithmetic over GF(2^8) with primitive polynomial x^8+x^4+x^3+x^2+1 (0x11d)
// and generator 2.

const primitive = 0x11d

var (
	gfExp [512]byte
	gfLog [256]int
)

func init() {
	x := 1
	for i := 0; i < 255; i++ {
		gfExp[i] = byte(x)
		gfLog[x] = i
		x <<= 1
		if x&0x100 != 0 {
			x ^= primitive
		}
	}
	for i := 255; i < len(gfExp); i++ {
		gfExp[i] = gfExp[i-255]
	}
}

func gfMul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return gfExp[gfLog[a]+gfLog[b]]
}

// gfDiv panics on division by zero; callers check the divisor.
func gfDiv(a, b byte) byte {
	if b == 0 {
		panic("fec: division by zero")
	}
	if a == 0 {
		return 0
	}
	return gfExp[(gfLog[a]+255-gfLog[b])%255]
}

// gfPow2 returns α^n for any integer n.
func gfPow2(n int) byte {
	n %= 255
	if n < 0 {
		n += 255
	}
	return gfExp[n]
}

// evalDesc evaluates a polynomial whose first coefficient is the highest power.
func evalDesc(p []byte, x byte) byte {
	var y byte
	for _, c := range p {
		y = gfMul(y, x) ^ c
	}
	return y
}

// evalAsc evaluates a polynomial whose first coefficient is the constant term.
func evalAsc(p []byte, x byte) byte {
	var y byte
	for i := len(p) - 1; i >= 0; i-- {
		y = gfMul(y, x) ^ p[i]
	}
	return y
}

// mulPoly multiplies two polynomials in the same coefficient order.
func mulPoly(p, q []byte) []byte {
	r := make([]byte, len(p)+len(q)-1)
	for i, a := range p {
		if a == 0 {
			continue
		}
		for j, b := range q {
			r[i+j] ^= gfMul(a, b)
		}
	}
	return r
}
