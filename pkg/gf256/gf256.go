// Package gf256 implements arithmetic in GF(2^8), the field of bytes
// under polynomial arithmetic modulo x^8 + x^4 + x^3 + x + 1 (0x11b).
//
// Multiplication and division go through log/exp tables built once at
// init with generator 3. The tables are never written after init, so
// every function here is safe for concurrent use.
package gf256

import "crypto/subtle"

const (
	// Polynomial is the reducing polynomial of the field.
	Polynomial = 0x11b

	// Generator is the primitive element the tables are built from.
	Generator = 3

	// order of the multiplicative group
	order = 255
)

var (
	expTable [order]uint8
	logTable [256]uint8
)

func init() {
	var x uint16 = 1
	for i := 0; i < order; i++ {
		expTable[i] = uint8(x)
		logTable[x] = uint8(i)

		// x * 3 = (x << 1) ^ x, reduced when it leaves 8 bits
		x = (x << 1) ^ x
		if x > 0xff {
			x ^= Polynomial
		}
	}
}

// Add combines two elements. Symmetric with subtraction.
func Add(a, b uint8) uint8 {
	return a ^ b
}

// Sub is identical to Add in characteristic 2.
func Sub(a, b uint8) uint8 {
	return a ^ b
}

// Mul multiplies two elements.
func Mul(a, b uint8) uint8 {
	logA := logTable[a]
	logB := logTable[b]
	sum := (int(logA) + int(logB)) % order

	ret := expTable[sum]

	// log(0) is undefined; mask the result instead of branching on secret data
	if subtle.ConstantTimeByteEq(a, 0) == 1 {
		ret = 0
	}
	if subtle.ConstantTimeByteEq(b, 0) == 1 {
		ret = 0
	}

	return ret
}

// Div divides a by b. b must be nonzero.
func Div(a, b uint8) uint8 {
	if b == 0 {
		panic("gf256: divide by zero")
	}

	logA := logTable[a]
	logB := logTable[b]
	diff := (int(logA) - int(logB)) % order
	if diff < 0 {
		diff += order
	}

	ret := expTable[diff]

	if subtle.ConstantTimeByteEq(a, 0) == 1 {
		ret = 0
	}

	return ret
}

// Inv returns the multiplicative inverse of a. a must be nonzero.
func Inv(a uint8) uint8 {
	if a == 0 {
		panic("gf256: zero has no inverse")
	}
	return expTable[(order-int(logTable[a]))%order]
}

// exp returns Generator raised to the power i. i may be any integer.
func exp(i int) uint8 {
	i %= order
	if i < 0 {
		i += order
	}
	return expTable[i]
}

// log returns the discrete logarithm of a to base Generator.
// log(0) is undefined and returns 0.
func log(a uint8) uint8 {
	return logTable[a]
}
