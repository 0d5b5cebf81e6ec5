// Package shamir implements Shamir's Secret Sharing over GF(2^8).
//
// Every byte of the secret becomes the constant term of its own random
// polynomial of degree threshold-1. Shares are that family of polynomials
// evaluated at distinct nonzero x-coordinates; any threshold of them
// recover each constant term by Lagrange interpolation at x = 0.
package shamir

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/Beastly713/sharesplit/pkg/gf256"
)

const (
	// MinThreshold is the smallest threshold Split accepts and the
	// smallest number of shares Combine accepts.
	MinThreshold = 3

	// MaxShares is bounded by the number of nonzero x-coordinates.
	MaxShares = 255
)

// polynomial represents a polynomial of arbitrary degree
type polynomial struct {
	coefficients []uint8
}

// makePolynomial constructs a random polynomial of the given
// degree but with the provided intercept value.
func makePolynomial(random io.Reader, intercept, degree uint8) (polynomial, error) {
	p := polynomial{
		coefficients: make([]byte, int(degree)+1),
	}

	p.coefficients[0] = intercept

	if _, err := io.ReadFull(random, p.coefficients[1:]); err != nil {
		p.wipe()
		return p, fmt.Errorf("%w: %v", ErrRandomness, err)
	}

	return p, nil
}

// evaluate returns the value of the polynomial for the given x
func (p *polynomial) evaluate(x uint8) uint8 {
	if x == 0 {
		return p.coefficients[0]
	}

	degree := len(p.coefficients) - 1
	out := p.coefficients[degree]
	for i := degree - 1; i >= 0; i-- {
		out = gf256.Add(gf256.Mul(out, x), p.coefficients[i])
	}
	return out
}

func (p *polynomial) wipe() {
	for i := range p.coefficients {
		p.coefficients[i] = 0
	}
}

// interpolatePolynomial takes N sample points and returns
// the value at a given x using a lagrange interpolation.
// xSamples must be pairwise distinct.
func interpolatePolynomial(xSamples, ySamples []uint8, x uint8) uint8 {
	limit := len(xSamples)
	var result, basis uint8
	for i := 0; i < limit; i++ {
		basis = 1
		for j := 0; j < limit; j++ {
			if i == j {
				continue
			}
			num := gf256.Add(x, xSamples[j])
			denom := gf256.Add(xSamples[i], xSamples[j])
			basis = gf256.Mul(basis, gf256.Div(num, denom))
		}
		result = gf256.Add(result, gf256.Mul(ySamples[i], basis))
	}
	return result
}

// checkParameters validates a split request before any randomness is read.
func checkParameters(secretLen, parts, threshold int) error {
	if threshold > parts {
		return fmt.Errorf("%w: threshold cannot be greater than number of shares", ErrInvalidParameters)
	}
	if threshold < MinThreshold {
		return fmt.Errorf("%w: threshold must be at least %d", ErrInvalidParameters, MinThreshold)
	}
	if parts > MaxShares {
		return fmt.Errorf("%w: number of shares cannot exceed %d", ErrInvalidParameters, MaxShares)
	}
	if secretLen == 0 {
		return fmt.Errorf("%w: cannot split empty secret", ErrInvalidParameters)
	}
	return nil
}

// SplitSecure is Split with crypto/rand as the coefficient source.
func SplitSecure(secret []byte, parts, threshold int) ([]*Share, error) {
	return Split(rand.Reader, secret, parts, threshold)
}

// Split divides secret into parts shares, any threshold of which recover it.
//
// Coefficients are read from random, which must be a cryptographically
// secure source in production; tests may pass a deterministic reader. A
// read failure aborts the whole call with ErrRandomness. Shares are
// returned with x-coordinates 1..parts in order.
func Split(random io.Reader, secret []byte, parts, threshold int) ([]*Share, error) {
	if err := checkParameters(len(secret), parts, threshold); err != nil {
		return nil, err
	}
	if random == nil {
		return nil, fmt.Errorf("%w: no random source", ErrInvalidParameters)
	}

	out := make([]*Share, parts)
	for idx := range out {
		out[idx] = &Share{
			X: uint8(idx) + 1,
			Y: make([]byte, len(secret)),
		}
	}

	for idx, val := range secret {
		p, err := makePolynomial(random, val, uint8(threshold-1))
		if err != nil {
			return nil, err
		}

		for _, share := range out {
			share.Y[idx] = p.evaluate(share.X)
		}
		p.wipe()
	}

	return out, nil
}

// Combine reconstructs a secret from shares of a single split.
//
// There is no threshold parameter: every supplied share is used and the
// interpolated polynomial has degree len(shares)-1. Passing fewer shares
// than the threshold the secret was split with does NOT fail; it returns
// bytes that look as random as any other value. Passing more than the
// threshold is fine. Shares are not authenticated, so forged or mixed
// shares also produce garbage rather than an error.
func Combine(shares []*Share) ([]byte, error) {
	if len(shares) < MinThreshold {
		return nil, fmt.Errorf("%w: at least %d shares are required, got %d", ErrInsufficientShares, MinThreshold, len(shares))
	}

	for i, s := range shares {
		if s == nil {
			return nil, fmt.Errorf("%w: share %d is nil", ErrMalformedShare, i+1)
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("share %d: %w", i+1, err)
		}
	}

	secretLen := len(shares[0].Y)
	xSamples := make([]uint8, len(shares))
	ySamples := make([]uint8, len(shares))

	var seen [256]bool
	for i, s := range shares {
		if len(s.Y) != secretLen {
			return nil, fmt.Errorf("%w: share %d has length %d, expected %d", ErrInconsistentShares, i+1, len(s.Y), secretLen)
		}
		if seen[s.X] {
			return nil, fmt.Errorf("%w: duplicate x-coordinate %d", ErrInconsistentShares, s.X)
		}
		seen[s.X] = true
		xSamples[i] = s.X
	}

	secret := make([]byte, secretLen)
	for idx := range secret {
		for i, s := range shares {
			ySamples[i] = s.Y[idx]
		}
		secret[idx] = interpolatePolynomial(xSamples, ySamples, 0)
	}

	return secret, nil
}
