// Package dealer is the text boundary around the Shamir core: it takes a
// UTF-8 secret and returns base64 share tokens, and turns tokens back into
// the secret. Every call either succeeds completely or returns one error.
package dealer

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/Beastly713/sharesplit/pkg/crypto/secrets"
	"github.com/Beastly713/sharesplit/pkg/logging"
	"github.com/Beastly713/sharesplit/pkg/shamir"
)

// ErrNonUTF8Secret is returned when a secret entering or leaving the
// boundary is not valid UTF-8 text.
var ErrNonUTF8Secret = errors.New("secret is not valid UTF-8")

// SplitRequest is the split-request payload.
type SplitRequest struct {
	Secret    string `json:"secret"`
	Shares    int    `json:"shares"`
	Threshold int    `json:"threshold"`
}

// SplitResponse carries one token per share, in x-coordinate order.
type SplitResponse struct {
	Shares    []string `json:"shares"`
	Threshold int      `json:"threshold"`
}

// CombineRequest is the combine-request payload.
type CombineRequest struct {
	Shares []string `json:"shares"`
}

// CombineResponse carries the recovered secret.
type CombineResponse struct {
	Secret string `json:"secret"`
}

// Dealer holds the collaborators of the boundary operations. It keeps no
// per-call state and is safe for concurrent use as long as its random
// source is.
type Dealer struct {
	random io.Reader
	logger *logging.Logger
}

// Option configures a Dealer.
type Option func(*Dealer)

// WithRandom replaces crypto/rand as the coefficient source. Intended for
// tests that need reproducible shares.
func WithRandom(r io.Reader) Option {
	return func(d *Dealer) {
		d.random = r
	}
}

// WithLogger sets the logger used for diagnostic records.
func WithLogger(l *logging.Logger) Option {
	return func(d *Dealer) {
		d.logger = l
	}
}

// New returns a Dealer using crypto/rand and a discarding logger unless
// overridden.
func New(opts ...Option) *Dealer {
	d := &Dealer{
		random: rand.Reader,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Split divides req.Secret into req.Shares tokens, any req.Threshold of
// which recover it.
func (d *Dealer) Split(req *SplitRequest) (*SplitResponse, error) {
	if !utf8.ValidString(req.Secret) {
		return nil, ErrNonUTF8Secret
	}

	secret := secrets.FromString(req.Secret)
	defer secret.Destroy()

	d.logger.Debug("splitting secret",
		"bytes", secret.Len(),
		"shares", req.Shares,
		"threshold", req.Threshold)

	shares, err := shamir.Split(d.random, secret.Bytes(), req.Shares, req.Threshold)
	if err != nil {
		return nil, err
	}

	tokens := make([]string, len(shares))
	for i, s := range shares {
		tokens[i] = s.Encode()
	}

	d.logger.Debug("secret split", "shares", len(tokens))
	return &SplitResponse{Shares: tokens, Threshold: req.Threshold}, nil
}

// Combine recovers the secret from req.Shares.
//
// The threshold is implied by the number of tokens given. Supplying fewer
// tokens than the secret was split for returns ErrNonUTF8Secret at best
// and a wrong but printable string at worst; it is never detected as an
// error of its own.
func (d *Dealer) Combine(req *CombineRequest) (*CombineResponse, error) {
	if len(req.Shares) < shamir.MinThreshold {
		return nil, fmt.Errorf("%w: at least %d shares are required", shamir.ErrInsufficientShares, shamir.MinThreshold)
	}

	shares := make([]*shamir.Share, len(req.Shares))
	for i, token := range req.Shares {
		s, err := shamir.DecodeShare(token)
		if err != nil {
			return nil, fmt.Errorf("share %d: %w", i+1, err)
		}
		shares[i] = s
	}

	d.logger.Debug("combining shares", "shares", len(shares))

	raw, err := shamir.Combine(shares)
	if err != nil {
		return nil, err
	}

	secret := secrets.Wrap(raw)
	defer secret.Destroy()

	if !utf8.Valid(secret.Bytes()) {
		return nil, fmt.Errorf("%w: recovered %d bytes (too few shares, or shares from different splits?)", ErrNonUTF8Secret, secret.Len())
	}

	return &CombineResponse{Secret: string(secret.Bytes())}, nil
}
