package shamir

import "errors"

var (
	// ErrInvalidParameters indicates a bad (parts, threshold) pair or secret.
	ErrInvalidParameters = errors.New("invalid parameters")

	// ErrInsufficientShares indicates fewer than MinThreshold shares were supplied.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrMalformedShare indicates a share that could not be decoded or parsed.
	ErrMalformedShare = errors.New("malformed share")

	// ErrInconsistentShares indicates shares that cannot belong to one split:
	// differing lengths or a repeated x-coordinate.
	ErrInconsistentShares = errors.New("inconsistent shares")

	// ErrRandomness indicates the random source failed to supply coefficients.
	ErrRandomness = errors.New("random source failure")
)
