package shamir

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// tokenEncoding rejects non-canonical padding bits so that a decoded token
// always re-encodes to the same text.
var tokenEncoding = base64.StdEncoding.Strict()

// Share is one point set of a split secret: the x-coordinate it was
// evaluated at and one y value per secret byte.
//
// Binary layout: [X][Y0 Y1 ... Yn-1]
type Share struct {
	X uint8
	Y []byte
}

// NewShare builds a share from its coordinates. The y values are copied.
func NewShare(x uint8, y []byte) (*Share, error) {
	s := &Share{X: x, Y: append([]byte(nil), y...)}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ParseShare is the validating constructor for the binary layout.
func ParseShare(b []byte) (*Share, error) {
	if len(b) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 bytes, got %d", ErrMalformedShare, len(b))
	}
	return NewShare(b[0], b[1:])
}

// DecodeShare parses a text token produced by Encode. Surrounding
// whitespace is ignored.
func DecodeShare(token string) (*Share, error) {
	raw, err := tokenEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %v", ErrMalformedShare, err)
	}
	return ParseShare(raw)
}

// Validate checks the share in isolation.
func (s *Share) Validate() error {
	if s.X == 0 {
		return fmt.Errorf("%w: x-coordinate must be nonzero", ErrMalformedShare)
	}
	if len(s.Y) == 0 {
		return fmt.Errorf("%w: share carries no data", ErrMalformedShare)
	}
	return nil
}

// Bytes returns the binary layout of the share.
func (s *Share) Bytes() []byte {
	out := make([]byte, 0, len(s.Y)+1)
	out = append(out, s.X)
	return append(out, s.Y...)
}

// Encode returns the share as a standard base64 token.
func (s *Share) Encode() string {
	return tokenEncoding.EncodeToString(s.Bytes())
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s *Share) MarshalBinary() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *Share) UnmarshalBinary(b []byte) error {
	parsed, err := ParseShare(b)
	if err != nil {
		return err
	}
	*s = *parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler, so shares embed in JSON
// as their tokens.
func (s *Share) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.Encode()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Share) UnmarshalText(text []byte) error {
	parsed, err := DecodeShare(string(text))
	if err != nil {
		return err
	}
	*s = *parsed
	return nil
}

// String never prints the y values.
func (s *Share) String() string {
	return fmt.Sprintf("Share{X: %d, Len: %d}", s.X, len(s.Y))
}
