package shamir

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareLayout(t *testing.T) {
	s, err := NewShare(7, []byte{0xde, 0xad})
	require.NoError(t, err)

	assert.Equal(t, []byte{7, 0xde, 0xad}, s.Bytes())
	assert.Equal(t, "B96t", s.Encode())

	parsed, err := ParseShare([]byte{7, 0xde, 0xad})
	require.NoError(t, err)
	assert.Equal(t, s, parsed)
}

func TestNewShareCopiesInput(t *testing.T) {
	y := []byte{1, 2, 3}
	s, err := NewShare(1, y)
	require.NoError(t, err)

	y[0] = 0xff
	assert.Equal(t, uint8(1), s.Y[0])
}

func TestTokenRoundTrip(t *testing.T) {
	shares, err := SplitSecure([]byte("hello world"), 5, 3)
	require.NoError(t, err)

	for _, s := range shares {
		token := s.Encode()
		decoded, err := DecodeShare(token)
		require.NoError(t, err)
		assert.Equal(t, token, decoded.Encode())
		assert.Equal(t, s.Bytes(), decoded.Bytes())
	}
}

func TestDecodeShareTrimsWhitespace(t *testing.T) {
	s, err := DecodeShare("  B96t\r\n")
	require.NoError(t, err)
	assert.Equal(t, uint8(7), s.X)
}

func TestDecodeShareRejectsMalformed(t *testing.T) {
	for _, token := range []string{
		"",
		"not-valid-base64!!",
		"B96",  // missing padding
		"AA==", // single byte
		"AN6t", // x = 0
		"B9 6t",
		"AQF=", // non-canonical padding bits
	} {
		_, err := DecodeShare(token)
		assert.ErrorIs(t, err, ErrMalformedShare, "token %q", token)
	}
}

func TestParseShareRejectsShortInput(t *testing.T) {
	_, err := ParseShare(nil)
	assert.ErrorIs(t, err, ErrMalformedShare)

	_, err = ParseShare([]byte{1})
	assert.ErrorIs(t, err, ErrMalformedShare)
}

func TestBinaryMarshaling(t *testing.T) {
	s := &Share{X: 3, Y: []byte("abc")}
	b, err := s.MarshalBinary()
	require.NoError(t, err)

	var out Share
	require.NoError(t, out.UnmarshalBinary(b))
	assert.Equal(t, *s, out)

	assert.ErrorIs(t, out.UnmarshalBinary([]byte{0, 1}), ErrMalformedShare)

	_, err = (&Share{X: 0, Y: []byte{1}}).MarshalBinary()
	assert.ErrorIs(t, err, ErrMalformedShare)
}

func TestJSONEmbedsTokens(t *testing.T) {
	type bundle struct {
		Shares []*Share `json:"shares"`
	}

	in := bundle{Shares: []*Share{{X: 1, Y: []byte{1}}, {X: 2, Y: []byte{2}}}}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"shares":["AQE=","AgI="]}`, string(data))

	var out bundle
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)

	err = json.Unmarshal([]byte(`{"shares":["!!"]}`), &out)
	assert.ErrorIs(t, err, ErrMalformedShare)
}

func TestStringHidesData(t *testing.T) {
	s := &Share{X: 4, Y: []byte("topsecret")}
	assert.Equal(t, "Share{X: 4, Len: 9}", s.String())
	assert.False(t, strings.Contains(s.String(), "topsecret"))
}
