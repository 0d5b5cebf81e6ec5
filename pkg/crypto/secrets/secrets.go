package secrets

import "log/slog"

const redacted = "[REDACTED]"

// Secret wraps sensitive bytes (the plaintext being split, or the one
// just recovered). It never prints its contents through fmt or slog and
// can be zeroed once the caller is done with it.
type Secret struct {
	data []byte
}

// FromString copies text into a new Secret.
func FromString(text string) *Secret {
	return &Secret{data: []byte(text)}
}

// Wrap takes ownership of data; Destroy will zero the caller's slice.
func Wrap(data []byte) *Secret {
	return &Secret{data: data}
}

// Bytes returns the raw bytes of the secret.
// The slice is shared with the Secret and is zeroed by Destroy.
func (s *Secret) Bytes() []byte {
	return s.data
}

// Len returns the number of bytes held.
func (s *Secret) Len() int {
	return len(s.data)
}

// Destroy overwrites the secret data with zeros. It is idempotent.
func (s *Secret) Destroy() {
	if s.data != nil {
		clear(s.data)
		s.data = nil
	}
}

// String implements fmt.Stringer.
func (s *Secret) String() string {
	return redacted
}

// GoString implements fmt.GoStringer so %#v is redacted too.
func (s *Secret) GoString() string {
	return redacted
}

// LogValue implements slog.LogValuer.
func (s *Secret) LogValue() slog.Value {
	return slog.StringValue(redacted)
}
