package format

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Writer handles the writing of a single share sheet.
type Writer struct {
	w io.Writer
}

// NewWriter creates a new Writer around an io.Writer (a file or stdout).
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write serializes the header and tokens, one token per line.
// If headerless is true, only the tokens are written.
func (sw *Writer) Write(header *Header, tokens []string, headerless bool) error {
	for i, token := range tokens {
		if token == "" || strings.ContainsAny(token, "\r\n") {
			return fmt.Errorf("token %d is not a single line", i+1)
		}
	}

	if !headerless {
		if err := header.Validate(); err != nil {
			return fmt.Errorf("invalid header: %w", err)
		}
		if header.Total != len(tokens) {
			return fmt.Errorf("header total %d does not match %d tokens", header.Total, len(tokens))
		}

		split := time.Unix(header.Timestamp, 0).UTC().Format(timeLayout)
		if _, err := fmt.Fprintf(sw.w, Banner, header.Total, header.Threshold, split); err != nil {
			return fmt.Errorf("failed to write banner: %w", err)
		}
		if _, err := fmt.Fprintln(sw.w, SharesMarker); err != nil {
			return fmt.Errorf("failed to write shares marker: %w", err)
		}
	}

	for i, token := range tokens {
		if _, err := fmt.Fprintln(sw.w, token); err != nil {
			return fmt.Errorf("failed to write share %d: %w", i+1, err)
		}
	}

	return nil
}
