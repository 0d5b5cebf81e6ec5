package format

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// MaxLineSize bounds a single token line.
const MaxLineSize = 1 << 20

// Reader holds a parsed share sheet.
type Reader struct {
	// Header is nil when the sheet carried no banner (headerless sheets,
	// or shares pasted by hand).
	Header *Header

	// Tokens are the share tokens in file order, trimmed.
	Tokens []string
}

// NewReader parses a share sheet. Blank lines, comment lines and the
// marker line are skipped; every other line is one token. The tokens are
// not decoded here.
func NewReader(r io.Reader) (*Reader, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), MaxLineSize)

	out := &Reader{}
	header := &Header{}
	var sawTotal, sawThreshold bool

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "", line == SharesMarker:
			continue
		case strings.HasPrefix(line, CommentPrefix):
			sawTotal = sawTotal || scanBanner(line, "# THESE ARE %d SECRET SHARES.", &header.Total)
			sawThreshold = sawThreshold || scanBanner(line, "# ANY %d OF THEM", &header.Threshold)
			if stamp, ok := strings.CutPrefix(line, "# SPLIT AT "); ok {
				if ts, err := time.Parse(timeLayout, strings.TrimSuffix(stamp, ".")); err == nil {
					header.Timestamp = ts.Unix()
				}
			}
			continue
		}

		out.Tokens = append(out.Tokens, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read share sheet: %w", err)
	}

	if sawTotal && sawThreshold {
		if err := header.Validate(); err != nil {
			return nil, fmt.Errorf("header validation failed: %w", err)
		}
		out.Header = header
	}

	return out, nil
}

func scanBanner(line, pattern string, dst *int) bool {
	var n int
	if _, err := fmt.Sscanf(line, pattern, &n); err != nil {
		return false
	}
	*dst = n
	return true
}
