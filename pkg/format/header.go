package format

import (
	"fmt"
)

// Standard markers used in the text-friendly share sheet
const (
	// Banner is the user-friendly introduction found at the top of a sheet
	Banner = `# THESE ARE %d SECRET SHARES.
# ANY %d OF THEM RECOVER THE SECRET. FEWER REVEAL NOTHING.
# KEEP EACH SHARE WITH A DIFFERENT HOLDER.
# SPLIT AT %s.
`
	// SharesMarker indicates the start of the token list
	SharesMarker = "-- SHARES --"

	// CommentPrefix starts a line the reader skips
	CommentPrefix = "#"

	timeLayout = "2006-01-02T15:04:05Z07:00"
)

// Header describes the split a sheet came from. It is informational
// only: recovery never trusts it for the threshold.
type Header struct {
	// Total is the total number of shares created
	Total int

	// Threshold is the number of shares required to recover the secret
	Threshold int

	// Timestamp is the unix time of the split
	Timestamp int64
}

// Validate checks if the header contains sane values.
func (h *Header) Validate() error {
	if h.Total < 1 {
		return fmt.Errorf("invalid total %d", h.Total)
	}
	if h.Threshold < 1 || h.Threshold > h.Total {
		return fmt.Errorf("invalid threshold %d for total %d", h.Threshold, h.Total)
	}
	return nil
}
