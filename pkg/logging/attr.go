package logging

import (
	"log/slog"
	"time"
)

// replaceAttr renders errors as their message and trims timestamps to
// millisecond precision.
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch v := a.Value.Any().(type) {
	case error:
		return slog.String(a.Key, v.Error())
	case time.Time:
		if a.Key == slog.TimeKey {
			return slog.String(a.Key, v.Format("2006-01-02T15:04:05.000Z07:00"))
		}
	}
	return a
}
