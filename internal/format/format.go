// Package format holds pure presentation helpers for model descriptor
// fields. These carry no error cases: unknown or empty inputs render as
// literal placeholder text.
package format

import (
	"math"
	"strconv"
	"time"
)

var byteUnits = []string{"B", "KB", "MB", "GB"}

// Bytes renders a byte count with class boundaries at powers of 1024 and
// two-decimal rounding, trailing zeros trimmed: 0 -> "0 B",
// 1536 -> "1.5 KB", 1048576 -> "1 MB".
func Bytes(n int64) string {
	if n <= 0 {
		return "0 B"
	}

	i := 0
	v := float64(n)
	for v >= 1024 && i < len(byteUnits)-1 {
		v /= 1024
		i++
	}

	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + byteUnits[i]
}

// ModifiedAt renders a model's last-modified timestamp as a human-readable
// date. Empty or unparseable input renders as "Unknown".
func ModifiedAt(raw string) string {
	if raw == "" {
		return "Unknown"
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return "Unknown"
	}
	return t.Format("Jan 2, 2006")
}
