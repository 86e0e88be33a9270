// Package timefmt renders timestamps in the wire representations the protocol
// supports. A failure to render is an ordinary error the generated serializer
// propagates to its caller.
package timefmt

import (
	"fmt"
	"strconv"
	"time"
)

// Format selects a timestamp wire representation.
type Format uint8

const (
	// FormatDateTime is RFC 3339 with fractional seconds, the protocol default.
	FormatDateTime Format = iota
	// FormatHTTPDate is the IMF-fixdate form used in HTTP headers.
	FormatHTTPDate
	// FormatEpochSeconds is seconds since the Unix epoch with fractional part.
	FormatEpochSeconds
)

var formatNames = map[Format]string{
	FormatDateTime:     "date-time",
	FormatHTTPDate:     "http-date",
	FormatEpochSeconds: "epoch-seconds",
}

// String returns the trait-level format name.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// Parse resolves a trait-level format name.
func Parse(name string) (Format, error) {
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown timestamp format %q", name)
}

const (
	dateTimeLayout = "2006-01-02T15:04:05.999Z07:00"
	httpDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"
)

// Encode renders t in the given format. Timestamps outside the representable
// range of the textual formats are an error, not a garbled value.
func Encode(t time.Time, f Format) (string, error) {
	switch f {
	case FormatDateTime:
		utc := t.UTC()
		if y := utc.Year(); y < 0 || y > 9999 {
			return "", fmt.Errorf("timestamp year %d outside date-time range", y)
		}
		return utc.Format(dateTimeLayout), nil
	case FormatHTTPDate:
		utc := t.UTC()
		if y := utc.Year(); y < 0 || y > 9999 {
			return "", fmt.Errorf("timestamp year %d outside http-date range", y)
		}
		return utc.Format(httpDateLayout), nil
	case FormatEpochSeconds:
		ms := t.UnixMilli()
		if ms%1000 == 0 {
			return strconv.FormatInt(ms/1000, 10), nil
		}
		return strconv.FormatFloat(float64(ms)/1000, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unknown timestamp format %d", f)
	}
}
