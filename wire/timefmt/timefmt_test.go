package timefmt

import (
	"testing"
	"time"
)

func TestEncode(t *testing.T) {
	ref := time.Date(2024, 3, 9, 12, 30, 45, 500*int(time.Millisecond), time.UTC)

	tests := []struct {
		name   string
		t      time.Time
		format Format
		want   string
	}{
		{"date-time", ref, FormatDateTime, "2024-03-09T12:30:45.5Z"},
		{"date-time whole seconds", ref.Truncate(time.Second), FormatDateTime, "2024-03-09T12:30:45Z"},
		{"http-date", ref.Truncate(time.Second), FormatHTTPDate, "Sat, 09 Mar 2024 12:30:45 GMT"},
		{"epoch-seconds whole", ref.Truncate(time.Second), FormatEpochSeconds, "1709987445"},
		{"epoch-seconds fractional", ref, FormatEpochSeconds, "1709987445.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.t, tt.format)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeFailures(t *testing.T) {
	if _, err := Encode(time.Now(), Format(100)); err == nil {
		t.Fatalf("Encode() expected error for unknown format")
	}
	farFuture := time.Date(10001, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := Encode(farFuture, FormatDateTime); err == nil {
		t.Fatalf("Encode() expected error for out-of-range year")
	}
}

func TestParse(t *testing.T) {
	for _, f := range []Format{FormatDateTime, FormatHTTPDate, FormatEpochSeconds} {
		got, err := Parse(f.String())
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", f.String(), err)
		}
		if got != f {
			t.Fatalf("Parse(%q) = %v, want %v", f.String(), got, f)
		}
	}
	if _, err := Parse("millis"); err == nil {
		t.Fatalf("Parse() expected error for unknown name")
	}
}
