package timecode

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrMalformed is returned for strings that are not HH:MM:SS,mmm.
var ErrMalformed = errors.New("malformed timestamp")

var srtRe = regexp.MustCompile(`^(\d+):(\d{2}):(\d{2}),(\d{3})$`)

// Parse converts an SRT-style "HH:MM:SS,mmm" timestamp to seconds.
func Parse(ts string) (float64, error) {
	parts := srtRe.FindStringSubmatch(strings.TrimSpace(ts))
	if parts == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, ts)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: hours in %q", ErrMalformed, ts)
	}
	m, _ := strconv.Atoi(parts[2])
	s, _ := strconv.Atoi(parts[3])
	ms, _ := strconv.Atoi(parts[4])
	if m >= 60 || s >= 60 {
		return 0, fmt.Errorf("%w: %q out of range", ErrMalformed, ts)
	}
	return float64(h*3600+m*60+s) + float64(ms)/1000, nil
}

// Format is the inverse of Parse. Negative values clamp to zero.
func Format(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(math.Round(seconds * 1000))
	ms := total % 1000
	s := total / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", s/3600, (s%3600)/60, s%60, ms)
}

// Round2 rounds to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// ParseDuration is Parse returning a time.Duration.
func ParseDuration(ts string) (time.Duration, error) {
	sec, err := Parse(ts)
	if err != nil {
		return 0, err
	}
	return time.Duration(math.Round(sec*1000)) * time.Millisecond, nil
}

// FormatDuration formats d with millisecond precision.
func FormatDuration(d time.Duration) string {
	return Format(d.Seconds())
}
