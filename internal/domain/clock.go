package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxSeconds is the largest value the countdown can hold (99:59).
const MaxSeconds = 99*60 + 59

// FormatTime renders a second count as zero-padded MM:SS.
// Negative input renders as 00:00.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// ParseTimeInput converts user text into a whole number of seconds.
//
// "MM:SS" requires non-negative integer parts with seconds at most 59.
// A bare integer is read as minutes. Surrounding whitespace is ignored.
// Any other shape returns ErrInvalidTimeInput. Zero is a valid result;
// callers decide whether a zero duration is acceptable.
func ParseTimeInput(input string) (int, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, ErrInvalidTimeInput
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) != 2 {
			return 0, ErrInvalidTimeInput
		}
		minutes, ok := parseCount(parts[0])
		if !ok {
			return 0, ErrInvalidTimeInput
		}
		secs, ok := parseCount(parts[1])
		if !ok || secs > 59 {
			return 0, ErrInvalidTimeInput
		}
		return saturate(minutes*60 + secs), nil
	}

	minutes, ok := parseCount(s)
	if !ok {
		return 0, ErrInvalidTimeInput
	}
	return saturate(minutes * 60), nil
}

// ClampSeconds bounds a duration to [lo, MaxSeconds].
func ClampSeconds(seconds, lo int) int {
	if seconds < lo {
		return lo
	}
	if seconds > MaxSeconds {
		return MaxSeconds
	}
	return seconds
}

// parseCount accepts plain decimal digits only. Signs, decimals and
// exponents are rejected.
func parseCount(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if errors.Is(err, strconv.ErrRange) {
		// All digits, just too many of them.
		return math.MaxInt32, true
	}
	if err != nil {
		return 0, false
	}
	return n, true
}

func saturate(n int64) int {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}
