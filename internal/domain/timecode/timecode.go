// Package timecode converts second counts to and from HH:MM:SS display strings.
package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrInvalidTimecode is returned by Parse for strings that are not HH:MM:SS.
var ErrInvalidTimecode = errors.New("invalid timecode")

// Format converts a number of seconds into HH:MM:SS.
//
// Hours are zero-padded to at least two digits and grow without bound
// (360000 seconds is "100:00:00"). Minutes and seconds are always two digits.
// Negative input is rendered as "-" followed by the formatted magnitude.
//
//	Format(0)      // "00:00:00"
//	Format(3661)   // "01:01:01"
//	Format(359999) // "99:59:59"
func Format(seconds int) string {
	if seconds < 0 {
		// Magnitude computed in uint64 so math.MinInt does not overflow.
		return "-" + formatMagnitude(uint64(-(seconds+1))+1)
	}
	return formatMagnitude(uint64(seconds))
}

func formatMagnitude(total uint64) string {
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// FormatDuration formats d truncated to whole seconds.
func FormatDuration(d time.Duration) string {
	return Format(int(d / time.Second))
}

// Parse converts a string produced by Format back into seconds.
func Parse(s string) (int, error) {
	body, negative := strings.CutPrefix(s, "-")

	parts := strings.Split(body, ":")
	if len(parts) != 3 {
		return 0, errors.Wrapf(ErrInvalidTimecode, "%q: expected HH:MM:SS", s)
	}

	if len(parts[0]) < 2 || !isDigits(parts[0]) {
		return 0, errors.Wrapf(ErrInvalidTimecode, "%q: hours must be at least two digits", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidTimecode, "%q: hours out of range", s)
	}

	minutes, err := parseSexagesimal(parts[1])
	if err != nil {
		return 0, errors.Wrapf(err, "%q: minutes", s)
	}
	secs, err := parseSexagesimal(parts[2])
	if err != nil {
		return 0, errors.Wrapf(err, "%q: seconds", s)
	}

	// The magnitude of math.MinInt is one past math.MaxInt.
	limit := uint64(math.MaxInt)
	if negative {
		limit++
	}
	rest := uint64(minutes*60 + secs)
	if uint64(hours) > (limit-rest)/3600 {
		return 0, errors.Wrapf(ErrInvalidTimecode, "%q: hours out of range", s)
	}

	total := uint64(hours)*3600 + rest
	if negative {
		return int(-total), nil
	}
	return int(total), nil
}

// parseSexagesimal parses a two-digit field in [0,59].
func parseSexagesimal(field string) (int, error) {
	if len(field) != 2 || !isDigits(field) {
		return 0, errors.Wrapf(ErrInvalidTimecode, "field %q must be two digits", field)
	}
	v, _ := strconv.Atoi(field)
	if v > 59 {
		return 0, errors.Wrapf(ErrInvalidTimecode, "field %q must be below 60", field)
	}
	return v, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
