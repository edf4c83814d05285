package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// ParseUnixTimestamp attempts to parse a natural-language date/time string
// ("tomorrow 9am", "in 2 hours", "2026-01-01 18:00") and return a unix
// timestamp.
func ParseUnixTimestamp(dateString string) (int64, error) {
	dateString = strings.TrimSpace(dateString)

	dt, err := dateparser.Parse(nil, dateString)
	if err != nil {
		return 0, fmt.Errorf("unable to parse date/time format: %w", err)
	}

	return dt.Time.Unix(), nil
}

var durationPattern = regexp.MustCompile(`^(?:(\d+)([smhdw]))+$`)

var durationPairPattern = regexp.MustCompile(`(\d+)([smhdw])`)

var durationUnits = map[string]time.Duration{
	"s": time.Second,
	"m": time.Minute,
	"h": time.Hour,
	"d": 24 * time.Hour,
	"w": 7 * 24 * time.Hour,
}

// ParseShortDuration parses compact duration strings like "10m", "1h30m" or
// "2d". Units: s, m, h, d, w. Returns an error for anything else.
func ParseShortDuration(input string) (time.Duration, error) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if !durationPattern.MatchString(normalized) {
		return 0, fmt.Errorf("invalid duration %q (expected e.g. 10m, 1h, 2d)", input)
	}
	matches := durationPairPattern.FindAllStringSubmatch(normalized, -1)

	var total time.Duration
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", input, err)
		}
		total += time.Duration(n) * durationUnits[m[2]]
	}
	if total <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", input)
	}
	return total, nil
}
