package types

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	str2duration "github.com/xhit/go-str2duration/v2"
)

// Day and Week extend time's units for human rule ages
const (
	Day  = 24 * time.Hour
	Week = 7 * Day
)

// spelled-out units and the short form str2duration understands
var longUnits = map[string]string{
	"week": "w", "weeks": "w",
	"day": "d", "days": "d",
	"hour": "h", "hours": "h", "hr": "h", "hrs": "h",
	"minute": "m", "minutes": "m", "min": "m", "mins": "m",
	"second": "s", "seconds": "s", "sec": "s", "secs": "s",
}

var durationComponent = regexp.MustCompile(`([0-9]*\.?[0-9]+)\s*([a-zµ]+)`)

// ParseDuration accepts Go durations ("36h", "90m") plus day and week
// units, compound forms ("1w2d", "1d12h") and long forms ("2 weeks",
// "1 day 6 hours").
func ParseDuration(s string) (time.Duration, error) {
	norm := normalizeDuration(s)
	if norm == "" {
		return 0, fmt.Errorf("empty duration")
	}
	d, err := str2duration.ParseDuration(norm)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", strings.TrimSpace(s), err)
	}
	return d, nil
}

func normalizeDuration(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = durationComponent.ReplaceAllStringFunc(s, func(part string) string {
		m := durationComponent.FindStringSubmatch(part)
		if short, ok := longUnits[m[2]]; ok {
			return m[1] + short
		}
		return m[1] + m[2]
	})
	return strings.Join(strings.Fields(s), "")
}
