// Package scheduling decides whether and where a requested appointment slot
// fits: time resolution, working-hours and conflict checks, agent selection,
// and the booking flow itself.
package scheduling

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	naturaldate "github.com/tj/go-naturaldate"
)

// ErrUnparseableTime means the free-text time preference could not be turned
// into a timestamp. Callers must ask the user to clarify, never substitute a
// default time.
var ErrUnparseableTime = errors.New("scheduling: could not parse time preference")

// dateTokens marks expressions that carry their own date component. Anything
// without one resolves onto the current date.
var dateTokens = []string{"year", "month", "day", "today", "tomorrow", "yesterday"}

var meridiemSpacing = regexp.MustCompile(`(\d)\s+(am|pm)\b`)

// ResolveTimePreference parses a natural-language time expression relative to
// now. Expressions with no date component default to today and roll forward
// by one day when the time of day has already passed ("at 2pm" said in the
// evening means tomorrow 2pm). Seconds are always zeroed.
func ResolveTimePreference(text string, now time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return time.Time{}, ErrUnparseableTime
	}
	normalized := meridiemSpacing.ReplaceAllString(strings.ToLower(trimmed), "$1$2")

	t, ok := parseNatural(normalized, now)
	if !ok {
		var err error
		t, err = dateparse.ParseIn(trimmed, now.Location())
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableTime, text)
		}
	}

	if !hasDateToken(normalized) {
		t = time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
		if t.Before(now) {
			t = t.AddDate(0, 0, 1)
		}
	}

	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location()), nil
}

// parseNatural wraps naturaldate.Parse, which returns the base time with a
// nil error for text containing no date expression at all. Re-parsing against
// a shifted base distinguishes that silent no-match from input that genuinely
// resolves to the base instant: unmatched text tracks whatever base it is
// given, a real match does not.
func parseNatural(text string, now time.Time) (time.Time, bool) {
	t, err := naturaldate.Parse(text, now, naturaldate.WithDirection(naturaldate.Future))
	if err != nil {
		return time.Time{}, false
	}
	if !t.Equal(now) {
		return t, true
	}
	shifted := now.Add(37 * time.Minute)
	t2, err := naturaldate.Parse(text, shifted, naturaldate.WithDirection(naturaldate.Future))
	if err != nil || t2.Equal(shifted) {
		return time.Time{}, false
	}
	return t, true
}

func hasDateToken(text string) bool {
	for _, tok := range dateTokens {
		if strings.Contains(text, tok) {
			return true
		}
	}
	return false
}
