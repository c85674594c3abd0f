package aeroapi

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the only timestamp layout AeroAPI emits and accepts.
const DateFormat = "2006-01-02T15:04:05Z"

const (
	lookBackDays  = 7
	lookAheadDays = 2

	day = 86400 * time.Second
)

// now is swapped in tests.
var now = time.Now

func formatDate(t time.Time) string {
	return t.UTC().Format(DateFormat)
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateFormat, s, time.UTC)
}

// Time decodes AeroAPI timestamps strictly in DateFormat.
type Time struct {
	time.Time
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(formatDate(t.Time))), nil
}

func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("timestamp %s is not a string", data)
	}
	parsed, err := parseDate(s)
	if err != nil {
		return fmt.Errorf("timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// validateWindow enforces the search window shared by airport and operator flight queries.
func validateWindow(start, end time.Time) error {
	if !start.Before(end) {
		return &StartAfterEndError{Start: start, End: end}
	}
	current := now()
	if !start.After(current.Add(-lookBackDays*day)) || !end.Before(current.Add(lookAheadDays*day)) {
		return &DateRangeOutOfWindowError{Start: start, End: end}
	}
	return nil
}

// validateOptionalWindow applies validateWindow when either bound is set.
func validateOptionalWindow(start, end time.Time) error {
	if start.IsZero() && end.IsZero() {
		return nil
	}
	return validateWindow(start, end)
}

// ParseFAID extracts the epoch embedded in a FlightAware flight id such as
// "UAL231-1696166227-fa-837p".
func ParseFAID(id string) (time.Time, error) {
	parts := strings.Split(id, "-")
	if len(parts) < 2 || parts[0] == "" || !isDigits(parts[1]) {
		return time.Time{}, &MalformedIdentifierError{ID: id}
	}
	epoch, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return time.Time{}, &MalformedIdentifierError{ID: id}
	}
	return time.Unix(epoch, 0).UTC(), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isHistorical routes ids whose timestamp has passed to the /history endpoints.
func isHistorical(faID string) (bool, error) {
	ts, err := ParseFAID(faID)
	if err != nil {
		return false, err
	}
	return ts.Before(now()), nil
}

// DayRange returns [start of day, start of next day) for the given day of year in loc.
func DayRange(dayOfYear, year int, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, time.January, dayOfYear, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
