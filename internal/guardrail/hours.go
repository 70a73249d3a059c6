package guardrail

import (
	"strings"
	"time"

	"github.com/Quinntas/max/internal/lead"
)

// WithinBusinessHours reports whether the current wall-clock time in the
// given IANA timezone falls inside the configured opening hours.
// No configured hours means always open.
func WithinBusinessHours(timezone string, hours lead.BusinessHours) bool {
	return WithinBusinessHoursAt(timezone, hours, time.Now())
}

// WithinBusinessHoursAt is the clock-injected form of WithinBusinessHours
// used by tests and callers that already resolved "now".
//
// Hours use zero-padded 24h "HH:MM" strings, so lexical comparison is
// correct. A weekday with no entry is closed; the close bound is exclusive.
// An unresolvable timezone fails open.
func WithinBusinessHoursAt(timezone string, hours lead.BusinessHours, at time.Time) bool {
	if len(hours) == 0 {
		return true
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return true
	}
	local := at.In(loc)

	weekday := strings.ToLower(local.Weekday().String())
	day, ok := hours[weekday]
	if !ok {
		return false
	}

	current := local.Format("15:04")
	return current >= day.Open && current < day.Close
}
