package scheduling

import (
	"fmt"
	"time"
)

const (
	maxAlternatives = 3
	conflictBuffer  = 15 * time.Minute

	// AlternativeLayout renders alternative slots, e.g. "Friday, June 27 at 03:15 PM".
	AlternativeLayout = "Monday, January 02 at 03:04 PM"
)

// GenerateAlternatives proposes up to three replacement slots: one right after
// the conflicting booking when there is one, then one, two and three hours
// after the requested start. The proposals are not checked against other
// bookings.
func GenerateAlternatives(requested time.Time, conflict *Booking, durationHours float64) []Alternative {
	length := hoursToDuration(durationHours)
	out := make([]Alternative, 0, maxAlternatives+1)

	if conflict != nil {
		start := conflict.End.Add(conflictBuffer)
		out = append(out, newAlternative(start, length, fmt.Sprintf("Right after %s", conflict.Title)))
	}

	for i := 1; i <= maxAlternatives; i++ {
		start := requested.Add(time.Duration(i) * time.Hour)
		reason := fmt.Sprintf("%d hour later", i)
		if i > 1 {
			reason = fmt.Sprintf("%d hours later", i)
		}
		out = append(out, newAlternative(start, length, reason))
	}

	return out[:maxAlternatives]
}

func newAlternative(start time.Time, length time.Duration, reason string) Alternative {
	return Alternative{
		Start:       start,
		End:         start.Add(length),
		DisplayText: start.Format(AlternativeLayout),
		Reason:      reason,
	}
}
