package scheduling

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidBooking is returned by Booking.Validate for unusable bookings.
var ErrInvalidBooking = errors.New("scheduling: invalid booking")

// Booking is an existing calendar entry supplied by a booking source.
// Intervals are half-open: [Start, End).
type Booking struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Start       time.Time `json:"start_time" yaml:"start_time"`
	End         time.Time `json:"end_time" yaml:"end_time"`
	Description string    `json:"description,omitempty" yaml:"description"`
}

// Validate reports whether the booking can take part in conflict checks.
func (b Booking) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidBooking)
	}
	if !b.End.After(b.Start) {
		return fmt.Errorf("%w: %s ends at or before it starts", ErrInvalidBooking, b.ID)
	}
	return nil
}

// Overlaps reports whether [start, end) intersects the booking.
// Touching intervals do not overlap.
func (b Booking) Overlaps(start, end time.Time) bool {
	return start.Before(b.End) && end.After(b.Start)
}

// ParsedRequest is what one user utterance resolves to.
type ParsedRequest struct {
	ReferenceDate       time.Time
	TargetStart         time.Time
	TargetEnd           time.Time
	MeetingType         string
	Title               string
	Description         string
	DurationHours       float64
	IsAvailabilityQuery bool

	// DateMatched and TimeMatched are false when the defaults were used.
	DateMatched bool
	TimeMatched bool
}

// Duration returns DurationHours as a time.Duration.
func (p ParsedRequest) Duration() time.Duration {
	return hoursToDuration(p.DurationHours)
}

// Alternative is a proposed replacement slot.
type Alternative struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	DisplayText string    `json:"display_text"`
	Reason      string    `json:"reason"`
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}
