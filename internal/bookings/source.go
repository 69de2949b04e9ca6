package bookings

import (
	"context"

	"github.com/wolfman30/calendar-assistant/internal/scheduling"
	"github.com/wolfman30/calendar-assistant/pkg/logging"
)

// Source supplies the bookings that conflict checks run against. The order
// of the returned slice is the order conflicts are searched in.
type Source interface {
	List(ctx context.Context) ([]scheduling.Booking, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]scheduling.Booking, error)

// List implements Source.
func (f SourceFunc) List(ctx context.Context) ([]scheduling.Booking, error) {
	return f(ctx)
}

// keepValid drops bookings the core cannot use, logging each one.
func keepValid(logger *logging.Logger, source string, in []scheduling.Booking) []scheduling.Booking {
	out := make([]scheduling.Booking, 0, len(in))
	for _, b := range in {
		if err := b.Validate(); err != nil {
			logger.Warn("bookings: dropping invalid booking", "source", source, "booking_id", b.ID, "error", err)
			continue
		}
		out = append(out, b)
	}
	return out
}
