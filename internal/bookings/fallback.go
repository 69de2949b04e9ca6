package bookings

import (
	"context"
	"time"

	"github.com/wolfman30/calendar-assistant/internal/scheduling"
	"github.com/wolfman30/calendar-assistant/pkg/logging"
)

const defaultSourceTimeout = 3 * time.Second

// FallbackObserver is told whenever the primary source is bypassed.
type FallbackObserver interface {
	ObserveBookingFallback(source string)
	ObserveBookingLoad(source string, seconds float64, ok bool)
}

// FallbackSource bounds the primary source with a timeout and substitutes the
// fallback list when the primary fails, so a turn never fails because the
// calendar is unreachable.
type FallbackSource struct {
	name     string
	primary  Source
	fallback Source
	timeout  time.Duration
	observer FallbackObserver
	logger   *logging.Logger
}

// FallbackOption customizes a FallbackSource.
type FallbackOption func(*FallbackSource)

// WithTimeout bounds each primary call.
func WithTimeout(d time.Duration) FallbackOption {
	return func(s *FallbackSource) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithObserver records fallbacks and load latency.
func WithObserver(o FallbackObserver) FallbackOption {
	return func(s *FallbackSource) {
		s.observer = o
	}
}

// NewFallbackSource wraps primary, named for logs and metrics. A nil fallback
// means an empty booking list.
func NewFallbackSource(name string, primary, fallback Source, logger *logging.Logger, opts ...FallbackOption) *FallbackSource {
	if primary == nil {
		panic("bookings: fallback source needs a primary source")
	}
	if fallback == nil {
		fallback = NewEmptySource()
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &FallbackSource{
		name:     name,
		primary:  primary,
		fallback: fallback,
		timeout:  defaultSourceTimeout,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List implements Source. It only returns an error when the fallback fails too.
func (s *FallbackSource) List(ctx context.Context) ([]scheduling.Booking, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	bookings, err := s.primary.List(callCtx)
	if s.observer != nil {
		s.observer.ObserveBookingLoad(s.name, time.Since(started).Seconds(), err == nil)
	}
	if err == nil {
		return bookings, nil
	}

	s.logger.Warn("bookings: primary source unavailable, using fallback",
		"source", s.name,
		"timeout", s.timeout.String(),
		"error", err,
	)
	if s.observer != nil {
		s.observer.ObserveBookingFallback(s.name)
	}
	return s.fallback.List(ctx)
}
