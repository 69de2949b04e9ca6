package bookings

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/wolfman30/calendar-assistant/internal/scheduling"
	"github.com/wolfman30/calendar-assistant/pkg/logging"
)

const (
	googleWindowBefore = 24 * time.Hour
	googleWindowAfter  = 30 * 24 * time.Hour
)

// GoogleCalendarSource lists timed events from a Google calendar. All-day
// events have no start time and are skipped.
type GoogleCalendarSource struct {
	service    *calendar.Service
	calendarID string
	loc        *time.Location
	now        func() time.Time
	logger     *logging.Logger
}

// NewGoogleCalendarSource builds the calendar client. Credentials and
// endpoints come from opts, e.g. option.WithCredentialsFile.
func NewGoogleCalendarSource(ctx context.Context, calendarID string, loc *time.Location, logger *logging.Logger, opts ...option.ClientOption) (*GoogleCalendarSource, error) {
	if calendarID == "" {
		calendarID = "primary"
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = logging.Default()
	}
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("bookings: create google calendar client: %w", err)
	}
	return &GoogleCalendarSource{
		service:    svc,
		calendarID: calendarID,
		loc:        loc,
		now:        time.Now,
		logger:     logger,
	}, nil
}

// List implements Source. Events come back ordered by start time.
func (s *GoogleCalendarSource) List(ctx context.Context) ([]scheduling.Booking, error) {
	now := s.now()
	call := s.service.Events.List(s.calendarID).
		SingleEvents(true).
		OrderBy("startTime").
		ShowDeleted(false).
		TimeMin(now.Add(-googleWindowBefore).Format(time.RFC3339)).
		TimeMax(now.Add(googleWindowAfter).Format(time.RFC3339))

	var out []scheduling.Booking
	err := call.Pages(ctx, func(page *calendar.Events) error {
		for _, ev := range page.Items {
			b, ok, err := s.toBooking(ev)
			if err != nil {
				s.logger.Warn("bookings: skipping unreadable google event", "event_id", ev.Id, "error", err)
				continue
			}
			if ok {
				out = append(out, b)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bookings: list google calendar events: %w", err)
	}
	return keepValid(s.logger, "google", out), nil
}

func (s *GoogleCalendarSource) toBooking(ev *calendar.Event) (scheduling.Booking, bool, error) {
	if ev == nil || ev.Start == nil || ev.End == nil || ev.Start.DateTime == "" || ev.End.DateTime == "" {
		return scheduling.Booking{}, false, nil
	}
	start, err := time.Parse(time.RFC3339, ev.Start.DateTime)
	if err != nil {
		return scheduling.Booking{}, false, fmt.Errorf("start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, ev.End.DateTime)
	if err != nil {
		return scheduling.Booking{}, false, fmt.Errorf("end: %w", err)
	}
	return scheduling.Booking{
		ID:          ev.Id,
		Title:       ev.Summary,
		Start:       start.In(s.loc),
		End:         end.In(s.loc),
		Description: ev.Description,
	}, true, nil
}
