package bookings

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wolfman30/calendar-assistant/internal/scheduling"
	"github.com/wolfman30/calendar-assistant/pkg/logging"
)

// wallClockLayout is the layout of fixture timestamps; they carry no zone
// and are read in the source's location.
const wallClockLayout = "2006-01-02T15:04:05"

// StaticSource serves a fixed booking list. It backs demo mode and the
// empty fallback.
type StaticSource struct {
	bookings []scheduling.Booking
}

// NewStaticSource copies bookings into a new source.
func NewStaticSource(bookings []scheduling.Booking) *StaticSource {
	cp := make([]scheduling.Booking, len(bookings))
	copy(cp, bookings)
	return &StaticSource{bookings: cp}
}

// NewEmptySource returns a source with no bookings; every slot is free.
func NewEmptySource() *StaticSource {
	return &StaticSource{}
}

// List implements Source. Callers get their own copy.
func (s *StaticSource) List(ctx context.Context) ([]scheduling.Booking, error) {
	out := make([]scheduling.Booking, len(s.bookings))
	copy(out, s.bookings)
	return out, nil
}

type fixtureRecord struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	StartTime   string `yaml:"start_time"`
	EndTime     string `yaml:"end_time"`
	Description string `yaml:"description"`
}

var demoRecords = []fixtureRecord{
	{ID: "demo_1", Title: "Team Standup", StartTime: "2025-06-28T09:00:00", EndTime: "2025-06-28T09:30:00", Description: "Daily team synchronization meeting"},
	{ID: "demo_2", Title: "Client Presentation", StartTime: "2025-06-30T14:00:00", EndTime: "2025-06-30T15:30:00", Description: "Q4 results presentation to stakeholders"},
	{ID: "demo_3", Title: "Code Review Session", StartTime: "2025-06-28T16:00:00", EndTime: "2025-06-28T17:00:00", Description: "Review pull requests and discuss architecture"},
	{ID: "demo_4", Title: "1:1 with Manager", StartTime: "2025-07-01T11:00:00", EndTime: "2025-07-01T11:30:00", Description: "Weekly one-on-one discussion"},
	{ID: "demo_5", Title: "Product Planning", StartTime: "2025-07-02T10:00:00", EndTime: "2025-07-02T12:00:00", Description: "Sprint planning and backlog grooming"},
}

// NewDemoSource serves the built-in demo calendar with wall-clock times in loc.
func NewDemoSource(loc *time.Location) *StaticSource {
	bookings, err := fromFixtures(demoRecords, loc)
	if err != nil {
		panic(fmt.Sprintf("bookings: demo fixtures are invalid: %v", err))
	}
	return &StaticSource{bookings: bookings}
}

// LoadFixtureFile reads a YAML list of bookings. Invalid rows are dropped.
func LoadFixtureFile(path string, loc *time.Location, logger *logging.Logger) (*StaticSource, error) {
	if logger == nil {
		logger = logging.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bookings: read fixture file: %w", err)
	}

	var records []fixtureRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("bookings: parse fixture file: %w", err)
	}

	bookings, err := fromFixtures(records, loc)
	if err != nil {
		return nil, err
	}
	return &StaticSource{bookings: keepValid(logger, "fixture", bookings)}, nil
}

func fromFixtures(records []fixtureRecord, loc *time.Location) ([]scheduling.Booking, error) {
	if loc == nil {
		loc = time.Local
	}
	out := make([]scheduling.Booking, 0, len(records))
	for _, r := range records {
		start, err := time.ParseInLocation(wallClockLayout, r.StartTime, loc)
		if err != nil {
			return nil, fmt.Errorf("bookings: booking %s start_time: %w", r.ID, err)
		}
		end, err := time.ParseInLocation(wallClockLayout, r.EndTime, loc)
		if err != nil {
			return nil, fmt.Errorf("bookings: booking %s end_time: %w", r.ID, err)
		}
		out = append(out, scheduling.Booking{
			ID:          r.ID,
			Title:       r.Title,
			Start:       start,
			End:         end,
			Description: r.Description,
		})
	}
	return out, nil
}
