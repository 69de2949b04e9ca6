package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/calendar-assistant/internal/scheduling"
	"github.com/wolfman30/calendar-assistant/pkg/logging"
)

type recordingObserver struct {
	fallbacks []string
	loads     []bool
}

func (o *recordingObserver) ObserveBookingFallback(source string) {
	o.fallbacks = append(o.fallbacks, source)
}

func (o *recordingObserver) ObserveBookingLoad(_ string, _ float64, ok bool) {
	o.loads = append(o.loads, ok)
}

func TestFallbackSource(t *testing.T) {
	live := []scheduling.Booking{{ID: "live", Title: "Live", Start: time.Date(2025, 6, 30, 9, 0, 0, 0, time.UTC), End: time.Date(2025, 6, 30, 10, 0, 0, 0, time.UTC)}}
	spare := []scheduling.Booking{{ID: "spare", Title: "Spare", Start: time.Date(2025, 6, 30, 11, 0, 0, 0, time.UTC), End: time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)}}

	slow := SourceFunc(func(ctx context.Context) ([]scheduling.Booking, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return live, nil
		}
	})

	tests := []struct {
		name          string
		primary       Source
		fallback      Source
		wantIDs       []string
		wantFallbacks int
		wantLoads     []bool
	}{
		{
			name:      "primary succeeds",
			primary:   NewStaticSource(live),
			fallback:  NewStaticSource(spare),
			wantIDs:   []string{"live"},
			wantLoads: []bool{true},
		},
		{
			name: "primary errors",
			primary: SourceFunc(func(context.Context) ([]scheduling.Booking, error) {
				return nil, errors.New("connection refused")
			}),
			fallback:      NewStaticSource(spare),
			wantIDs:       []string{"spare"},
			wantFallbacks: 1,
			wantLoads:     []bool{false},
		},
		{
			name:          "primary times out",
			primary:       slow,
			fallback:      NewStaticSource(spare),
			wantIDs:       []string{"spare"},
			wantFallbacks: 1,
			wantLoads:     []bool{false},
		},
		{
			name: "nil fallback is empty",
			primary: SourceFunc(func(context.Context) ([]scheduling.Booking, error) {
				return nil, errors.New("boom")
			}),
			wantIDs:       []string{},
			wantFallbacks: 1,
			wantLoads:     []bool{false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := &recordingObserver{}
			src := NewFallbackSource("postgres", tt.primary, tt.fallback, logging.New("error"),
				WithTimeout(50*time.Millisecond),
				WithObserver(obs),
			)

			got, err := src.List(context.Background())
			require.NoError(t, err)

			ids := make([]string, 0, len(got))
			for _, b := range got {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Len(t, obs.fallbacks, tt.wantFallbacks)
			assert.Equal(t, tt.wantLoads, obs.loads)
		})
	}
}

func TestFallbackSource_IgnoresNonPositiveTimeout(t *testing.T) {
	src := NewFallbackSource("demo", NewEmptySource(), nil, nil, WithTimeout(0))
	assert.Equal(t, defaultSourceTimeout, src.timeout)
}

func TestNewFallbackSource_PanicsWithoutPrimary(t *testing.T) {
	assert.Panics(t, func() { NewFallbackSource("x", nil, nil, nil) })
}
