package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wolfman30/calendar-assistant/internal/scheduling"
	"github.com/wolfman30/calendar-assistant/pkg/logging"
)

const defaultLookback = 24 * time.Hour

const listBookingsSQL = `
SELECT id, title, start_time, end_time, COALESCE(description, '')
FROM bookings
WHERE end_time > $1
ORDER BY start_time, id`

// pgxQuerier is the subset of pgxpool.Pool the source needs.
type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads bookings from the bookings table created by the
// migrations package. Bookings that ended before the lookback window are
// skipped.
type PostgresSource struct {
	db       pgxQuerier
	lookback time.Duration
	loc      *time.Location
	now      func() time.Time
	logger   *logging.Logger
}

// PostgresOption customizes a PostgresSource.
type PostgresOption func(*PostgresSource)

// WithLookback sets how far back finished bookings are still listed.
func WithLookback(d time.Duration) PostgresOption {
	return func(s *PostgresSource) {
		if d > 0 {
			s.lookback = d
		}
	}
}

// WithPostgresClock overrides the clock used for the lookback window.
func WithPostgresClock(now func() time.Time) PostgresOption {
	return func(s *PostgresSource) {
		if now != nil {
			s.now = now
		}
	}
}

// NewPostgresSource creates a source backed by a pgx pool (or anything with
// the same Query method).
func NewPostgresSource(db pgxQuerier, loc *time.Location, logger *logging.Logger, opts ...PostgresOption) *PostgresSource {
	if db == nil {
		panic("bookings: pgx pool required")
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &PostgresSource{
		db:       db,
		lookback: defaultLookback,
		loc:      loc,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List implements Source.
func (s *PostgresSource) List(ctx context.Context) ([]scheduling.Booking, error) {
	rows, err := s.db.Query(ctx, listBookingsSQL, s.now().Add(-s.lookback))
	if err != nil {
		return nil, fmt.Errorf("bookings: query postgres: %w", err)
	}
	defer rows.Close()

	var out []scheduling.Booking
	for rows.Next() {
		var b scheduling.Booking
		if err := rows.Scan(&b.ID, &b.Title, &b.Start, &b.End, &b.Description); err != nil {
			return nil, fmt.Errorf("bookings: scan postgres row: %w", err)
		}
		b.Start = b.Start.In(s.loc)
		b.End = b.End.In(s.loc)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bookings: iterate postgres rows: %w", err)
	}
	return keepValid(s.logger, "postgres", out), nil
}
