package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/calendar-assistant/internal/scheduling"
	"github.com/wolfman30/calendar-assistant/pkg/logging"
)

const defaultSnapshotKey = "bookings:snapshot"

// CachedSource keeps a short-lived Redis snapshot of another source. Redis
// errors are logged and the wrapped source is used directly.
type CachedSource struct {
	next   Source
	redis  *redis.Client
	ttl    time.Duration
	key    string
	tracer trace.Tracer
	logger *logging.Logger
}

// NewCachedSource wraps next with a Redis snapshot that lives for ttl.
func NewCachedSource(next Source, client *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedSource {
	if next == nil {
		panic("bookings: cached source needs a source to wrap")
	}
	if client == nil {
		panic("bookings: redis client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CachedSource{
		next:   next,
		redis:  client,
		ttl:    ttl,
		key:    defaultSnapshotKey,
		tracer: otel.Tracer("calendar-assistant.internal.bookings.cache"),
		logger: logger,
	}
}

// List implements Source.
func (s *CachedSource) List(ctx context.Context) ([]scheduling.Booking, error) {
	ctx, span := s.tracer.Start(ctx, "bookings.cache.list")
	defer span.End()

	cached, err := s.load(ctx)
	switch {
	case err == nil:
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	case !errors.Is(err, redis.Nil):
		span.RecordError(err)
		s.logger.Warn("bookings: snapshot read failed", "error", err)
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	fresh, err := s.next.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := s.store(ctx, fresh); err != nil {
		span.RecordError(err)
		s.logger.Warn("bookings: snapshot write failed", "error", err)
	}
	return fresh, nil
}

// Invalidate drops the snapshot so the next List goes to the wrapped source.
func (s *CachedSource) Invalidate(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("bookings: invalidate snapshot: %w", err)
	}
	return nil
}

func (s *CachedSource) load(ctx context.Context) ([]scheduling.Booking, error) {
	data, err := s.redis.Get(ctx, s.key).Bytes()
	if err != nil {
		return nil, err
	}
	var out []scheduling.Booking
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("bookings: decode snapshot: %w", err)
	}
	return out, nil
}

func (s *CachedSource) store(ctx context.Context, bookings []scheduling.Booking) error {
	data, err := json.Marshal(bookings)
	if err != nil {
		return fmt.Errorf("bookings: encode snapshot: %w", err)
	}
	return s.redis.Set(ctx, s.key, data, s.ttl).Err()
}
