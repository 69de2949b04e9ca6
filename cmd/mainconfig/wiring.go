package mainconfig

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/wolfman30/calendar-assistant/internal/bookings"
	appconfig "github.com/wolfman30/calendar-assistant/internal/config"
	"github.com/wolfman30/calendar-assistant/internal/conversation"
	"github.com/wolfman30/calendar-assistant/internal/observability/metrics"
	"github.com/wolfman30/calendar-assistant/pkg/logging"
)

// Deps are the process-wide collaborators the booking and conversation wiring
// can use. Any field may be nil.
type Deps struct {
	Redis   *redis.Client
	Metrics *metrics.ConversationMetrics
	Logger  *logging.Logger
}

// NewRedisClient returns nil when REDIS_ADDR is unset.
func NewRedisClient(cfg *appconfig.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return redis.NewClient(opts)
}

// BuildBookingSource assembles the configured primary source behind the
// optional Redis snapshot and the fallback guard. The returned cleanup
// releases any pools the source opened.
func BuildBookingSource(ctx context.Context, cfg *appconfig.Config, deps Deps) (bookings.Source, func(), error) {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	loc := cfg.Location()
	cleanup := func() {}

	demo, err := demoSource(cfg, loc, logger)
	if err != nil {
		return nil, cleanup, err
	}

	var primary bookings.Source
	switch cfg.BookingSource {
	case appconfig.SourceDemo:
		return demo, cleanup, nil
	case appconfig.SourcePostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, cleanup, fmt.Errorf("mainconfig: connect postgres: %w", err)
		}
		cleanup = pool.Close
		primary = bookings.NewPostgresSource(pool, loc, logger)
	case appconfig.SourceGoogle:
		opts := []option.ClientOption{option.WithScopes(calendar.CalendarReadonlyScope)}
		if cfg.GoogleCredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.GoogleCredentialsFile))
		}
		src, err := bookings.NewGoogleCalendarSource(ctx, cfg.GoogleCalendarID, loc, logger, opts...)
		if err != nil {
			return nil, cleanup, err
		}
		primary = src
	case appconfig.SourceDynamoDB:
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, cleanup, fmt.Errorf("mainconfig: load aws config: %w", err)
		}
		primary = bookings.NewDynamoSource(NewDynamoClient(awsCfg, cfg), cfg.BookingsTable, loc, logger)
	default:
		return nil, cleanup, fmt.Errorf("mainconfig: unknown booking source %q", cfg.BookingSource)
	}

	if deps.Redis != nil && cfg.BookingCacheTTL > 0 {
		primary = bookings.NewCachedSource(primary, deps.Redis, cfg.BookingCacheTTL, logger)
	}

	var fallback bookings.Source = bookings.NewEmptySource()
	if cfg.BookingFallback == "demo" {
		fallback = demo
	}

	opts := []bookings.FallbackOption{bookings.WithTimeout(cfg.BookingSourceTimeout)}
	if deps.Metrics != nil {
		opts = append(opts, bookings.WithObserver(deps.Metrics))
	}
	return bookings.NewFallbackSource(cfg.BookingSource, primary, fallback, logger, opts...), cleanup, nil
}

func demoSource(cfg *appconfig.Config, loc *time.Location, logger *logging.Logger) (bookings.Source, error) {
	if cfg.DemoBookingsFile == "" {
		return bookings.NewDemoSource(loc), nil
	}
	src, err := bookings.LoadFixtureFile(cfg.DemoBookingsFile, loc, logger)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// BuildConversationService wires the transcript store and turn publisher the
// config asks for around the booking source. The clock reads wall-clock time in
// the configured TIMEZONE so requests line up with booking data. extra options
// are applied last.
func BuildConversationService(ctx context.Context, cfg *appconfig.Config, source bookings.Source, deps Deps, extra ...conversation.ServiceOption) (*conversation.Service, error) {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}

	var transcripts conversation.TranscriptStore = conversation.NewMemoryTranscriptStore(cfg.TranscriptMaxMessages)
	if deps.Redis != nil {
		transcripts = conversation.NewRedisTranscriptStore(deps.Redis, cfg.TranscriptMaxMessages, cfg.TranscriptTTL)
	}

	var publisher conversation.TurnPublisher = conversation.NoopTurnPublisher{}
	if cfg.TurnEventsQueueURL != "" {
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("mainconfig: load aws config: %w", err)
		}
		publisher = conversation.NewSQSTurnPublisher(NewSQSClient(awsCfg, cfg), cfg.TurnEventsQueueURL)
	}

	loc := cfg.Location()
	opts := []conversation.ServiceOption{
		conversation.WithClock(func() time.Time { return time.Now().In(loc) }),
		conversation.WithTranscriptStore(transcripts),
		conversation.WithTurnPublisher(publisher),
	}
	if deps.Metrics != nil {
		opts = append(opts, conversation.WithTurnObserver(deps.Metrics))
	}
	return conversation.NewService(source, logger, append(opts, extra...)...), nil
}
