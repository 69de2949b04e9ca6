package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Booking source kinds accepted by BOOKING_SOURCE.
const (
	SourceDemo     = "demo"
	SourcePostgres = "postgres"
	SourceGoogle   = "google"
	SourceDynamoDB = "dynamodb"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string
	Timezone string

	// Booking source
	BookingSource        string
	BookingSourceTimeout time.Duration
	BookingFallback      string
	DemoBookingsFile     string
	BookingCacheTTL      time.Duration

	DatabaseURL           string
	GoogleCalendarID      string
	GoogleCredentialsFile string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
	BookingsTable       string
	TurnEventsQueueURL  string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	TranscriptMaxMessages int
	TranscriptTTL         time.Duration
	CORSAllowedOrigins    []string
	RateLimitRPS          float64
	RateLimitBurst        int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Timezone: getEnv("TIMEZONE", "Local"),

		BookingSource:        strings.ToLower(strings.TrimSpace(getEnv("BOOKING_SOURCE", SourceDemo))),
		BookingSourceTimeout: getEnvAsDuration("BOOKING_SOURCE_TIMEOUT", 3*time.Second),
		BookingFallback:      strings.ToLower(strings.TrimSpace(getEnv("BOOKING_FALLBACK", "demo"))),
		DemoBookingsFile:     getEnv("DEMO_BOOKINGS_FILE", ""),
		BookingCacheTTL:      getEnvAsDuration("BOOKING_CACHE_TTL", 0),

		DatabaseURL:           getEnv("DATABASE_URL", ""),
		GoogleCalendarID:      getEnv("GOOGLE_CALENDAR_ID", "primary"),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		BookingsTable:       getEnv("BOOKINGS_TABLE", "bookings"),
		TurnEventsQueueURL:  getEnv("TURN_EVENTS_QUEUE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		TranscriptMaxMessages: getEnvAsInt("TRANSCRIPT_MAX_MESSAGES", 200),
		TranscriptTTL:         getEnvAsDuration("TRANSCRIPT_TTL", 24*time.Hour),
		CORSAllowedOrigins:    getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitRPS:          getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:        getEnvAsInt("RATE_LIMIT_BURST", 20),
	}
}

// Validate reports settings that would make startup fail later in a less
// obvious place.
func (c *Config) Validate() error {
	switch c.BookingSource {
	case SourceDemo:
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: BOOKING_SOURCE=postgres requires DATABASE_URL")
		}
	case SourceGoogle:
	case SourceDynamoDB:
		if c.BookingsTable == "" {
			return fmt.Errorf("config: BOOKING_SOURCE=dynamodb requires BOOKINGS_TABLE")
		}
	default:
		return fmt.Errorf("config: unknown BOOKING_SOURCE %q", c.BookingSource)
	}
	switch c.BookingFallback {
	case "demo", "empty":
	default:
		return fmt.Errorf("config: unknown BOOKING_FALLBACK %q", c.BookingFallback)
	}
	return nil
}

// Location resolves Timezone, falling back to the process-local zone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
