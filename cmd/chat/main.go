package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/wolfman30/calendar-assistant/cmd/mainconfig"
	appconfig "github.com/wolfman30/calendar-assistant/internal/config"
	"github.com/wolfman30/calendar-assistant/internal/conversation"
	"github.com/wolfman30/calendar-assistant/pkg/logging"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		nowFlag   string
		sessionID string
	)

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Talk to the scheduling assistant from a terminal",
		Long: `Runs the scheduling assistant against the configured booking source.

  chat                                   # interactive mode
  chat "Book a call tomorrow at 3pm"     # single turn
  chat --now 2025-06-27T09:00 "Am I free Monday afternoon?"`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg := appconfig.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			// Logs go to stderr so replies stay readable on stdout.
			logger := logging.NewWithWriter(cfg.LogLevel, os.Stderr)

			var opts []conversation.ServiceOption
			if nowFlag != "" {
				ref, err := parseReferenceTime(nowFlag, cfg.Location())
				if err != nil {
					return err
				}
				opts = append(opts, conversation.WithClock(func() time.Time { return ref }))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			redisClient := mainconfig.NewRedisClient(cfg)
			if redisClient != nil {
				defer redisClient.Close()
			}
			deps := mainconfig.Deps{Redis: redisClient, Logger: logger}
			source, closeSource, err := mainconfig.BuildBookingSource(ctx, cfg, deps)
			if err != nil {
				return err
			}
			defer closeSource()

			svc, err := mainconfig.BuildConversationService(ctx, cfg, source, deps, opts...)
			if err != nil {
				return err
			}

			r := &repl{turns: svc, conversationID: sessionID, out: cmd.OutOrStdout()}
			if len(args) > 0 {
				return r.turn(ctx, strings.Join(args, " "))
			}
			return r.run(ctx, cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVar(&nowFlag, "now", "", "reference time for relative dates (RFC3339 or 2006-01-02T15:04)")
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "conversation id to continue")
	return cmd
}

func parseReferenceTime(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04", value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q: %w", value, err)
	}
	return t, nil
}
