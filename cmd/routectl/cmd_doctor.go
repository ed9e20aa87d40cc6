package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"mondichat-be/pkg/database"

	"github.com/fatih/color"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check connectivity to Postgres, Redis and NATS",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

type check struct {
	name     string
	skip     string
	run      func(ctx context.Context) (string, error)
	optional bool
}

func runDoctor(cmd *cobra.Command, args []string) error {
	checks := []check{
		{
			name: "postgres",
			skip: skipIfEmpty(cfg.Database.Connection, "DB_CONNECTION_STRING not set"),
			run: func(ctx context.Context) (string, error) {
				info, err := database.Probe(ctx, cfg.Database.Connection)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%s (%s)", info.Version, info.Latency.Round(time.Millisecond)), nil
			},
		},
		{
			name:     "redis",
			optional: cfg.Session.Store != "redis",
			run: func(ctx context.Context) (string, error) {
				opt, err := redis.ParseURL(cfg.App.RedisURL)
				if err != nil {
					opt = &redis.Options{Addr: cfg.App.RedisURL}
				}
				rdb := redis.NewClient(opt)
				defer rdb.Close()
				return rdb.Ping(ctx).Result()
			},
		},
		{
			name:     "nats",
			optional: true,
			skip:     skipIfEmpty(cfg.App.NatsURL, "NATS_URL not set"),
			run: func(ctx context.Context) (string, error) {
				nc, err := nats.Connect(cfg.App.NatsURL, nats.Timeout(5*time.Second))
				if err != nil {
					return "", err
				}
				defer nc.Close()
				return nc.ConnectedServerVersion(), nil
			},
		},
	}

	if failed := runChecks(cmd.Context(), cmd.OutOrStdout(), checks); failed > 0 {
		return fail("%d required check(s) failed", failed)
	}
	return nil
}

func skipIfEmpty(value, reason string) string {
	if value == "" {
		return reason
	}
	return ""
}

// runChecks prints one line per check and returns how many required checks
// failed.
func runChecks(ctx context.Context, w io.Writer, checks []check) int {
	failed := 0
	for _, c := range checks {
		if c.skip != "" {
			fmt.Fprintf(w, "%s %-9s %s\n", color.HiBlackString("-"), c.name, c.skip)
			continue
		}

		cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		detail, err := c.run(cctx)
		cancel()

		switch {
		case err == nil:
			fmt.Fprintf(w, "%s %-9s %s\n", color.GreenString("✓"), c.name, detail)
		case c.optional:
			fmt.Fprintf(w, "%s %-9s %v\n", color.YellowString("!"), c.name, err)
		default:
			fmt.Fprintf(w, "%s %-9s %v\n", color.RedString("✗"), c.name, err)
			failed++
		}
	}
	return failed
}
