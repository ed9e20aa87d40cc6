package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"mondichat-be/pkg/events"
	pktNats "mondichat-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	watchNatsURL string
	watchType    string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow snapshot and route events published on NATS",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchNatsURL, "nats", "", "NATS URL (defaults to NATS_URL)")
	watchCmd.Flags().StringVar(&watchType, "type", "", "only show one event type, e.g. SNAPSHOT_REPLACED")
}

func runWatch(cmd *cobra.Command, args []string) error {
	url := watchNatsURL
	if url == "" {
		url = cfg.App.NatsURL
	}
	if url == "" {
		return fail("no NATS URL: pass --nats or set NATS_URL")
	}

	sub, err := pktNats.NewSubscriber(url)
	if err != nil {
		return err
	}
	defer sub.Close()

	color.Cyan("Watching %s (Ctrl+C to stop)", url)
	out := cmd.OutOrStdout()
	return sub.Subscribe(cmd.Context(), strings.ToUpper(watchType), "", func(ctx context.Context, e events.Event) error {
		fmt.Fprintln(out, formatEvent(e))
		return nil
	})
}

var eventColors = map[string]*color.Color{
	events.TypeSnapshotReplaced: color.New(color.FgGreen, color.Bold),
	events.TypeRouteAssigned:    color.New(color.FgBlue, color.Bold),
}

// formatEvent prints the payload keys in a stable order.
func formatEvent(e events.Event) string {
	name := e.EventType()
	if c, ok := eventColors[name]; ok {
		name = c.Sprint(name)
	}

	payload := e.Payload()
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, payload[k]))
	}
	return fmt.Sprintf("%s %s %s", e.Timestamp().Local().Format(time.DateTime), name, strings.Join(parts, " "))
}
