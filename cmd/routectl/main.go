// Command routectl is the operator CLI: it previews and uploads route
// sheets, assigns routes, follows snapshot events and reads the service logs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mondichat-be/internal/config"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cfg       *config.Config
	serverURL string
	noColor   bool
)

var rootCmd = &cobra.Command{
	Use:           "routectl",
	Short:         "Operate the route inventory assistant",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	cfg = config.Load()

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:"+cfg.App.Port, "assistant API base URL")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		classifyCmd,
		uploadCmd,
		assignCmd,
		askCmd,
		tokenCmd,
		watchCmd,
		logsCmd,
		doctorCmd,
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func fail(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
