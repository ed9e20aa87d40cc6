package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"mondichat-be/internal/pkg/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	logsFile   string
	logsUpload bool
	logsLevel  string
	logsModule string
	logsLimit  int
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the newest entries of the service or upload audit log",
	Args:  cobra.NoArgs,
	RunE:  runLogs,
}

func init() {
	logsCmd.Flags().StringVar(&logsFile, "file", "", "log file (defaults to LOG_FILE_PATH)")
	logsCmd.Flags().BoolVar(&logsUpload, "uploads", false, "read the upload audit log (UPLOAD_LOG_FILE_PATH)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "only this level: DEBUG, INFO, WARN, ERROR")
	logsCmd.Flags().StringVar(&logsModule, "module", "", "only this module, e.g. QUERY or UPLOAD")
	logsCmd.Flags().IntVarP(&logsLimit, "limit", "n", 50, "number of entries")
}

var levelColors = map[string]*color.Color{
	"DEBUG": color.New(color.FgHiBlack),
	"INFO":  color.New(color.FgCyan),
	"WARN":  color.New(color.FgYellow),
	"ERROR": color.New(color.FgRed, color.Bold),
}

func runLogs(cmd *cobra.Command, args []string) error {
	path := logsFile
	if path == "" {
		path = cfg.App.LogFilePath
		if logsUpload {
			path = cfg.App.UploadLogFilePath
		}
	}

	entries, err := logger.ReadLogs(path, strings.ToUpper(logsLevel), strings.ToUpper(logsModule), logsLimit)
	if err != nil {
		return fail("failed to read %s: %w", path, err)
	}
	if len(entries) == 0 {
		color.HiBlack("no entries in %s", path)
		return nil
	}

	out := cmd.OutOrStdout()
	for _, e := range entries {
		fmt.Fprintln(out, formatLogEntry(e))
	}
	return nil
}

func formatLogEntry(e logger.LogEntry) string {
	level := fmt.Sprintf("%-5s", e.Level)
	if c, ok := levelColors[e.Level]; ok {
		level = c.Sprint(level)
	}
	line := fmt.Sprintf("%s %s [%s] %s", e.Timestamp, level, e.Module, e.Message)
	if len(e.Details) > 0 {
		if raw, err := json.Marshal(e.Details); err == nil {
			line += " " + string(raw)
		}
	}
	return line
}
