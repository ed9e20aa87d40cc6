package main

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"mondichat-be/internal/dto"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	uploadLayout string
	uploadDryRun bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Replace the stored snapshot with a route sheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

var assignQuota float64

var assignCmd = &cobra.Command{
	Use:   "assign <user_id> <route_code>",
	Short: "Assign a route (and quota progress) to a user",
	Args:  cobra.ExactArgs(2),
	RunE:  runAssign,
}

var httpClient = &http.Client{Timeout: 2 * time.Minute}

func init() {
	uploadCmd.Flags().StringVar(&uploadLayout, "layout", "single", "header layout: single, category or fallback")
	uploadCmd.Flags().BoolVar(&uploadDryRun, "dry-run", false, "reconcile locally and print the summary without uploading")

	assignCmd.Flags().Float64Var(&assignQuota, "quota", 0, "quota progress percentage")
}

func runUpload(cmd *cobra.Command, args []string) error {
	path := args[0]

	// Reject malformed sheets before they reach the server.
	result, err := reconcileFile(path, uploadLayout)
	if err != nil {
		return err
	}
	printReconcileSummary(cmd, result)
	if uploadDryRun {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost,
		serverURL+"/api/snapshot/v1/upload?layout="+uploadLayout, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := httpClient.Do(req)
	if err != nil {
		return fail("upload failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		var e dto.UploadErrorResponse
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			return fail("server rejected upload: %s", e.Error)
		}
		return fail("server returned %s: %s", resp.Status, raw)
	}

	var res dto.UploadSnapshotResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return fail("unexpected response: %w", err)
	}
	color.Green("✓ Snapshot replaced: %d records, batch %s", res.Count, res.BatchId)
	return nil
}

func runAssign(cmd *cobra.Command, args []string) error {
	payload, err := json.Marshal(dto.AssignRouteRequest{RouteCode: args[1], QuotaPercentage: assignQuota})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPut,
		serverURL+"/api/snapshot/v1/routes/"+args[0], bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fail("assign failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fail("server returned %s: %s", resp.Status, raw)
	}
	color.Green("✓ Route %s assigned to %s (%.1f%%)", args[1], args[0], assignQuota)
	return nil
}
