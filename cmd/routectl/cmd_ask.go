package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"mondichat-be/internal/dto"
	"mondichat-be/internal/pkg/serverutils"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	askUser  string
	askAudio bool
)

var askCmd = &cobra.Command{
	Use:   "ask <text...>",
	Short: "Send a question to the assistant as a user",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

var tokenCmd = &cobra.Command{
	Use:   "token <user_id>",
	Short: "Print a bearer token for a user, signed with JWT_SECRET",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := signFor(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askUser, "user", "", "user id to ask as (required)")
	askCmd.Flags().BoolVar(&askAudio, "audio", false, "treat the text as an audio transcript")
	_ = askCmd.MarkFlagRequired("user")
}

func signFor(userId string) (string, error) {
	if cfg.Keys.JwtSecret == "" {
		return "", fail("JWT_SECRET is not set")
	}
	return serverutils.SignToken(cfg.Keys.JwtSecret, userId)
}

func runAsk(cmd *cobra.Command, args []string) error {
	token, err := signFor(askUser)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(dto.QueryRequest{Text: strings.Join(args, " "), IsAudio: askAudio})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost,
		serverURL+"/api/assistant/v1/query", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := httpClient.Do(req)
	if err != nil {
		return fail("query failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fail("server returned %s: %s", resp.Status, raw)
	}

	var res dto.QueryResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return fail("unexpected response: %w", err)
	}
	color.Cyan("🤖")
	fmt.Fprintln(cmd.OutOrStdout(), res.Reply)
	return nil
}
