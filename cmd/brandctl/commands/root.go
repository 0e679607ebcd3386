package commands

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"brandintel-backend-go/cmd/brandctl/output"
	"brandintel-backend-go/internal/client"
)

var (
	// Global flags
	apiURL     string
	jsonOutput bool
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "brandctl",
	Short: "Command line dashboard for the Brand Intelligence API",
	Long: `brandctl reads and writes brands, signals, content and website snapshots
through the Brand Intelligence HTTP API.

All filtering happens server side: omitted flags are not sent, so the API
defaults apply.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		output.Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	defaultURL := strings.TrimSpace(os.Getenv("API_URL"))
	if defaultURL == "" {
		defaultURL = client.DefaultBaseURL
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", defaultURL, "Base URL of the API (env API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
}

func newClient() *client.Client {
	return client.New(apiURL, &http.Client{Timeout: timeout})
}

func printJSON(v interface{}) error {
	return output.JSON(os.Stdout, v)
}

// parseTime accepts RFC3339 or a bare date, read as UTC.
func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q: use RFC3339 or YYYY-MM-DD", value)
}

func optionalFlag(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04")
}
