package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"brandintel-backend-go/cmd/brandctl/output"
	"brandintel-backend-go/internal/client"
	"brandintel-backend-go/internal/models"
)

var (
	signalQuery      client.SignalQuery
	signalSince      string
	signalBrandID    string
	signalType       string
	signalConfidence float64
	signalReason     string
	signalDetectedAt string
	signalContentIDs []string
)

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "List and record brand signals",
}

var signalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List signals, most recently detected first",
	Long: `List signals, most recently detected first.

Examples:
  brandctl signals list --type launch
  brandctl signals list --brand <brand-id> --since 2024-04-01`,
	RunE: func(cmd *cobra.Command, args []string) error {
		q := signalQuery
		if signalSince != "" {
			since, err := parseTime(signalSince)
			if err != nil {
				return err
			}
			q.Since = &since
		}
		page, err := newClient().ListSignals(cmd.Context(), q)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(page)
		}
		output.Found(page.Meta.Total, len(page.Data), page.Meta.Offset, "signal")
		if len(page.Data) == 0 {
			return nil
		}
		fmt.Println(output.Table(signalHeaders, signalRows(page.Data)))
		return nil
	},
}

var signalsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Record a signal and link it to content",
	RunE: func(cmd *cobra.Command, args []string) error {
		detectedAt := time.Now().UTC()
		if signalDetectedAt != "" {
			parsed, err := parseTime(signalDetectedAt)
			if err != nil {
				return err
			}
			detectedAt = parsed
		}
		signal, err := newClient().CreateSignal(cmd.Context(), client.NewSignal{
			BrandID:    signalBrandID,
			SignalType: signalType,
			Confidence: signalConfidence,
			Reason:     optionalFlag(cmd, "reason", signalReason),
			DetectedAt: detectedAt,
			ContentIDs: signalContentIDs,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(signal)
		}
		output.Success("Recorded %s signal %s with %d linked content", signal.SignalType, signal.ID, len(signal.ContentIDs))
		return nil
	},
}

var signalHeaders = []string{"ID", "Brand", "Type", "Confidence", "Detected", "Reason"}

func signalRows(signals []models.Signal) [][]string {
	rows := make([][]string, 0, len(signals))
	for _, s := range signals {
		rows = append(rows, []string{
			s.ID,
			s.BrandID,
			s.SignalType,
			fmt.Sprintf("%.2f", s.Confidence),
			formatTime(s.DetectedAt),
			truncate(output.Optional(s.Reason), 48),
		})
	}
	return rows
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func init() {
	rootCmd.AddCommand(signalsCmd)
	signalsCmd.AddCommand(signalsListCmd, signalsCreateCmd)

	f := signalsListCmd.Flags()
	f.StringVar(&signalQuery.SignalType, "type", "", "Filter by signal type")
	f.StringVar(&signalQuery.BrandID, "brand", "", "Filter by brand id")
	f.StringVar(&signalSince, "since", "", "Only signals detected at or after this time")
	f.IntVar(&signalQuery.Limit, "limit", 0, "Page size (server default 20)")
	f.IntVar(&signalQuery.Offset, "offset", 0, "Page offset")

	f = signalsCreateCmd.Flags()
	f.StringVar(&signalBrandID, "brand", "", "Brand id (required)")
	f.StringVar(&signalType, "type", "", "Signal type (required)")
	f.Float64Var(&signalConfidence, "confidence", 0, "Confidence between 0 and 1")
	f.StringVar(&signalReason, "reason", "", "Why the signal was raised")
	f.StringVar(&signalDetectedAt, "detected-at", "", "Detection time (default now)")
	f.StringSliceVar(&signalContentIDs, "content-ids", nil, "Content ids backing the signal")
	_ = signalsCreateCmd.MarkFlagRequired("brand")
	_ = signalsCreateCmd.MarkFlagRequired("type")
}
