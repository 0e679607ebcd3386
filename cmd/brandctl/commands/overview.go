package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"brandintel-backend-go/cmd/brandctl/output"
	"brandintel-backend-go/internal/client"
)

type overview struct {
	Health  client.Health `json:"health"`
	Brands  int           `json:"brands"`
	Signals int           `json:"signals"`
}

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show API health and record totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		ctx := cmd.Context()

		health, err := c.Health(ctx)
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}
		brands, err := c.ListBrands(ctx, client.BrandQuery{Window: client.Window{Limit: 1}})
		if err != nil {
			return err
		}
		signals, err := c.ListSignals(ctx, client.SignalQuery{Window: client.Window{Limit: 1}})
		if err != nil {
			return err
		}

		result := overview{Health: health, Brands: brands.Meta.Total, Signals: signals.Meta.Total}
		if jsonOutput {
			return printJSON(result)
		}

		output.Section(health.Service)
		output.Info("API: %s", apiURL)
		fmt.Printf("Status: %s\n", output.Status(health.Status))

		names := make([]string, 0, len(health.Checks))
		for name := range health.Checks {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			check := health.Checks[name]
			if check.Message != "" {
				fmt.Printf("  %s: %s (%s)\n", name, output.Status(check.Status), check.Message)
				continue
			}
			fmt.Printf("  %s: %s\n", name, output.Status(check.Status))
		}
		fmt.Println()
		fmt.Println(output.Table([]string{"Records", "Total"}, [][]string{
			{"brands", fmt.Sprint(result.Brands)},
			{"signals", fmt.Sprint(result.Signals)},
		}))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(overviewCmd)
}
