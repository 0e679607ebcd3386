package commands

import (
	"fmt"

	"github.com/jmoiron/sqlx/types"
	"github.com/spf13/cobra"

	"brandintel-backend-go/cmd/brandctl/output"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <brand-id>",
	Short: "Show a brand's latest website snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := newClient().LatestSnapshot(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(snap)
		}
		output.Section(snap.PageURL)
		output.Info("Captured %s", formatTime(snap.CapturedAt))
		fmt.Println(output.Table([]string{"Section", "Value"}, [][]string{
			{"visual_identity", blob(snap.VisualIdentity)},
			{"typography", blob(snap.Typography)},
			{"messaging", blob(snap.Messaging)},
			{"navigation", blob(snap.Navigation)},
			{"screenshots", blob(snap.Screenshots)},
			{"stats", blob(snap.Stats)},
		}))
		return nil
	},
}

func blob(v types.JSONText) string {
	if len(v) == 0 {
		return "{}"
	}
	return truncate(v.String(), 72)
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}
