package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"brandintel-backend-go/cmd/brandctl/output"
	"brandintel-backend-go/internal/client"
	"brandintel-backend-go/internal/models"
)

var contentQuery client.ContentQuery

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Browse scraped content",
}

var contentListCmd = &cobra.Command{
	Use:   "list <brand-id>",
	Short: "List a brand's content, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := newClient().ListBrandContent(cmd.Context(), args[0], contentQuery)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(page)
		}
		output.Found(page.Meta.Total, len(page.Data), page.Meta.Offset, "post")
		if len(page.Data) == 0 {
			return nil
		}
		fmt.Println(output.Table(contentHeaders, contentRows(page.Data)))
		return nil
	},
}

var contentHeaders = []string{"ID", "Platform", "Type", "Published", "Caption"}

func contentRows(items []models.Content) [][]string {
	rows := make([][]string, 0, len(items))
	for _, c := range items {
		rows = append(rows, []string{
			c.ID,
			c.Platform,
			output.Optional(c.ContentType),
			formatTime(c.CreatedAt),
			truncate(output.Optional(c.Caption), 48),
		})
	}
	return rows
}

func init() {
	rootCmd.AddCommand(contentCmd)
	contentCmd.AddCommand(contentListCmd)

	f := contentListCmd.Flags()
	f.StringVar(&contentQuery.Platform, "platform", "", "Filter by platform")
	f.StringVar(&contentQuery.ContentType, "content-type", "", "Filter by content type")
	f.IntVar(&contentQuery.Limit, "limit", 0, "Page size (server default 20)")
	f.IntVar(&contentQuery.Offset, "offset", 0, "Page offset")
}
