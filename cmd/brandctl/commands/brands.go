package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"brandintel-backend-go/cmd/brandctl/output"
	"brandintel-backend-go/internal/client"
	"brandintel-backend-go/internal/models"
)

var (
	brandQuery    client.BrandQuery
	brandInclude  []string
	brandName     string
	brandLogoURL  string
	brandIndustry string
	brandMarket   string
	brandTier     string
	brandTags     []string
)

var brandsCmd = &cobra.Command{
	Use:   "brands",
	Short: "List, inspect and create brands",
}

var brandsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List brands",
	Long: `List brands, newest first.

Examples:
  brandctl brands list --search nike
  brandctl brands list --aesthetic Bold --limit 50 --offset 50`,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := newClient().ListBrands(cmd.Context(), brandQuery)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(page)
		}
		output.Found(page.Meta.Total, len(page.Data), page.Meta.Offset, "brand")
		if len(page.Data) == 0 {
			return nil
		}
		fmt.Println(output.Table(brandHeaders, brandRows(page.Data)))
		return nil
	},
}

var brandsGetCmd = &cobra.Command{
	Use:   "get <brand-id>",
	Short: "Show one brand, optionally with recent content and signals",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		detail, err := newClient().GetBrand(cmd.Context(), args[0], brandInclude...)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(detail)
		}
		output.Section(detail.Name)
		fmt.Println(output.Table(brandHeaders, brandRows([]models.Brand{detail.Brand})))
		if len(detail.Content) > 0 {
			output.Section("Recent content")
			fmt.Println(output.Table(contentHeaders, contentRows(detail.Content)))
		}
		if len(detail.Signals) > 0 {
			output.Section("Recent signals")
			fmt.Println(output.Table(signalHeaders, signalRows(detail.Signals)))
		}
		return nil
	},
}

var brandsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a brand",
	RunE: func(cmd *cobra.Command, args []string) error {
		brand, err := newClient().CreateBrand(cmd.Context(), client.NewBrand{
			Name:      brandName,
			LogoURL:   optionalFlag(cmd, "logo-url", brandLogoURL),
			Industry:  optionalFlag(cmd, "industry", brandIndustry),
			Market:    optionalFlag(cmd, "market", brandMarket),
			Tier:      optionalFlag(cmd, "tier", brandTier),
			Aesthetic: brandTags,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(brand)
		}
		output.Success("Created brand %s (%s)", brand.Name, brand.ID)
		return nil
	},
}

var brandHeaders = []string{"ID", "Name", "Industry", "Market", "Tier", "Aesthetic", "Created"}

func brandRows(brands []models.Brand) [][]string {
	rows := make([][]string, 0, len(brands))
	for _, b := range brands {
		rows = append(rows, []string{
			b.ID,
			b.Name,
			output.Optional(b.Industry),
			output.Optional(b.Market),
			output.Optional(b.Tier),
			strings.Join(b.Aesthetic, ", "),
			formatTime(b.CreatedAt),
		})
	}
	return rows
}

func init() {
	rootCmd.AddCommand(brandsCmd)
	brandsCmd.AddCommand(brandsListCmd, brandsGetCmd, brandsCreateCmd)

	f := brandsListCmd.Flags()
	f.StringSliceVar(&brandQuery.IDs, "ids", nil, "Only these brand ids")
	f.StringVar(&brandQuery.Search, "search", "", "Case-insensitive name search")
	f.StringVar(&brandQuery.Industry, "industry", "", "Filter by industry")
	f.StringVar(&brandQuery.Market, "market", "", "Filter by market")
	f.StringVar(&brandQuery.Tier, "tier", "", "Filter by tier")
	f.StringVar(&brandQuery.Aesthetic, "aesthetic", "", "Filter by aesthetic tag")
	f.IntVar(&brandQuery.Limit, "limit", 0, "Page size (server default 20)")
	f.IntVar(&brandQuery.Offset, "offset", 0, "Page offset")

	brandsGetCmd.Flags().StringSliceVar(&brandInclude, "include", nil, "Related records to embed: content, signals")

	f = brandsCreateCmd.Flags()
	f.StringVar(&brandName, "name", "", "Brand name (required)")
	f.StringVar(&brandLogoURL, "logo-url", "", "Logo URL")
	f.StringVar(&brandIndustry, "industry", "", "Industry")
	f.StringVar(&brandMarket, "market", "", "Market")
	f.StringVar(&brandTier, "tier", "", "Tier")
	f.StringSliceVar(&brandTags, "aesthetic", nil, "Aesthetic tags")
	_ = brandsCreateCmd.MarkFlagRequired("name")
}
