package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexanderramin/glazingpm/internal/cli/formatter"
	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/spf13/cobra"
)

func newVendorsCmd(app *App) *cobra.Command {
	var (
		material string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "vendors",
		Short: "List qualified vendors",
		RunE: func(cmd *cobra.Command, args []string) error {
			vendors := app.Catalog.Vendors()
			if material != "" {
				m := domain.MaterialCategory(strings.ToUpper(material))
				if !m.Valid() {
					return fmt.Errorf("unknown material category %q", material)
				}
				vendors = app.Catalog.VendorsFor(m)
			}
			if asJSON {
				return printJSON(cmd, vendors)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatVendors(vendors))
			return nil
		},
	}

	cmd.Flags().StringVar(&material, "material", "", "Only vendors for this material category, ranked (e.g. GLASS_FIRE_RATED)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func newCostCodesCmd(app *App) *cobra.Command {
	var (
		category string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "cost-codes",
		Short: "List internal budget cost codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			codes := app.Catalog.CostCodes()
			if category != "" {
				cc := domain.CostCategory(strings.ToUpper(category))
				if !cc.Valid() {
					return fmt.Errorf("unknown cost category %q", category)
				}
				filtered := codes[:0]
				for _, c := range codes {
					if c.Category == cc {
						filtered = append(filtered, c)
					}
				}
				codes = filtered
			}
			if asJSON {
				return printJSON(cmd, codes)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCostCodes(codes))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only codes in this cost category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func newScopesCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scopes",
		Short: "List glazing scope categories and their defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			scopes := app.Catalog.Scopes()
			if asJSON {
				return printJSON(cmd, scopes)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatScopes(scopes))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
