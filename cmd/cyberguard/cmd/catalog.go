package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/good-yellow-bee/cyberguard/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and validate threat catalogs",
}

var catalogShowCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Print a catalog as YAML (the built-in catalog when no file is given)",
	Long: `Print a catalog as YAML. Without a file the built-in catalog is
printed, which is a convenient starting point for a custom one:

  cyberguard catalog show > threats.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat := catalog.Default()
		if len(args) == 1 {
			var err error
			if cat, err = catalog.LoadFile(args[0]); err != nil {
				return err
			}
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(cat); err != nil {
			return fmt.Errorf("encode catalog: %w", err)
		}
		return enc.Close()
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a catalog file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.LoadFile(args[0])
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "File:\t%s\n", args[0])
		fmt.Fprintf(tw, "Threat templates:\t%d\n", len(cat.Threats))
		fmt.Fprintf(tw, "Threat types:\t%d\n", len(cat.ThreatTypes()))
		fmt.Fprintf(tw, "Seed alerts:\t%d\n", len(cat.SeedAlerts))
		fmt.Fprintf(tw, "Seed notifications:\t%d\n", len(cat.SeedNotifications))
		fmt.Fprintln(tw, "Status:\tvalid")
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
}
