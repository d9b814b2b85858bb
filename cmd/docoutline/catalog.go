package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/typography"
)

func newCatalogCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the active typography catalog as YAML",
		Long: `Print the active typography catalog as YAML.

The output is a valid --catalog file; edit the signatures to match another
document family.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.catalog()
			if err != nil {
				return err
			}
			return cat.WriteYAML(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate FILE",
		Short: "Check a catalog file and list its tiers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			cat, err := typography.LoadCatalog(f)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: ok, %d tiers\n", args[0], cat.Depth())

			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"Tier", "Role", "Font", "Size", "Casing"})
			table.SetAutoWrapText(false)
			for tier := 1; tier <= cat.Depth(); tier++ {
				role, _ := cat.RoleAt(tier)
				sig := cat.Signatures[role]
				table.Append([]string{
					strconv.Itoa(tier),
					string(role),
					sig.Font,
					strconv.FormatFloat(sig.Size, 'f', -1, 64),
					sig.Casing.String(),
				})
			}
			table.Render()
			return nil
		},
	})
	return cmd
}
