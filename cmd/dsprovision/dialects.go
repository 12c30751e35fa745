// cmd/dsprovision/dialects.go
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chmenegatti/dsprovision/pkg/dialects"
)

var showRegistered bool

var dialectsCmd = &cobra.Command{
	Use:   "dialects",
	Short: "List the dialect catalog",
	Long:  `Prints every known dialect in catalog order together with the driver this binary can load for it.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tID\tPREFIXES\tLOADABLE DRIVER")
		for _, d := range dialects.Catalog() {
			if d.IsUnknown() {
				continue
			}
			driver, ok := dialects.FirstLoadable(dialects.SplitCandidates(d.DriverClassName()))
			if !ok {
				driver = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Name(), d.ID(), strings.Join(d.URLPrefixes(), ","), driver)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		if showRegistered {
			fmt.Fprintln(cmd.OutOrStdout(), "\nRegistered drivers:")
			for _, id := range dialects.RegisteredDrivers() {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", id)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dialectsCmd)
	dialectsCmd.Flags().BoolVarP(&showRegistered, "registered", "r", false, "Also list every registered driver identifier")
}
