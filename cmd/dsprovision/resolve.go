// cmd/dsprovision/resolve.go
package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chmenegatti/dsprovision/pkg/dialects"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the dialect of a URL or product name",
}

var resolveURLCmd = &cobra.Command{
	Use:   "url <jdbc_url>",
	Short: "Resolve the dialect of a JDBC URL",
	Long: `Matches the URL against every dialect's prefixes, in catalog order.
Example: dsprovision resolve url jdbc:mysql://localhost:3306/nacos`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := dialects.ResolveByURL(args[0])
		if err != nil {
			return err
		}
		printDescriptor(cmd.OutOrStdout(), d)
		return nil
	},
}

var resolveProductCmd = &cobra.Command{
	Use:   "product <product_name>",
	Short: "Resolve the dialect of a database product name",
	Long: `Matches the name case-insensitively against every dialect's product name.
Example: dsprovision resolve product "SQL Server"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		printDescriptor(cmd.OutOrStdout(), dialects.ResolveByProductName(args[0]))
		return nil
	},
}

func printDescriptor(w io.Writer, d *dialects.Descriptor) {
	driver, loadable := dialects.FirstLoadable(dialects.SplitCandidates(d.DriverClassName()))
	fmt.Fprintf(w, "Dialect:          %s\n", d.Name())
	fmt.Fprintf(w, "ID:               %s\n", d.ID())
	fmt.Fprintf(w, "Product name:     %s\n", d.ProductName())
	fmt.Fprintf(w, "Driver:           %s\n", d.DriverClassName())
	fmt.Fprintf(w, "Pool driver:      %s\n", d.PoolDriverClassName())
	fmt.Fprintf(w, "Validation query: %s\n", d.ValidationQuery())
	if loadable {
		fmt.Fprintf(w, "Loadable driver:  %s\n", driver)
	} else {
		fmt.Fprintln(w, "Loadable driver:  none")
	}
}

func init() {
	resolveCmd.AddCommand(resolveURLCmd)
	resolveCmd.AddCommand(resolveProductCmd)
	rootCmd.AddCommand(resolveCmd)
}
