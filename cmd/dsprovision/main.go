// cmd/dsprovision/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Link every connector so its driver identifiers are loadable.
	_ "github.com/chmenegatti/dsprovision/pkg/dialects/mysql"
	_ "github.com/chmenegatti/dsprovision/pkg/dialects/postgres"
	_ "github.com/chmenegatti/dsprovision/pkg/dialects/sqlite"
	_ "github.com/chmenegatti/dsprovision/pkg/dialects/sqlserver"
)

var (
	cfgFile string // Persistent flag for the config file path

	rootCmd = &cobra.Command{
		Use:   "dsprovision",
		Short: "Resolve SQL dialects and provision data source pools",
		Long: `dsprovision resolves the dialect behind a JDBC URL or a database
product name, and opens one connection pool per configured data source.`,
		SilenceUsage: true,
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: '%s'\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file (default is ./dsprovision.yaml or $HOME/.dsprovision/dsprovision.yaml)")
}

func main() {
	Execute()
}
