package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information - set at build time.
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "contentkit",
		Short: "Content-type schema provisioning and query tooling",
		Long: `contentkit provisions content-type schemas, compositions, folders and
seed content into a CMS host at startup, and serves a read-only API over
the resulting schema graph.`,
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(provisionCmd)
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
