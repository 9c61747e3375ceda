package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/templui/fittrack/cmd/fitctl/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "fitctl",
		Short:        "Operator tools for FitTrack",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.UserCmd())
	rootCmd.AddCommand(cmd.SeedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
