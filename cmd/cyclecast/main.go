package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/cyclecast/internal/cli"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cyclecast",
		Short: "Cycle tracking with next-period and fertility predictions",
		Long: `cyclecast stores logged period entries and derives cycle statistics,
next-period predictions and fertility estimates from them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "path to cyclecast.yaml (defaults to ./cyclecast.yaml when present)")

	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.UserCmd())
	rootCmd.AddCommand(cli.PredictCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
