package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fundtrack",
	Short: "Track fund trades against T+N settlement rules and get rebalance guidance",
	Long: `Fundtrack records fund purchases and sales, computes their pricing and
confirmation dates from per-market trading calendars, confirms shares once
the official NAV is published (flagging delayed publications), and compares
the confirmed portfolio against a target allocation.

Calendar and NAV data are maintained by external sync jobs; fundtrack only
consumes them.`,
	SilenceUsage: true,
}

var cfgFile string

// Execute runs the root command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "fundtrack.yaml", "path to config file")
}
