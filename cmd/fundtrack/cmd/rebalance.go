package cmd

import (
	"context"
	"fmt"
	"time"

	"fundtrack/internal/util"

	"github.com/spf13/cobra"
)

var rebalanceCmd = &cobra.Command{
	Use:   "rebalance",
	Short: "Compare the confirmed portfolio against target allocation",
	Args:  cobra.NoArgs,
	RunE:  runRebalance,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show per-class value and weight versus target",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var rebalanceDate string

func init() {
	rootCmd.AddCommand(rebalanceCmd)
	rootCmd.AddCommand(statusCmd)
	rebalanceCmd.Flags().StringVar(&rebalanceDate, "date", "", "reference date YYYY-MM-DD (default previous trading day)")
	statusCmd.Flags().StringVar(&rebalanceDate, "date", "", "reference date YYYY-MM-DD (default previous trading day)")
}

func parseAsOf() (*time.Time, error) {
	if rebalanceDate == "" {
		return nil, nil
	}
	day, err := util.ParseDate(rebalanceDate)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func runRebalance(cmd *cobra.Command, args []string) error {
	h, err := initializeDependencies()
	if err != nil {
		return err
	}
	defer h.close()

	asOf, err := parseAsOf()
	if err != nil {
		return err
	}

	result, err := h.Rebalancer.Rebalance(context.Background(), asOf)
	if err != nil {
		return err
	}

	if result.NoMarketData {
		fmt.Printf("rebalance as of %s: %s\n", util.FormatDate(result.AsOf), result.Note)
		return nil
	}

	fmt.Printf("rebalance as of %s (total %s)\n", util.FormatDate(result.AsOf), result.TotalValue.StringFixed(2))
	for _, a := range result.Advices {
		fmt.Printf("  %-12s %-4s current %s target %s diff %s",
			a.AssetClass, a.Action,
			a.CurrentWeight.StringFixed(4), a.TargetWeight.StringFixed(4), a.WeightDiff.StringFixed(4))
		if a.Amount.IsPositive() {
			fmt.Printf(" amount %s", a.Amount.StringFixed(2))
		}
		fmt.Println()
		for _, s := range result.FundSuggestions[a.AssetClass] {
			fmt.Printf("    %s %s %s (holding %s)\n", s.Action, s.FundCode, s.Amount.StringFixed(2), s.CurrentValue.StringFixed(2))
		}
	}
	for fundCode, quality := range result.NavQuality {
		fmt.Printf("  nav %s: %s\n", fundCode, quality)
	}
	for _, fundCode := range result.SkippedFunds {
		fmt.Printf("  skipped %s: nav missing\n", fundCode)
	}

	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	h, err := initializeDependencies()
	if err != nil {
		return err
	}
	defer h.close()

	asOf, err := parseAsOf()
	if err != nil {
		return err
	}

	status, err := h.Rebalancer.Status(context.Background(), asOf)
	if err != nil {
		return err
	}

	fmt.Printf("portfolio as of %s (total %s)\n", util.FormatDate(status.AsOf), status.TotalValue.StringFixed(2))
	for assetClass, value := range status.ClassValue {
		weight := status.ClassWeight[assetClass]
		target := status.TargetWeight[assetClass]
		fmt.Printf("  %-12s value %s weight %s target %s\n",
			assetClass, value.StringFixed(2), weight.StringFixed(4), target.StringFixed(4))
	}
	for _, fundCode := range status.SkippedFunds {
		fmt.Printf("  skipped %s: nav missing\n", fundCode)
	}

	return nil
}
