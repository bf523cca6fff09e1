package cmd

import (
	"fmt"

	"fundtrack/internal/domain"

	"github.com/spf13/cobra"
)

var fundCmd = &cobra.Command{
	Use:   "fund",
	Short: "Manage the fund registry",
}

var fundAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a fund (or update its registration)",
	Args:  cobra.NoArgs,
	RunE:  runFundAdd,
}

var fundListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered funds",
	Args:  cobra.NoArgs,
	RunE:  runFundList,
}

var (
	fundCode       string
	fundName       string
	fundMarket     string
	fundAssetClass string
)

func init() {
	rootCmd.AddCommand(fundCmd)
	fundCmd.AddCommand(fundAddCmd)
	fundCmd.AddCommand(fundListCmd)

	fundAddCmd.Flags().StringVar(&fundCode, "code", "", "fund code")
	fundAddCmd.Flags().StringVar(&fundName, "name", "", "fund name")
	fundAddCmd.Flags().StringVar(&fundMarket, "market", string(domain.MarketTypeA), "market: A or QDII")
	fundAddCmd.Flags().StringVar(&fundAssetClass, "class", "", "asset class, e.g. equity")
	fundAddCmd.MarkFlagRequired("code")
	fundAddCmd.MarkFlagRequired("name")
	fundAddCmd.MarkFlagRequired("class")
}

func runFundAdd(cmd *cobra.Command, args []string) error {
	h, err := initializeDependencies()
	if err != nil {
		return err
	}
	defer h.close()

	market := domain.MarketType(fundMarket)
	if !market.Valid() {
		return fmt.Errorf("invalid market %q", fundMarket)
	}

	f := domain.Fund{
		Code:       fundCode,
		Name:       fundName,
		Market:     market,
		AssetClass: fundAssetClass,
	}
	if err := h.FundRepository.Add(nil, f); err != nil {
		return err
	}

	fmt.Printf("fund %s registered (%s, %s)\n", f.Code, f.Market, f.AssetClass)
	return nil
}

func runFundList(cmd *cobra.Command, args []string) error {
	h, err := initializeDependencies()
	if err != nil {
		return err
	}
	defer h.close()

	funds, err := h.FundRepository.List()
	if err != nil {
		return err
	}

	for _, f := range funds {
		fmt.Printf("%-10s %-6s %-12s %s\n", f.Code, f.Market, f.AssetClass, f.Name)
	}
	return nil
}
