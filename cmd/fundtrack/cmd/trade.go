package cmd

import (
	"fmt"
	"time"

	"fundtrack/internal/domain"
	"fundtrack/internal/service"
	"fundtrack/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Record and manage trades",
}

var tradeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a buy or sell; settlement dates are fixed at creation",
	Args:  cobra.NoArgs,
	RunE:  runTradeAdd,
}

var tradeCancelCmd = &cobra.Command{
	Use:   "cancel <trade-id>",
	Short: "Cancel a pending trade (terminal)",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeCancel,
}

var tradeConfirmCmd = &cobra.Command{
	Use:   "confirm <trade-id>",
	Short: "Manually confirm a pending trade with operator-supplied shares and nav",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeConfirm,
}

var (
	tradeFund   string
	tradeType   string
	tradeAmount string
	tradeDate   string
	tradeShares string
	tradeNav    string
)

func init() {
	rootCmd.AddCommand(tradeCmd)
	tradeCmd.AddCommand(tradeAddCmd)
	tradeCmd.AddCommand(tradeCancelCmd)
	tradeCmd.AddCommand(tradeConfirmCmd)

	tradeAddCmd.Flags().StringVar(&tradeFund, "fund", "", "fund code")
	tradeAddCmd.Flags().StringVar(&tradeType, "type", "buy", "buy or sell")
	tradeAddCmd.Flags().StringVar(&tradeAmount, "amount", "", "trade amount")
	tradeAddCmd.Flags().StringVar(&tradeDate, "date", "", "trade date YYYY-MM-DD (default today)")
	tradeAddCmd.MarkFlagRequired("fund")
	tradeAddCmd.MarkFlagRequired("amount")

	tradeConfirmCmd.Flags().StringVar(&tradeShares, "shares", "", "confirmed shares")
	tradeConfirmCmd.Flags().StringVar(&tradeNav, "nav", "", "confirmation nav")
	tradeConfirmCmd.MarkFlagRequired("shares")
	tradeConfirmCmd.MarkFlagRequired("nav")
}

func runTradeAdd(cmd *cobra.Command, args []string) error {
	h, err := initializeDependencies()
	if err != nil {
		return err
	}
	defer h.close()

	amount, err := decimal.NewFromString(tradeAmount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", tradeAmount, err)
	}

	day := util.Truncate(time.Now().UTC())
	if tradeDate != "" {
		day, err = util.ParseDate(tradeDate)
		if err != nil {
			return err
		}
	}

	t, err := h.TradingService.CreateTrade(service.CreateTradeInput{
		FundCode:  tradeFund,
		Type:      domain.TradeType(tradeType),
		Amount:    amount,
		TradeDate: day,
	})
	if err != nil {
		return err
	}

	fmt.Printf("trade %s recorded: %s %s %s on %s, prices %s, confirms %s\n",
		t.ID, t.Type, t.Amount.StringFixed(2), t.FundCode,
		util.FormatDate(t.TradeDate), util.FormatDate(t.PricingDate), util.FormatDate(t.ConfirmDate))

	return nil
}

func runTradeCancel(cmd *cobra.Command, args []string) error {
	h, err := initializeDependencies()
	if err != nil {
		return err
	}
	defer h.close()

	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid trade id %q: %w", args[0], err)
	}

	if err := h.TradingService.Cancel(id); err != nil {
		return err
	}

	fmt.Printf("trade %s cancelled\n", id)
	return nil
}

func runTradeConfirm(cmd *cobra.Command, args []string) error {
	h, err := initializeDependencies()
	if err != nil {
		return err
	}
	defer h.close()

	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid trade id %q: %w", args[0], err)
	}
	shares, err := decimal.NewFromString(tradeShares)
	if err != nil {
		return fmt.Errorf("invalid shares %q: %w", tradeShares, err)
	}
	nav, err := decimal.NewFromString(tradeNav)
	if err != nil {
		return fmt.Errorf("invalid nav %q: %w", tradeNav, err)
	}

	if err := h.TradingService.ManualConfirm(id, shares, nav); err != nil {
		return err
	}

	fmt.Printf("trade %s confirmed manually\n", id)
	return nil
}
