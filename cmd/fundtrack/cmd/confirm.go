package cmd

import (
	"context"
	"fmt"
	"time"

	"fundtrack/internal/util"

	"github.com/spf13/cobra"
)

var confirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Confirm pending trades that have reached their confirm date",
	Args:  cobra.NoArgs,
	RunE:  runConfirm,
}

var confirmDate string

func init() {
	rootCmd.AddCommand(confirmCmd)
	confirmCmd.Flags().StringVar(&confirmDate, "date", "", "processing date YYYY-MM-DD (default today)")
}

func runConfirm(cmd *cobra.Command, args []string) error {
	h, err := initializeDependencies()
	if err != nil {
		return err
	}
	defer h.close()

	day := util.Truncate(time.Now().UTC())
	if confirmDate != "" {
		day, err = util.ParseDate(confirmDate)
		if err != nil {
			return err
		}
	}

	summary, err := h.Confirmation.Run(context.Background(), day)
	if err != nil {
		return err
	}

	fmt.Printf("confirmation run for %s\n", util.FormatDate(summary.ProcessingDate))
	fmt.Printf("  confirmed: %d\n", summary.Confirmed)
	fmt.Printf("  waiting:   %d\n", summary.Waiting)
	fmt.Printf("  delayed:   %d\n", summary.Delayed)
	for _, fundCode := range summary.WaitingFunds {
		fmt.Printf("  waiting on %s\n", fundCode)
	}

	return nil
}
