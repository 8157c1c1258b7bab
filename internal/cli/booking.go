package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"hajj_backend/internal/services"
	"hajj_backend/internal/services/dto"
	"hajj_backend/internal/validator"

	"github.com/spf13/cobra"
)

var (
	setStatus            string
	setTransactionStatus string
)

var bookingCmd = &cobra.Command{
	Use:   "booking",
	Short: "Manual booking operations for staff",
}

var bookingSetStatusCmd = &cobra.Command{
	Use:   "set-status <booking-id>",
	Short: "Force a booking (and optionally its last transaction) into a status",
	Long: `Force a booking into a status, bypassing gateway reconciliation.

Used to follow up on bookings whose payment was never confirmed.

Examples:
  hajj booking set-status 42 --status cancelled --transaction-status failed
  hajj booking set-status 42 --status completed`,
	Args: cobra.ExactArgs(1),
	RunE: runBookingSetStatus,
}

func init() {
	bookingSetStatusCmd.Flags().StringVar(&setStatus, "status", "", "new booking status")
	bookingSetStatusCmd.Flags().StringVar(&setTransactionStatus, "transaction-status", "", "new status of the last transaction")
	bookingCmd.AddCommand(bookingSetStatusCmd)
}

func runBookingSetStatus(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid booking id %q", args[0])
	}

	req := &dto.UpdateBookingStatusRequest{
		BookingID: uint(id),
		Status:    setStatus,
	}
	if setTransactionStatus != "" {
		req.TransactionStatus = &setTransactionStatus
	}
	if err := validator.New().Validate(req); err != nil {
		return err
	}

	_, db, err := connect()
	if err != nil {
		return err
	}
	defer closeDB(db)

	repos := services.NewRepositories()
	bookingService := services.NewBookingService(repos.Bookings, repos.Txns)
	resp, err := bookingService.UpdateStatus(cmd.Context(), db, req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
