package jobs

import (
	"context"
	"fmt"

	"renthub-backend/internal/logger"
)

// settleBatchSize bounds how many rentals one run repairs.
const settleBatchSize = 200

// SettleCompletedRentals credits owners for Completed or Returned rentals
// that have no settlement yet, e.g. because settlement failed after the
// status change was committed.
func (jr *JobRunner) SettleCompletedRentals() {
	jr.runWithRecovery(JobSettleCompletedRentals, func(ctx context.Context) error {
		rentals, err := jr.rentals.ListUnsettled(ctx, settleBatchSize)
		if err != nil {
			return fmt.Errorf("failed to list unsettled rentals: %w", err)
		}

		var credited, skipped, failed int
		for i := range rentals {
			rt := &rentals[i]
			ok, err := jr.services.Rental.SettleRental(ctx, rt)
			switch {
			case err != nil:
				failed++
				logger.Error("Failed to settle rental", "rentalID", rt.ID, "error", err)
			case ok:
				credited++
			default:
				skipped++
			}
		}

		logger.Info("Settlement sweep finished",
			"found", len(rentals), "credited", credited, "skipped", skipped, "failed", failed)
		if failed > 0 {
			return fmt.Errorf("%d of %d rentals failed to settle", failed, len(rentals))
		}
		return nil
	})
}
