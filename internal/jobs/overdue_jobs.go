package jobs

import (
	"context"
	"fmt"
	"time"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
)

// SendOverdueNotices messages and emails renters of overdue rentals, at most
// once per rental per day.
func (jr *JobRunner) SendOverdueNotices() {
	jr.runWithRecovery(JobSendOverdueNotices, func(ctx context.Context) error {
		now := jr.now().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

		overdue, err := jr.services.Rental.ListOverdue(ctx, now)
		if err != nil {
			return fmt.Errorf("failed to list overdue rentals: %w", err)
		}

		sent := 0
		for _, v := range overdue {
			if notifiedOn(v.Rental, today) {
				continue
			}

			text := fmt.Sprintf("Your rental of %s was due on %s and is %d day(s) overdue. Please return it as soon as possible.",
				v.PropertyName, v.OverdueStatus.DueDate.Format("Jan 2, 2006"), v.DaysOverdue)
			attrs := map[string]string{
				"type":         "RENTAL_OVERDUE",
				"rental_id":    fmt.Sprintf("%d", v.ID),
				"days_overdue": fmt.Sprintf("%d", v.DaysOverdue),
			}
			if _, err := jr.services.Message.SendSystemMessage(ctx, v.RenterID, text, attrs); err != nil {
				logger.Error("Failed to send overdue message", "rentalID", v.ID, "error", err)
			}
			if err := jr.services.Email.SendOverdueNotice(ctx, v.RenterEmail, v.RenterName, v.PropertyName, v.OverdueStatus.DueDate, v.DaysOverdue); err != nil {
				logger.Error("Failed to email overdue notice", "rentalID", v.ID, "error", err)
			}

			if err := jr.rentals.MarkOverdueNotified(ctx, v.ID, today); err != nil {
				logger.Error("Failed to record overdue notice", "rentalID", v.ID, "error", err)
				continue
			}
			sent++
		}

		logger.Info("Overdue notices sent", "overdue", len(overdue), "sent", sent)
		return nil
	})
}

func notifiedOn(rt domain.Rental, day time.Time) bool {
	if rt.OverdueNotifiedOn == nil {
		return false
	}
	y1, m1, d1 := rt.OverdueNotifiedOn.UTC().Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
