package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/utils"
)

// mailClient is the subset of the SendGrid client used here.
type mailClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type emailService struct {
	client    mailClient
	fromEmail string
	fromName  string
}

// NewEmailService returns a SendGrid-backed EmailService, or one that only
// logs when apiKey is empty.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	if apiKey == "" {
		logger.Warn("SendGrid API key not configured, emails will be logged only")
		return &logOnlyEmailService{}
	}
	return newEmailServiceWithClient(sendgrid.NewSendClient(apiKey), fromEmail, fromName)
}

func newEmailServiceWithClient(client mailClient, fromEmail, fromName string) *emailService {
	return &emailService{client: client, fromEmail: fromEmail, fromName: fromName}
}

func (s *emailService) send(ctx context.Context, to, toName, subject, body string) error {
	if to == "" {
		return fmt.Errorf("no recipient for %q", subject)
	}
	logger.ExternalServiceCall("sendgrid", "send", "subject", subject)

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	response, err := s.client.SendWithContext(ctx, message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "send", err, "subject", subject)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func greeting(name string) string {
	if name == "" {
		return "Hello,"
	}
	return fmt.Sprintf("Hello %s,", name)
}

func (s *emailService) SendEarningsCredited(ctx context.Context, email, name, propertyName string, amountCents int64) error {
	subject := fmt.Sprintf("You earned %s from %s", utils.FormatPesos(amountCents), propertyName)
	body := fmt.Sprintf("%s\n\nThe rental of %s is complete and %s has been added to your RentHub balance.\n\nThe RentHub Team",
		greeting(name), propertyName, utils.FormatPesos(amountCents))
	return s.send(ctx, email, name, subject, body)
}

func (s *emailService) SendRentalStatusUpdate(ctx context.Context, email, name, propertyName string, status domain.RentalStatus) error {
	subject := fmt.Sprintf("Rental update: %s is %s", propertyName, status)
	body := fmt.Sprintf("%s\n\nYour rental of %s is now %s.\n\nThe RentHub Team", greeting(name), propertyName, status)
	return s.send(ctx, email, name, subject, body)
}

func (s *emailService) SendOverdueNotice(ctx context.Context, email, name, propertyName string, dueDate time.Time, daysOverdue int) error {
	subject := fmt.Sprintf("Overdue rental: %s", propertyName)
	body := fmt.Sprintf("%s\n\nYour rental of %s was due on %s and is %d day(s) overdue. Please return it as soon as possible.\n\nThe RentHub Team",
		greeting(name), propertyName, dueDate.Format("January 2, 2006"), daysOverdue)
	return s.send(ctx, email, name, subject, body)
}

func (s *emailService) SendWithdrawalDecision(ctx context.Context, email, name string, w *domain.Withdrawal) error {
	subject := fmt.Sprintf("Withdrawal %s", w.Status)
	body := fmt.Sprintf("%s\n\nYour withdrawal request of %s to %s (%s) was %s.",
		greeting(name), utils.FormatPesos(w.AmountCents), w.AccountName, w.Method, w.Status)
	if w.RejectionReason != "" {
		body += fmt.Sprintf("\n\nReason: %s", w.RejectionReason)
	}
	body += "\n\nThe RentHub Team"
	return s.send(ctx, email, name, subject, body)
}

type logOnlyEmailService struct{}

func (logOnlyEmailService) SendEarningsCredited(ctx context.Context, email, name, propertyName string, amountCents int64) error {
	logger.Debug("Email skipped", "template", "earnings_credited", "property", propertyName, "amount", amountCents)
	return nil
}

func (logOnlyEmailService) SendRentalStatusUpdate(ctx context.Context, email, name, propertyName string, status domain.RentalStatus) error {
	logger.Debug("Email skipped", "template", "rental_status", "property", propertyName, "status", status)
	return nil
}

func (logOnlyEmailService) SendOverdueNotice(ctx context.Context, email, name, propertyName string, dueDate time.Time, daysOverdue int) error {
	logger.Debug("Email skipped", "template", "overdue_notice", "property", propertyName, "days", daysOverdue)
	return nil
}

func (logOnlyEmailService) SendWithdrawalDecision(ctx context.Context, email, name string, w *domain.Withdrawal) error {
	logger.Debug("Email skipped", "template", "withdrawal_decision", "withdrawalID", w.ID, "status", w.Status)
	return nil
}
