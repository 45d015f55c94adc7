package service

import (
	"errors"
	"fmt"

	"renthub-backend/internal/repository"
)

var (
	ErrRentalNotFound     = errors.New("rental not found")
	ErrPropertyNotFound   = errors.New("property not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrWithdrawalNotFound = errors.New("withdrawal not found")
	ErrMessageNotFound    = errors.New("message not found")
	ErrSettingsNotFound   = errors.New("settings not found")

	ErrForbidden           = errors.New("forbidden")
	ErrAccountInactive     = errors.New("account is blocked or deleted")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInvalidInput        = errors.New("invalid input")
	ErrPropertyUnavailable = errors.New("property is not available for rent")
	ErrInsufficientBalance = errors.New("insufficient balance for withdrawal")
	ErrAlreadyProcessed    = errors.New("withdrawal already processed")
)

// invalidInput wraps ErrInvalidInput with a caller-facing reason.
func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// notFoundAs replaces repository.ErrNotFound with the domain-specific sentinel.
func notFoundAs(err, sentinel error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return sentinel
	}
	return err
}
