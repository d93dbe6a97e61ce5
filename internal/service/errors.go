package service

import (
	"errors"
	"fmt"
)

var (
	// ErrCurrencyInUse is returned when removing a currency that queued
	// events still spend.
	ErrCurrencyInUse = errors.New("currency in use")
	// ErrInvalidRef is returned for malformed "#n" positions.
	ErrInvalidRef = errors.New("invalid event reference")
)

func formatValidationErrors(prefix string, errs []error) error {
	msg := fmt.Sprintf("%s (%d errors):", prefix, len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
