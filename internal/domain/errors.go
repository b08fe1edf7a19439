package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrUnknownProfile  = errors.New("unknown cycle profile")
	ErrBudgetExhausted = errors.New("daily request budget exhausted")
	ErrCaptureDisabled = errors.New("data capture is disabled")
	ErrContextDone     = errors.New("context cancelled")
)
