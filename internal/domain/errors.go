package domain

import "errors"

// Common domain errors.
var (
	ErrInvalidTimeInput  = errors.New("invalid time input")
	ErrInvalidMinutes    = errors.New("minutes out of range")
	ErrInvalidTheme      = errors.New("unknown theme")
	ErrUnknownPreference = errors.New("unknown preference")
	ErrNoStore           = errors.New("no preference store")
)
