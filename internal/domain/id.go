package domain

import "github.com/google/uuid"

// generateID creates a new interval identifier.
func generateID() string {
	return uuid.New().String()
}

// NewIntervalID returns a fresh identifier for an interval.
func NewIntervalID() string {
	return generateID()
}
