package model

import "errors"

// Common errors used across the application
var (
	// Profile errors
	ErrDuplicateID       = errors.New("profile id already exists")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrValidation        = errors.New("invalid input")
	ErrInsufficientCoins = errors.New("insufficient coin balance")

	// Session errors
	ErrNoSession = errors.New("no active session")

	// Persistence errors
	ErrCorruptData = errors.New("persisted profile data is corrupt")
)
