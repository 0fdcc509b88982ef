package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Session related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Follow graph errors
	ErrSelfFollow = errors.New("cannot follow yourself")

	// Notification errors
	ErrNotificationNotFound = errors.New("notification not found")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
