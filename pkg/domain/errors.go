package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrMissingSessionID is returned when a turn request carries no session id.
var ErrMissingSessionID = errors.New("session id is required")

// ErrNotReadyForSubmission is returned when a session is submitted before review.
var ErrNotReadyForSubmission = errors.New("session has not reached the review stage")

// ErrUnauthorized is returned when a bearer credential cannot be verified.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidContext is returned when a turn context cannot be decoded.
var ErrInvalidContext = errors.New("invalid turn context")
