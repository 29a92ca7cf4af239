package domain

import "errors"

// ErrSessionNotFound is returned when an identity has no stored session.
var ErrSessionNotFound = errors.New("session not found")

// ErrAccountNotFound is returned when an identity is not in the account registry.
var ErrAccountNotFound = errors.New("account not found")

// ErrUnknownState is returned when a session points to a state the engine cannot serve.
var ErrUnknownState = errors.New("unknown state")

// Input validation errors. They never escape the engine as failures: a rejected
// input becomes a self-loop with a corrective prompt.
var (
	ErrEmptyInput      = errors.New("empty input")
	ErrInvalidNumber   = errors.New("invalid number")
	ErrInvalidSelector = errors.New("invalid selector")
	ErrInvalidEmail    = errors.New("invalid email")
)

// ErrUnknownCommand is returned for free text that does not start a flow.
var ErrUnknownCommand = errors.New("unknown command")
