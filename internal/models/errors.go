package models

import "errors"

// Error constants for registration operations
var (
	ErrInvalidCEP        = errors.New("invalid CEP: expected 8 digits")
	ErrCEPLookupFailed   = errors.New("CEP lookup failed")
	ErrSessionNotFound   = errors.New("wizard session not found")
	ErrSubmitInProgress  = errors.New("submission already in progress")
	ErrUpstreamTransport = errors.New("registration endpoint unreachable")
	ErrPlanNotFound      = errors.New("plan not found")
)
