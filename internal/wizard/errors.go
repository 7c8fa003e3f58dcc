package wizard

import "errors"

var (
	ErrUnknownField         = errors.New("unknown field")
	ErrUnknownLayout        = errors.New("unknown wizard layout")
	ErrSubmissionInProgress = errors.New("submission in progress")
	ErrAlreadySubmitted     = errors.New("registration already submitted")
	ErrNotOnLastStep        = errors.New("submission is only allowed from the last step")
)
