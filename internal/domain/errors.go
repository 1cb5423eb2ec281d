package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInterval   = errors.New("invalid interval: start must be before end")
	ErrNotFound          = errors.New("not found")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrParseFailure      = errors.New("parse failure")
	ErrStorage           = errors.New("storage failure")
)

// TransitionError reports an attempt to move a proposal out of a terminal
// status. It unwraps to ErrIllegalTransition so callers can match with
// errors.Is while still seeing both states in the message.
type TransitionError struct {
	Current   ProposalStatus
	Requested ProposalStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal transition from %q to %q", e.Current, e.Requested)
}

func (e *TransitionError) Unwrap() error {
	return ErrIllegalTransition
}
