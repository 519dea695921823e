package marketplace

import "github.com/cockroachdb/errors"

var (
	// ErrValidation is a local input problem; nothing was submitted.
	ErrValidation = errors.New("invalid action input")
	// ErrSubmission is a failed contract call or confirmation.
	ErrSubmission = errors.New("transaction failed")
)
