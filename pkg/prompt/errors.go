package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrTooManyAttempts is returned when the submission is still invalid
	// after the configured number of attempts.
	ErrTooManyAttempts = errors.New("prompt: too many invalid attempts")
)
