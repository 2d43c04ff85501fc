package leads

import "errors"

var (
	// ErrMissingPhone is returned when the sender address is empty
	ErrMissingPhone = errors.New("phone is required")

	// ErrMissingMessage is returned when the message body is empty
	ErrMissingMessage = errors.New("message is required")
)
