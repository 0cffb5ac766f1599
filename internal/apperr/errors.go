package apperr

import "errors"

// ErrItemNotFound reports that the delivery API has no published variant
// for the requested item. It is a skip signal, not a failure.
var ErrItemNotFound = errors.New("content item not found")

type InvalidPayloadError struct {
	Message string
	Err     error
}

func (e *InvalidPayloadError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *InvalidPayloadError) Unwrap() error {
	return e.Err
}

func NewInvalidPayload(msg string) *InvalidPayloadError {
	return &InvalidPayloadError{Message: msg}
}

func NewInvalidPayloadWrap(msg string, err error) *InvalidPayloadError {
	return &InvalidPayloadError{Message: msg, Err: err}
}

// TransientError marks a delivery fetch failure that is worth retrying:
// transport errors, timeouts, 5xx responses. Distinguished from
// ErrItemNotFound so callers never retry a confirmed-unpublished item.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	if e.Op != "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func NewTransient(op string, err error) *TransientError {
	return &TransientError{Op: op, Err: err}
}

// IsTransient reports whether err carries a TransientError anywhere in
// its chain.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
