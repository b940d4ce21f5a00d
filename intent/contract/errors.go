package contract

import "errors"

var (
	ErrClassifierStatus    = errors.New("classifier returned non-success status")
	ErrClassifierTransport = errors.New("classifier transport failed")
	ErrMalformedResponse   = errors.New("classifier response is malformed")
	ErrRetriesExhausted    = errors.New("classifier retries exhausted")
	ErrMalformedTurn       = errors.New("transcript turn is malformed")
	ErrValidation          = errors.New("validation failed")
)
