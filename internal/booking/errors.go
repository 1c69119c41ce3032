package booking

import (
	"errors"
	"fmt"
)

// ErrNotFound reports an empty result where one record was expected.
var ErrNotFound = errors.New("booking: not found")

// StatusError is returned when the API answers with a non-success code,
// either in the HTTP status line or in the envelope's code field.
type StatusError struct {
	Op         string
	HTTPCode   int
	BodyCode   int
	BodySample string
}

func (e *StatusError) Error() string {
	if e.HTTPCode != 0 && (e.HTTPCode < 200 || e.HTTPCode > 299) {
		return fmt.Sprintf("booking %s: status=%d, body=%s", e.Op, e.HTTPCode, e.BodySample)
	}
	return fmt.Sprintf("booking %s: code=%d", e.Op, e.BodyCode)
}

// Code is a stable identifier for logs.
func (e *StatusError) Code() string {
	if e.HTTPCode >= 500 {
		return "BOOKING_HTTP_5XX"
	}
	if e.HTTPCode >= 400 {
		return "BOOKING_HTTP_4XX"
	}
	return "BOOKING_STATUS"
}

// HTTPStatus returns the transport status code.
func (e *StatusError) HTTPStatus() int {
	return e.HTTPCode
}
