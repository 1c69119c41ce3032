package sender

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidMessage is returned before any network call for messages the
// Cloud API would reject.
var ErrInvalidMessage = errors.New("sender: invalid message")

// APIError is the Graph API error object.
type APIError struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	ErrCode   int    `json:"code"`
	FBTraceID string `json:"fbtrace_id"`
	HTTP      int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whatsapp api: status=%d code=%d type=%s: %s", e.HTTP, e.ErrCode, e.Type, e.Message)
}

// Code is a stable identifier for logs.
func (e *APIError) Code() string {
	if e.ErrCode != 0 {
		return "WA_" + strconv.Itoa(e.ErrCode)
	}
	if e.HTTP >= 500 {
		return "WA_HTTP_5XX"
	}
	return "WA_HTTP_4XX"
}

// HTTPStatus returns the transport status code.
func (e *APIError) HTTPStatus() int { return e.HTTP }
