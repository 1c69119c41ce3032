package conversation

// Flow failures. Each one ends the current message with the generic
// failure reply.
var (
	ErrNoCategories    error = &flowError{code: "NO_CATEGORIES", msg: "conversation: no categories available"}
	ErrNoServices      error = &flowError{code: "NO_SERVICES", msg: "conversation: no services available"}
	ErrNoHours         error = &flowError{code: "NO_HOURS", msg: "conversation: no hours available"}
	ErrNoProfessionals error = &flowError{code: "NO_PROFESSIONALS", msg: "conversation: no professionals available"}
	ErrIncomplete      error = &flowError{code: "INCOMPLETE_SELECTION", msg: "conversation: missing selections for confirmation"}
)

type flowError struct {
	code string
	msg  string
}

func (e *flowError) Error() string { return e.msg }

// Code is a stable identifier for logs.
func (e *flowError) Code() string { return e.code }

// notifiedError marks an error whose failure reply was already sent.
type notifiedError struct {
	err error
}

func (e *notifiedError) Error() string { return e.err.Error() }
func (e *notifiedError) Unwrap() error { return e.err }
