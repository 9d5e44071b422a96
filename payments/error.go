package payments

import "fmt"

type ErrorReason string

const (
	// ErrorReasonInvalidSignature covers both a bad signing secret and a
	// payload that does not match its signature; callers must not be able to
	// tell which.
	ErrorReasonInvalidSignature ErrorReason = "INVALID_SIGNATURE"
	// ErrorReasonNotCheckoutCompletedEvent marks a verified callback of an
	// event kind we do not act on.
	ErrorReasonNotCheckoutCompletedEvent ErrorReason = "NOT_CHECKOUT_COMPLETED_EVENT"
	ErrorReasonMalformedEvent            ErrorReason = "MALFORMED_EVENT"
	ErrorReasonUnavailable               ErrorReason = "UNAVAILABLE"
)

type Error struct {
	Reason  ErrorReason
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s. Cause: %s", e.Reason, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewInvalidSignatureError(message string, cause error) *Error {
	return &Error{Reason: ErrorReasonInvalidSignature, Message: message, Cause: cause}
}

func NewNotCheckoutCompletedEventError(eventType string) *Error {
	return &Error{Reason: ErrorReasonNotCheckoutCompletedEvent, Message: fmt.Sprintf("Ignoring event of type %q", eventType)}
}

func NewMalformedEventError(message string, cause error) *Error {
	return &Error{Reason: ErrorReasonMalformedEvent, Message: message, Cause: cause}
}

func NewUnavailableError(message string, cause error) *Error {
	return &Error{Reason: ErrorReasonUnavailable, Message: message, Cause: cause}
}
