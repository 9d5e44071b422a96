package registration

import "fmt"

type ErrorReason string

const (
	REASON_FAILED_TO_TRANSLATE_TO_DB_MODEL   ErrorReason = "FAILED_TO_TRANSLATE_TO_DB_MODEL"
	REASON_FAILED_TO_WRITE                   ErrorReason = "FAILED_TO_WRITE"
	REASON_REGISTRATION_DOES_NOT_EXIST       ErrorReason = "REGISTRATION_DOES_NOT_EXIST"
	REASON_ALREADY_REGISTERED                ErrorReason = "ALREADY_REGISTERED"
	REASON_FAILED_TO_FETCH                   ErrorReason = "FAILED_TO_FETCH"
	REASON_INVALID_CURSOR                    ErrorReason = "INVALID_CURSOR"
	REASON_ASSOCIATED_SEMINAR_DOES_NOT_EXIST ErrorReason = "ASSOCIATED_SEMINAR_DOES_NOT_EXIST"
	REASON_SEMINAR_NOT_REGISTRABLE           ErrorReason = "SEMINAR_NOT_REGISTRABLE"
	REASON_INVALID_NAME                      ErrorReason = "INVALID_NAME"
	REASON_PAYMENT_UNAVAILABLE               ErrorReason = "PAYMENT_UNAVAILABLE"
	REASON_PAYMENT_MISSING_METADATA          ErrorReason = "PAYMENT_MISSING_METADATA"
	REASON_INVALID_PAYMENT_METADATA          ErrorReason = "INVALID_PAYMENT_METADATA"
	REASON_TIMEOUT                           ErrorReason = "TIMEOUT"
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

func newRegistrationError(reason ErrorReason, message string, cause error) *Error {
	return &Error{
		Reason:  reason,
		Message: message,
		Cause:   cause,
	}
}

func NewFailedToWriteError(message string, cause error) *Error {
	return newRegistrationError(REASON_FAILED_TO_WRITE, message, cause)
}

func NewFailedToTranslateToDBModelError(message string, cause error) *Error {
	return newRegistrationError(REASON_FAILED_TO_TRANSLATE_TO_DB_MODEL, message, cause)
}

func NewAlreadyRegisteredError(message string, cause error) *Error {
	return newRegistrationError(REASON_ALREADY_REGISTERED, message, cause)
}

func NewRegistrationDoesNotExistError(message string, cause error) *Error {
	return newRegistrationError(REASON_REGISTRATION_DOES_NOT_EXIST, message, cause)
}

func NewFailedToFetchError(message string, cause error) *Error {
	return newRegistrationError(REASON_FAILED_TO_FETCH, message, cause)
}

func NewInvalidCursorError(message string, cause error) *Error {
	return newRegistrationError(REASON_INVALID_CURSOR, message, cause)
}

func NewAssociatedSeminarDoesNotExistError(message string, cause error) *Error {
	return newRegistrationError(REASON_ASSOCIATED_SEMINAR_DOES_NOT_EXIST, message, cause)
}

func NewSeminarNotRegistrableError(message string) *Error {
	return newRegistrationError(REASON_SEMINAR_NOT_REGISTRABLE, message, nil)
}

func NewInvalidNameError(message string) *Error {
	return newRegistrationError(REASON_INVALID_NAME, message, nil)
}

func NewPaymentUnavailableError(message string, cause error) *Error {
	return newRegistrationError(REASON_PAYMENT_UNAVAILABLE, message, cause)
}

func NewPaymentMissingMetadataError(message string) *Error {
	return newRegistrationError(REASON_PAYMENT_MISSING_METADATA, message, nil)
}

func NewInvalidPaymentMetadataError(message string, cause error) *Error {
	return newRegistrationError(REASON_INVALID_PAYMENT_METADATA, message, cause)
}

func NewTimeoutError(message string) *Error {
	return newRegistrationError(REASON_TIMEOUT, message, nil)
}
