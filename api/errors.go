package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type ErrorCode string

const (
	EmptyBody             ErrorCode = "EmptyBody"
	InvalidBody           ErrorCode = "InvalidBody"
	NotFound              ErrorCode = "NotFound"
	AlreadyExists         ErrorCode = "AlreadyExists"
	InternalError         ErrorCode = "InternalError"
	InputValidationError  ErrorCode = "InputValidationError"
	AuthError             ErrorCode = "AuthError"
	CaptchaInvalid        ErrorCode = "CaptchaInvalid"
	NotOrganizer          ErrorCode = "NotOrganizer"
	SeminarNotRegistrable ErrorCode = "SeminarNotRegistrable"
	PaymentUnavailable    ErrorCode = "PaymentUnavailable"
	LimitOutOfBounds      ErrorCode = "LimitOutOfBounds"
	InvalidCursor         ErrorCode = "InvalidCursor"
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (a *API) respondError(w http.ResponseWriter, statusCode int, code ErrorCode, message string) {
	a.respondJSON(w, statusCode, Error{Code: code, Message: message})
}

func (a *API) respondJSON(w http.ResponseWriter, statusCode int, body any) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		a.logger.Error("failed to marshal response body", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(jsonBody)
}
