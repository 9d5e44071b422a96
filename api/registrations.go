package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/growix/seminar-registration/registration"
	"github.com/growix/seminar-registration/seminars"
	"github.com/growix/seminar-registration/slices"
)

type GetRegistrationsResponse struct {
	Data        []Registration `json:"data"`
	Cursor      *string        `json:"cursor,omitempty"`
	HasNextPage bool           `json:"hasNextPage"`
}

// getSeminarRegistrations lists who signed up. Only the seminar's organizer
// or an admin may see the list.
func (a *API) getSeminarRegistrations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := a.getLoggerOrBaseLogger(ctx)

	authToken, err := a.authenticate(r)
	if err != nil {
		logger.Warn("Unauthenticated registrations listing attempt", slog.String("error", err.Error()))
		a.respondError(w, http.StatusUnauthorized, AuthError, "You must be logged in")
		return
	}

	seminarId, err := uuid.Parse(r.PathValue("seminarId"))
	if err != nil {
		a.respondError(w, http.StatusBadRequest, InvalidBody, "Seminar ID must be a UUID")
		return
	}

	seminar, err := a.db.GetSeminar(ctx, seminarId)
	if err != nil {
		var seminarErr *seminars.Error
		if errors.As(err, &seminarErr) && seminarErr.Reason == seminars.REASON_SEMINAR_DOES_NOT_EXIST {
			a.respondError(w, http.StatusNotFound, NotFound, "Seminar was not found")
			return
		}

		logger.Error("Failed to fetch seminar", slog.String("error", err.Error()), slog.String("seminarId", seminarId.String()))
		a.respondError(w, http.StatusInternalServerError, InternalError, "Failed to get registrations")
		return
	}

	if seminar.OrganizerEmail != authToken.UserEmail() && !authToken.IsAdmin() {
		a.respondError(w, http.StatusForbidden, NotOrganizer, "Only the organizer can see registrations")
		return
	}

	limit := 10
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		userLimit, err := strconv.Atoi(limitParam)
		if err != nil || userLimit < 1 || userLimit > 50 {
			logger.Warn("Limit out of bounds", slog.String("limit", limitParam))
			a.respondError(w, http.StatusBadRequest, LimitOutOfBounds, "Limit must be between 1 and 50")
			return
		}
		limit = userLimit
	}

	var cursor *string
	if cursorParam := r.URL.Query().Get("cursor"); cursorParam != "" {
		cursor = &cursorParam
	}

	result, err := a.db.GetAllRegistrationsForSeminar(ctx, seminarId, int32(limit), cursor)
	if err != nil {
		logger.Error("Failed to get registrations for seminar", slog.String("error", err.Error()), slog.String("seminarId", seminarId.String()))

		var registrationErr *registration.Error
		if errors.As(err, &registrationErr) && registrationErr.Reason == registration.REASON_INVALID_CURSOR {
			a.respondError(w, http.StatusBadRequest, InvalidCursor, "Cursor is invalid")
			return
		}

		a.respondError(w, http.StatusInternalServerError, InternalError, "Failed to get registrations")
		return
	}

	a.respondJSON(w, http.StatusOK, GetRegistrationsResponse{
		Data:        slices.Map(result.Data, registrationToApiRegistration),
		Cursor:      result.Cursor,
		HasNextPage: result.HasNextPage,
	})
}
