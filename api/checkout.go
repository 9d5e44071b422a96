package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/growix/seminar-registration/registration"
	"github.com/growix/seminar-registration/seminars"
)

const (
	captchaTokenHeader = "Cf-Turnstile-Response"
	captchaHostname    = "www.growix.lt"
)

type CheckoutRequestBody struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type CheckoutResponse struct {
	Free         bool          `json:"free"`
	RedirectUrl  *string       `json:"redirectUrl,omitempty"`
	Registration *Registration `json:"registration,omitempty"`
}

type Registration struct {
	SeminarId        uuid.UUID `json:"seminarId"`
	Email            string    `json:"email"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	RegisteredAt     time.Time `json:"registeredAt"`
	Paid             bool      `json:"paid"`
	AmountCents      int64     `json:"amountCents"`
	PlatformFeeCents int64     `json:"platformFeeCents"`
	Currency         string    `json:"currency"`
}

func registrationToApiRegistration(reg registration.Registration) Registration {
	return Registration{
		SeminarId:        reg.SeminarID,
		Email:            reg.Email,
		FirstName:        reg.FirstName,
		LastName:         reg.LastName,
		RegisteredAt:     reg.RegisteredAt,
		Paid:             reg.IsPaid(),
		AmountCents:      reg.Amount.Amount(),
		PlatformFeeCents: reg.PlatformFee.Amount(),
		Currency:         reg.Amount.Currency().Code,
	}
}

func (a *API) postSeminarCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := a.getLoggerOrBaseLogger(ctx)

	authToken, err := a.authenticate(r)
	if err != nil {
		logger.Warn("Unauthenticated checkout attempt", slog.String("error", err.Error()))
		a.respondError(w, http.StatusUnauthorized, AuthError, "You must be logged in to register")
		return
	}
	ctx = ctxWithAuthToken(ctx, authToken)

	if err := a.validateCaptcha(r); err != nil {
		logger.Warn("Captcha validation failed", slog.String("error", err.Error()))
		a.respondError(w, http.StatusBadRequest, CaptchaInvalid, "Captcha validation failed")
		return
	}

	seminarId, err := uuid.Parse(r.PathValue("seminarId"))
	if err != nil {
		a.respondError(w, http.StatusBadRequest, InvalidBody, "Seminar ID must be a UUID")
		return
	}

	var body CheckoutRequestBody
	err = json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		logger.Warn("Invalid body for checkout", slog.String("error", err.Error()))
		a.respondError(w, http.StatusBadRequest, EmptyBody, "Must specify a body with firstName and lastName")
		return
	}

	result, err := registration.StartCheckout(ctx, registration.CheckoutRequest{
		SeminarID: seminarId,
		Email:     authToken.UserEmail(),
		FirstName: body.FirstName,
		LastName:  body.LastName,
	}, a.db, a.db, a.checkoutManager, registration.CheckoutURLs{
		Success: fmt.Sprintf("%s/register/%s/success?session_id={CHECKOUT_SESSION_ID}", a.appBaseURL(), seminarId),
		Cancel:  fmt.Sprintf("%s/register/%s", a.appBaseURL(), seminarId),
	})
	if err != nil {
		a.respondCheckoutError(w, logger, err)
		return
	}

	if result.Free {
		if result.Created {
			a.sendRegistrationEmails(ctx, result.Registration, result.Seminar)
		}

		reg := registrationToApiRegistration(result.Registration)
		a.respondJSON(w, http.StatusOK, CheckoutResponse{
			Free:         true,
			Registration: &reg,
		})
		return
	}

	a.respondJSON(w, http.StatusOK, CheckoutResponse{
		Free:        false,
		RedirectUrl: &result.RedirectURL,
	})
}

func (a *API) respondCheckoutError(w http.ResponseWriter, logger *slog.Logger, err error) {
	logger.Error("Error trying to register", slog.String("error", err.Error()))

	var registrationErr *registration.Error
	if errors.As(err, &registrationErr) {
		switch registrationErr.Reason {
		case registration.REASON_INVALID_NAME:
			a.respondError(w, http.StatusBadRequest, InvalidBody, "First and last name are required")
			return
		case registration.REASON_ASSOCIATED_SEMINAR_DOES_NOT_EXIST:
			a.respondError(w, http.StatusNotFound, NotFound, "Seminar to register with was not found")
			return
		case registration.REASON_SEMINAR_NOT_REGISTRABLE:
			a.respondError(w, http.StatusBadRequest, SeminarNotRegistrable, "This seminar does not take registrations")
			return
		case registration.REASON_ALREADY_REGISTERED:
			a.respondError(w, http.StatusConflict, AlreadyExists, "You are already registered for this seminar")
			return
		case registration.REASON_PAYMENT_UNAVAILABLE:
			a.respondError(w, http.StatusServiceUnavailable, PaymentUnavailable, "Payments are temporarily unavailable, try again shortly")
			return
		}
	}

	a.respondError(w, http.StatusInternalServerError, InternalError, "Failed to register")
}

func (a *API) validateCaptcha(r *http.Request) error {
	token := r.Header.Get(captchaTokenHeader)
	if token == "" {
		return fmt.Errorf("no captcha token on request")
	}

	remoteIP := r.Header.Get("CF-Connecting-IP")
	if remoteIP == "" {
		remoteIP = r.RemoteAddr
	}

	validated, err := a.captchaValidator.Validate(r.Context(), token, remoteIP)
	if err != nil {
		return err
	}

	if a.env == PROD && validated.Hostname() != captchaHostname {
		return fmt.Errorf("captcha solved for unexpected hostname %q", validated.Hostname())
	}

	return nil
}

// sendRegistrationEmails is best-effort: the registration is already durable,
// so a mail failure is logged and the request still succeeds.
func (a *API) sendRegistrationEmails(ctx context.Context, reg registration.Registration, seminar seminars.Seminar) {
	logger := a.getLoggerOrBaseLogger(ctx)

	err := registration.SendRegistrationConfirmationEmail(ctx, a.emailSender, fromAddress, reg, seminar)
	if err != nil {
		logger.Error("failed to send confirmation email to registrant",
			slog.String("error", err.Error()),
			slog.String("email", reg.Email),
		)
	}

	err = registration.SendOrganizerNotificationEmail(ctx, a.emailSender, fromAddress, reg, seminar)
	if err != nil {
		logger.Error("failed to send notification email to organizer",
			slog.String("error", err.Error()),
			slog.String("email", seminar.OrganizerEmail),
		)
	}
}
