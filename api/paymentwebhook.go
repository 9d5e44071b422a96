package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/growix/seminar-registration/payments"
	"github.com/growix/seminar-registration/registration"
)

// stripePaymentWebhookMiddleware intercepts the stripe callback before the
// rest of the chain; the payload is authenticated by its signature, so it
// must skip the openapi validator and the auth handling the other routes get.
//
// Response codes matter here: stripe retries anything that is not a 2xx.
// Benign deliveries we cannot act on (event kinds we ignore, sessions missing
// our metadata) are acked with a 200 so they are not redelivered forever;
// only a failed ledger write gets a 500 to ask for a retry.
func (a *API) stripePaymentWebhookMiddleware(path string) middlewareFunc {
	server := http.NewServeMux()

	server.HandleFunc("POST "+path, func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		logger := a.getLoggerOrBaseLogger(ctx)

		r.Body = http.MaxBytesReader(w, r.Body, 65536)
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			logger.Error("Failed to read stripe webhook body", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		reg, created, err := registration.ConfirmPayment(ctx, payload, r.Header.Get("Stripe-Signature"), a.db, a.checkoutManager)
		if err != nil {
			a.respondWebhookError(w, logger, err)
			return
		}

		if !created {
			logger.Info("Webhook redelivered for an already stored registration",
				slog.String("seminarId", reg.SeminarID.String()),
				slog.String("email", reg.Email),
			)
			w.WriteHeader(http.StatusOK)
			return
		}

		seminar, err := a.db.GetSeminar(ctx, reg.SeminarID)
		if err != nil {
			logger.Error("Failed to get seminar to send emails with", slog.String("error", err.Error()))

			// The registration is stored; a 500 here would only make stripe
			// redeliver and trip the duplicate path.
			w.WriteHeader(http.StatusOK)
			return
		}

		a.sendRegistrationEmails(ctx, reg, seminar)

		w.WriteHeader(http.StatusOK)
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handler, matchedPath := server.Handler(r)

			if matchedPath == "" {
				next.ServeHTTP(w, r)
				return
			}

			handler.ServeHTTP(w, r)
		})
	}
}

func (a *API) respondWebhookError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var paymentErr *payments.Error
	if errors.As(err, &paymentErr) {
		switch paymentErr.Reason {
		case payments.ErrorReasonInvalidSignature:
			logger.Warn("Stripe webhook with invalid signature", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusBadRequest)
			return
		case payments.ErrorReasonNotCheckoutCompletedEvent:
			logger.Info("Ignoring stripe event we do not act on", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusOK)
			return
		case payments.ErrorReasonMalformedEvent:
			logger.Error("Stripe event did not decode", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusOK)
			return
		}
	}

	var registrationErr *registration.Error
	if errors.As(err, &registrationErr) {
		switch registrationErr.Reason {
		case registration.REASON_PAYMENT_MISSING_METADATA, registration.REASON_INVALID_PAYMENT_METADATA:
			// Not ours or corrupted beyond repair; a retry would not help.
			logger.Error("Checkout session metadata is unusable", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusOK)
			return
		}
	}

	logger.Error("Failed to confirm registration payment", slog.String("error", err.Error()))
	w.WriteHeader(http.StatusInternalServerError)
}
