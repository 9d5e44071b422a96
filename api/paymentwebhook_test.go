package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/growix/seminar-registration/payments"
	"github.com/growix/seminar-registration/registration"
	"github.com/growix/seminar-registration/seminars"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func webhookHandler(a *API) http.Handler {
	mw := a.stripePaymentWebhookMiddleware("/payments/stripe/webhook")
	return mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound) // Should not reach here
	}))
}

func newWebhookRequest(body string) *http.Request {
	req := httptest.NewRequest("POST", "/payments/stripe/webhook", strings.NewReader(body))
	req.Header.Set("Stripe-Signature", "test_signature")
	return req
}

func completedCheckoutManager(seminarId uuid.UUID) *mockCheckoutManager {
	return &mockCheckoutManager{
		ConfirmCheckoutFunc: func(ctx context.Context, payload []byte, signature string) (payments.CheckoutConfirmation, error) {
			return payments.CheckoutConfirmation{
				SessionID:       "cs_123",
				PaymentIntentID: "pi_123",
				AmountTotal:     money2200(),
				Metadata: map[string]string{
					"SEMINAR_ID": seminarId.String(),
					"EMAIL":      "dancer@example.com",
					"FIRST_NAME": "Jonas",
					"LAST_NAME":  "Petrauskas",
				},
			}, nil
		},
	}
}

func TestStripePaymentWebhookMiddleware(t *testing.T) {
	seminarId := uuid.New()

	t.Run("successful payment confirmation writes and emails", func(t *testing.T) {
		emailSender := &mockEmailSender{}
		var stored registration.Registration
		db := &mockDB{
			CreateRegistrationFunc: func(ctx context.Context, reg registration.Registration) (registration.Registration, bool, error) {
				stored = reg
				return reg, true, nil
			},
			GetSeminarFunc: func(ctx context.Context, id uuid.UUID) (seminars.Seminar, error) {
				return freeWorkshop(id), nil
			},
		}
		a := NewAPI(db, noopLogger, LOCAL, &mockAuthValidator{}, &mockCaptchaValidator{}, emailSender, completedCheckoutManager(seminarId))

		w := httptest.NewRecorder()
		webhookHandler(a).ServeHTTP(w, newWebhookRequest("test_payload"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, seminarId, stored.SeminarID)
		assert.Equal(t, "dancer@example.com", stored.Email)
		assert.Equal(t, "pi_123", stored.PaymentIntentID)
		assert.Equal(t, int64(2000), stored.Amount.Amount())
		assert.Equal(t, int64(200), stored.PlatformFee.Amount())
		assert.Len(t, emailSender.sentEmails(), 2)
	})

	t.Run("redelivered webhook acks without emailing again", func(t *testing.T) {
		emailSender := &mockEmailSender{}
		db := &mockDB{
			CreateRegistrationFunc: func(ctx context.Context, reg registration.Registration) (registration.Registration, bool, error) {
				return reg, false, nil
			},
		}
		a := NewAPI(db, noopLogger, LOCAL, &mockAuthValidator{}, &mockCaptchaValidator{}, emailSender, completedCheckoutManager(seminarId))

		w := httptest.NewRecorder()
		webhookHandler(a).ServeHTTP(w, newWebhookRequest("test_payload"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, emailSender.sentEmails())
	})

	t.Run("invalid signature", func(t *testing.T) {
		checkoutManager := &mockCheckoutManager{
			ConfirmCheckoutFunc: func(ctx context.Context, payload []byte, signature string) (payments.CheckoutConfirmation, error) {
				return payments.CheckoutConfirmation{}, payments.NewInvalidSignatureError("bad signature", nil)
			},
		}
		a := NewAPI(&mockDB{}, noopLogger, LOCAL, &mockAuthValidator{}, &mockCaptchaValidator{}, &mockEmailSender{}, checkoutManager)

		w := httptest.NewRecorder()
		webhookHandler(a).ServeHTTP(w, newWebhookRequest("test_payload"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("event kind we ignore is acked", func(t *testing.T) {
		checkoutManager := &mockCheckoutManager{
			ConfirmCheckoutFunc: func(ctx context.Context, payload []byte, signature string) (payments.CheckoutConfirmation, error) {
				return payments.CheckoutConfirmation{}, payments.NewNotCheckoutCompletedEventError("payment_intent.succeeded")
			},
		}
		a := NewAPI(&mockDB{}, noopLogger, LOCAL, &mockAuthValidator{}, &mockCaptchaValidator{}, &mockEmailSender{}, checkoutManager)

		w := httptest.NewRecorder()
		webhookHandler(a).ServeHTTP(w, newWebhookRequest("test_payload"))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("session without our metadata is acked", func(t *testing.T) {
		checkoutManager := &mockCheckoutManager{
			ConfirmCheckoutFunc: func(ctx context.Context, payload []byte, signature string) (payments.CheckoutConfirmation, error) {
				return payments.CheckoutConfirmation{
					SessionID:   "cs_123",
					AmountTotal: money2200(),
					Metadata:    map[string]string{},
				}, nil
			},
		}
		a := NewAPI(&mockDB{}, noopLogger, LOCAL, &mockAuthValidator{}, &mockCaptchaValidator{}, &mockEmailSender{}, checkoutManager)

		w := httptest.NewRecorder()
		webhookHandler(a).ServeHTTP(w, newWebhookRequest("test_payload"))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("failed ledger write asks for a retry", func(t *testing.T) {
		db := &mockDB{
			CreateRegistrationFunc: func(ctx context.Context, reg registration.Registration) (registration.Registration, bool, error) {
				return registration.Registration{}, false, registration.NewFailedToWriteError("dynamo is down", nil)
			},
		}
		a := NewAPI(db, noopLogger, LOCAL, &mockAuthValidator{}, &mockCaptchaValidator{}, &mockEmailSender{}, completedCheckoutManager(seminarId))

		w := httptest.NewRecorder()
		webhookHandler(a).ServeHTTP(w, newWebhookRequest("test_payload"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("non-matching path passes through", func(t *testing.T) {
		a := NewAPI(&mockDB{}, noopLogger, LOCAL, &mockAuthValidator{}, &mockCaptchaValidator{}, &mockEmailSender{}, &mockCheckoutManager{})

		mw := a.stripePaymentWebhookMiddleware("/payments/stripe/webhook")
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot) // Should reach this handler
		}))

		req := httptest.NewRequest("POST", "/other/path", strings.NewReader("test_payload"))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusTeapot, w.Code)
	})

	t.Run("request body too large", func(t *testing.T) {
		a := NewAPI(&mockDB{}, noopLogger, LOCAL, &mockAuthValidator{}, &mockCaptchaValidator{}, &mockEmailSender{}, &mockCheckoutManager{})

		largePayload := strings.Repeat("x", 70000)

		w := httptest.NewRecorder()
		webhookHandler(a).ServeHTTP(w, newWebhookRequest(largePayload))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("email failure after a stored registration still acks", func(t *testing.T) {
		db := &mockDB{
			CreateRegistrationFunc: func(ctx context.Context, reg registration.Registration) (registration.Registration, bool, error) {
				return reg, true, nil
			},
			GetSeminarFunc: func(ctx context.Context, id uuid.UUID) (seminars.Seminar, error) {
				return seminars.Seminar{}, seminars.NewFailedToFetchError("dynamo is down", nil)
			},
		}
		a := NewAPI(db, noopLogger, LOCAL, &mockAuthValidator{}, &mockCaptchaValidator{}, &mockEmailSender{}, completedCheckoutManager(seminarId))

		w := httptest.NewRecorder()
		webhookHandler(a).ServeHTTP(w, newWebhookRequest("test_payload"))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGetSwagger(t *testing.T) {
	swagger, err := GetSwagger()
	require.NoError(t, err)
	assert.NotNil(t, swagger.Paths.Find("/seminars/{seminarId}/checkout"))
	assert.NotNil(t, swagger.Paths.Find("/seminars/{seminarId}/registrations"))
}
