package registration_test

import (
	"context"
	"testing"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/growix/seminar-registration/payments"
	"github.com/growix/seminar-registration/registration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func confirmationFor(seminarId uuid.UUID, totalCents int64) payments.CheckoutConfirmation {
	return payments.CheckoutConfirmation{
		SessionID:       "cs_123",
		PaymentIntentID: "pi_123",
		AmountTotal:     money.New(totalCents, money.EUR),
		Metadata: map[string]string{
			"SEMINAR_ID": seminarId.String(),
			"EMAIL":      "dancer@example.com",
			"FIRST_NAME": "Jonas",
			"LAST_NAME":  "Petrauskas",
		},
	}
}

func TestConfirmPayment(t *testing.T) {
	seminarId := uuid.New()
	payload := []byte(`{"id":"evt_123"}`)

	t.Run("writes the registration from the gateway total", func(t *testing.T) {
		checkoutManager := &mockCheckoutManager{
			ConfirmCheckoutFunc: func(ctx context.Context, gotPayload []byte, signature string) (payments.CheckoutConfirmation, error) {
				assert.Equal(t, payload, gotPayload)
				assert.Equal(t, "sig", signature)
				return confirmationFor(seminarId, 2200), nil
			},
		}
		registrationRepo := &mockRegistrationRepo{
			CreateRegistrationFunc: func(ctx context.Context, reg registration.Registration) (registration.Registration, bool, error) {
				return reg, true, nil
			},
		}

		reg, created, err := registration.ConfirmPayment(t.Context(), payload, "sig", registrationRepo, checkoutManager)

		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, seminarId, reg.SeminarID)
		assert.Equal(t, "dancer@example.com", reg.Email)
		assert.Equal(t, "Jonas Petrauskas", reg.RegistrantName())
		assert.Equal(t, "pi_123", reg.PaymentIntentID)
		assert.Equal(t, int64(2000), reg.Amount.Amount())
		assert.Equal(t, int64(200), reg.PlatformFee.Amount())
	})

	t.Run("redelivered callback reports created false", func(t *testing.T) {
		stored := registration.Registration{
			SeminarID:       seminarId,
			Email:           "dancer@example.com",
			PaymentIntentID: "pi_123",
		}
		checkoutManager := &mockCheckoutManager{
			ConfirmCheckoutFunc: func(ctx context.Context, payload []byte, signature string) (payments.CheckoutConfirmation, error) {
				return confirmationFor(seminarId, 2200), nil
			},
		}
		registrationRepo := &mockRegistrationRepo{
			CreateRegistrationFunc: func(ctx context.Context, reg registration.Registration) (registration.Registration, bool, error) {
				return stored, false, nil
			},
		}

		reg, created, err := registration.ConfirmPayment(t.Context(), payload, "sig", registrationRepo, checkoutManager)

		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, stored, reg)
	})

	t.Run("verification errors pass through untouched", func(t *testing.T) {
		sigErr := payments.NewInvalidSignatureError("bad signature", nil)
		checkoutManager := &mockCheckoutManager{
			ConfirmCheckoutFunc: func(ctx context.Context, payload []byte, signature string) (payments.CheckoutConfirmation, error) {
				return payments.CheckoutConfirmation{}, sigErr
			},
		}

		_, _, err := registration.ConfirmPayment(t.Context(), payload, "sig", &mockRegistrationRepo{}, checkoutManager)

		var paymentErr *payments.Error
		require.ErrorAs(t, err, &paymentErr)
		assert.Equal(t, payments.ErrorReasonInvalidSignature, paymentErr.Reason)
	})

	t.Run("missing seminar metadata", func(t *testing.T) {
		confirmation := confirmationFor(seminarId, 2200)
		delete(confirmation.Metadata, "SEMINAR_ID")
		checkoutManager := &mockCheckoutManager{
			ConfirmCheckoutFunc: func(ctx context.Context, payload []byte, signature string) (payments.CheckoutConfirmation, error) {
				return confirmation, nil
			},
		}

		_, _, err := registration.ConfirmPayment(t.Context(), payload, "sig", &mockRegistrationRepo{}, checkoutManager)

		var regErr *registration.Error
		require.ErrorAs(t, err, &regErr)
		assert.Equal(t, registration.REASON_PAYMENT_MISSING_METADATA, regErr.Reason)
	})

	t.Run("missing email metadata", func(t *testing.T) {
		confirmation := confirmationFor(seminarId, 2200)
		delete(confirmation.Metadata, "EMAIL")
		checkoutManager := &mockCheckoutManager{
			ConfirmCheckoutFunc: func(ctx context.Context, payload []byte, signature string) (payments.CheckoutConfirmation, error) {
				return confirmation, nil
			},
		}

		_, _, err := registration.ConfirmPayment(t.Context(), payload, "sig", &mockRegistrationRepo{}, checkoutManager)

		var regErr *registration.Error
		require.ErrorAs(t, err, &regErr)
		assert.Equal(t, registration.REASON_PAYMENT_MISSING_METADATA, regErr.Reason)
	})

	t.Run("malformed seminar id metadata", func(t *testing.T) {
		confirmation := confirmationFor(seminarId, 2200)
		confirmation.Metadata["SEMINAR_ID"] = "not-a-uuid"
		checkoutManager := &mockCheckoutManager{
			ConfirmCheckoutFunc: func(ctx context.Context, payload []byte, signature string) (payments.CheckoutConfirmation, error) {
				return confirmation, nil
			},
		}

		_, _, err := registration.ConfirmPayment(t.Context(), payload, "sig", &mockRegistrationRepo{}, checkoutManager)

		var regErr *registration.Error
		require.ErrorAs(t, err, &regErr)
		assert.Equal(t, registration.REASON_INVALID_PAYMENT_METADATA, regErr.Reason)
	})
}
