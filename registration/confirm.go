package registration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/growix/seminar-registration/payments"
)

// ConfirmPayment settles a paid registration from the gateway's
// server-to-server callback. The checkout manager verifies the payload's
// signature and filters for completed checkouts; the registration identity
// comes from the session metadata and the amounts from what the gateway
// actually charged, never from the seminar's current price text.
//
// The ledger write is idempotent, so redelivered callbacks are safe: the
// second delivery finds the stored record and reports created=false.
func ConfirmPayment(
	ctx context.Context,
	payload []byte,
	signature string,
	registrationRepo Repository,
	checkoutManager payments.CheckoutManager,
) (Registration, bool, error) {
	confirmation, err := checkoutManager.ConfirmCheckout(ctx, payload, signature)
	if err != nil {
		return Registration{}, false, err
	}

	seminarIdText, ok := confirmation.Metadata[metadataKeySeminarID]
	if !ok {
		return Registration{}, false, NewPaymentMissingMetadataError(fmt.Sprintf("Checkout confirmation has no %s metadata", metadataKeySeminarID))
	}
	email, ok := confirmation.Metadata[metadataKeyEmail]
	if !ok {
		return Registration{}, false, NewPaymentMissingMetadataError(fmt.Sprintf("Checkout confirmation has no %s metadata", metadataKeyEmail))
	}

	seminarId, err := uuid.Parse(seminarIdText)
	if err != nil {
		return Registration{}, false, NewInvalidPaymentMetadataError(fmt.Sprintf("Checkout confirmation has malformed seminar ID %q", seminarIdText), err)
	}

	charge, fee := SplitGatewayTotal(confirmation.AmountTotal)
	reg := Registration{
		SeminarID:       seminarId,
		Email:           email,
		FirstName:       confirmation.Metadata[metadataKeyFirstName],
		LastName:        confirmation.Metadata[metadataKeyLastName],
		RegisteredAt:    time.Now(),
		PaymentIntentID: confirmation.PaymentIntentID,
		Amount:          charge,
		PlatformFee:     fee,
	}

	return registrationRepo.CreateRegistration(ctx, reg)
}
