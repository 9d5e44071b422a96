// Package payments abstracts the hosted-checkout flow of the payment
// gateway: creating a checkout session for a set of line items, and
// verifying + decoding the gateway's asynchronous confirmation callback.
package payments

import (
	"context"

	"github.com/Rhymond/go-money"
)

type CheckoutManager interface {
	CreateCheckout(ctx context.Context, params CheckoutParams) (CheckoutInfo, error)
	ConfirmCheckout(ctx context.Context, payload []byte, signature string) (CheckoutConfirmation, error)
}

type LineItem struct {
	Name        string
	Description string
	Price       *money.Money
}

// CheckoutParams describes the hosted checkout session to create. Metadata
// round-trips unmodified through the gateway and comes back on the
// confirmation callback; it is the only state carried across the two halves
// of a paid registration.
type CheckoutParams struct {
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

type CheckoutInfo struct {
	SessionID string
	// URL of the gateway-hosted payment page to redirect the buyer to.
	URL string
}

// CheckoutConfirmation is the verified content of a "checkout completed"
// callback. AmountTotal is the amount the gateway actually charged, which may
// differ from whatever the line items would price out to today.
type CheckoutConfirmation struct {
	SessionID       string
	PaymentIntentID string
	AmountTotal     *money.Money
	Metadata        map[string]string
}
