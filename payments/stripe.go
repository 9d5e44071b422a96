package payments

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/Rhymond/go-money"
	stripe "github.com/stripe/stripe-go/v85"
	"github.com/stripe/stripe-go/v85/client"
	"github.com/stripe/stripe-go/v85/webhook"
)

var _ CheckoutManager = &StripeCheckoutManager{}

type StripeCheckoutManager struct {
	client        *client.API
	webhookSecret string
}

func NewStripeCheckoutManager(apiKey string, webhookSecret string) *StripeCheckoutManager {
	sc := &client.API{}
	sc.Init(apiKey, nil)

	return &StripeCheckoutManager{
		client:        sc,
		webhookSecret: webhookSecret,
	}
}

func (s *StripeCheckoutManager) CreateCheckout(ctx context.Context, params CheckoutParams) (CheckoutInfo, error) {
	sessionParams := &stripe.CheckoutSessionParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(params.SuccessURL),
		CancelURL:          stripe.String(params.CancelURL),
	}

	for _, item := range params.LineItems {
		sessionParams.LineItems = append(sessionParams.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(strings.ToLower(item.Price.Currency().Code)),
				UnitAmount: stripe.Int64(item.Price.Amount()),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(item.Name),
					Description: stripe.String(item.Description),
				},
			},
			Quantity: stripe.Int64(1),
		})
	}

	for k, v := range params.Metadata {
		sessionParams.AddMetadata(k, v)
	}

	session, err := s.client.CheckoutSessions.New(sessionParams)
	if err != nil {
		return CheckoutInfo{}, NewUnavailableError("Failed to create stripe checkout session", err)
	}

	return CheckoutInfo{
		SessionID: session.ID,
		URL:       session.URL,
	}, nil
}

func (s *StripeCheckoutManager) ConfirmCheckout(ctx context.Context, payload []byte, signature string) (CheckoutConfirmation, error) {
	// Endpoints pinned to an older stripe API version still send correctly
	// signed events; version skew must not be treated as a signature failure
	// or those payments would be rejected forever.
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return CheckoutConfirmation{}, NewInvalidSignatureError("Stripe webhook verification failed", err)
	}

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		return CheckoutConfirmation{}, NewNotCheckoutCompletedEventError(string(event.Type))
	}

	var session stripe.CheckoutSession
	err = json.Unmarshal(event.Data.Raw, &session)
	if err != nil {
		return CheckoutConfirmation{}, NewMalformedEventError("Failed to decode checkout session from event", err)
	}

	paymentIntentID := ""
	if session.PaymentIntent != nil {
		paymentIntentID = session.PaymentIntent.ID
	}

	return CheckoutConfirmation{
		SessionID:       session.ID,
		PaymentIntentID: paymentIntentID,
		AmountTotal:     money.New(session.AmountTotal, strings.ToUpper(string(session.Currency))),
		Metadata:        session.Metadata,
	}, nil
}
