package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/growix/seminar-registration/payments"
	"github.com/growix/seminar-registration/seminars"
)

// Metadata keys round-tripped through the payment gateway. Together they are
// the whole checkout intent: the confirmation callback reconstructs the
// registration from these alone, never from state persisted on our side.
const (
	metadataKeySeminarID = "SEMINAR_ID"
	metadataKeyEmail     = "EMAIL"
	metadataKeyFirstName = "FIRST_NAME"
	metadataKeyLastName  = "LAST_NAME"
)

type CheckoutRequest struct {
	SeminarID uuid.UUID
	Email     string
	FirstName string
	LastName  string
}

// CheckoutURLs are where the gateway sends the buyer back to after paying or
// giving up.
type CheckoutURLs struct {
	Success string
	Cancel  string
}

type CheckoutResult struct {
	// Free is true when the seminar costs nothing and the registration was
	// written synchronously.
	Free bool
	// Created is false when a registration for this (seminar, email) pair
	// already existed and was returned instead; callers must not notify
	// twice.
	Created      bool
	Registration Registration
	Seminar      seminars.Seminar
	// RedirectURL is the gateway-hosted payment page for paid seminars;
	// empty on the free path.
	RedirectURL string
}

// StartCheckout is the synchronous entry point of a registration attempt.
// Free seminars register immediately through the ledger; paid seminars only
// get a hosted checkout session, and the registration is written later by
// ConfirmPayment when the gateway reports the charge.
func StartCheckout(
	ctx context.Context,
	req CheckoutRequest,
	seminarRepo seminars.Repository,
	registrationRepo Repository,
	checkoutManager payments.CheckoutManager,
	urls CheckoutURLs,
) (CheckoutResult, error) {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return CheckoutResult{}, NewInvalidNameError("First and last name are required")
	}

	seminar, err := seminarRepo.GetSeminar(ctx, req.SeminarID)
	if err != nil {
		var seminarErr *seminars.Error
		if errors.As(err, &seminarErr) && seminarErr.Reason == seminars.REASON_SEMINAR_DOES_NOT_EXIST {
			return CheckoutResult{}, NewAssociatedSeminarDoesNotExistError(fmt.Sprintf("Seminar does not exist with ID %q", req.SeminarID), err)
		}
		return CheckoutResult{}, NewFailedToFetchError(fmt.Sprintf("Failed to fetch seminar with ID %q", req.SeminarID), err)
	}

	if !seminar.Kind.Registrable() {
		return CheckoutResult{}, NewSeminarNotRegistrableError(fmt.Sprintf("Registration is not available for seminars of kind %s", seminar.Kind))
	}

	// Existence pre-check so the caller gets a clear "already registered"
	// answer. This is a UX guard only: two concurrent attempts can both pass
	// it, and the store's uniqueness condition is what actually prevents a
	// duplicate.
	_, err = registrationRepo.GetRegistration(ctx, req.SeminarID, req.Email)
	if err == nil {
		return CheckoutResult{}, NewAlreadyRegisteredError(fmt.Sprintf("%s is already registered for seminar %q", req.Email, req.SeminarID), nil)
	}
	var registrationErr *Error
	if !errors.As(err, &registrationErr) || registrationErr.Reason != REASON_REGISTRATION_DOES_NOT_EXIST {
		return CheckoutResult{}, NewFailedToFetchError(fmt.Sprintf("Failed to check for existing registration for seminar %q", req.SeminarID), err)
	}

	charge := Charge(seminar.Price)
	if charge.IsZero() {
		return registerFree(ctx, seminar, req.SeminarID, req.Email, firstName, lastName, registrationRepo)
	}

	return createPaidCheckout(ctx, seminar, req, firstName, lastName, charge, checkoutManager, urls)
}

func registerFree(
	ctx context.Context,
	seminar seminars.Seminar,
	seminarId uuid.UUID,
	email string,
	firstName string,
	lastName string,
	registrationRepo Repository,
) (CheckoutResult, error) {
	reg := Registration{
		SeminarID:    seminarId,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		RegisteredAt: time.Now(),
		Amount:       Charge(""),
		PlatformFee:  Charge(""),
	}

	stored, created, err := registrationRepo.CreateRegistration(ctx, reg)
	if err != nil {
		return CheckoutResult{}, err
	}

	return CheckoutResult{
		Free:         true,
		Created:      created,
		Registration: stored,
		Seminar:      seminar,
	}, nil
}

func createPaidCheckout(
	ctx context.Context,
	seminar seminars.Seminar,
	req CheckoutRequest,
	firstName string,
	lastName string,
	charge *money.Money,
	checkoutManager payments.CheckoutManager,
	urls CheckoutURLs,
) (CheckoutResult, error) {
	fee := PlatformFee(charge)

	lineItems := []payments.LineItem{
		{
			Name:        seminar.Title,
			Description: fmt.Sprintf("%s • %s", seminar.Venue, seminar.LocalDateTime),
			Price:       charge,
		},
	}
	if !fee.IsZero() {
		lineItems = append(lineItems, payments.LineItem{
			Name:        fmt.Sprintf("Platform fee (%d%%)", PlatformFeePercent),
			Description: "Service fee",
			Price:       fee,
		})
	}

	info, err := checkoutManager.CreateCheckout(ctx, payments.CheckoutParams{
		LineItems:  lineItems,
		SuccessURL: urls.Success,
		CancelURL:  urls.Cancel,
		Metadata: map[string]string{
			metadataKeySeminarID: req.SeminarID.String(),
			metadataKeyEmail:     req.Email,
			metadataKeyFirstName: firstName,
			metadataKeyLastName:  lastName,
		},
	})
	if err != nil {
		return CheckoutResult{}, NewPaymentUnavailableError("Failed to create a checkout session", err)
	}

	return CheckoutResult{
		Seminar:     seminar,
		RedirectURL: info.URL,
	}, nil
}
