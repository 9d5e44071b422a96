package registration

import (
	"context"
	"fmt"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
)

// Registration is the durable record of one person attending one seminar.
// There is at most one per (seminar, email) pair; it is created exactly once,
// synchronously for free seminars or from the payment confirmation callback
// for paid ones, and never mutated afterwards.
type Registration struct {
	SeminarID uuid.UUID
	// Email is the authenticated identity the registration belongs to.
	Email string
	// Names are captured at registration time and may differ from the
	// account profile.
	FirstName string
	LastName  string
	// RegisteredAt doubles as the settlement time: free registrations settle
	// immediately, paid ones when the gateway confirms the charge.
	RegisteredAt time.Time
	// PaymentIntentID is the gateway's charge reference; empty for free
	// registrations.
	PaymentIntentID string
	Amount          *money.Money
	PlatformFee     *money.Money
}

func (r Registration) RegistrantName() string {
	return fmt.Sprintf("%s %s", r.FirstName, r.LastName)
}

func (r Registration) IsPaid() bool {
	return r.PaymentIntentID != ""
}

type Repository interface {
	// CreateRegistration inserts reg if no registration exists yet for its
	// (seminar, email) pair, or returns the already stored record with
	// created=false. The uniqueness decision is made by the store, not the
	// caller; this is the single choke point both the free path and the
	// payment callback funnel through.
	CreateRegistration(ctx context.Context, reg Registration) (Registration, bool, error)
	GetRegistration(ctx context.Context, seminarId uuid.UUID, email string) (Registration, error)
	GetAllRegistrationsForSeminar(ctx context.Context, seminarId uuid.UUID, limit int32, cursor *string) (GetAllRegistrationsResponse, error)
}

type GetAllRegistrationsResponse struct {
	Data        []Registration
	Cursor      *string
	HasNextPage bool
}
