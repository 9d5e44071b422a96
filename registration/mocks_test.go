package registration_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/growix/seminar-registration/payments"
	"github.com/growix/seminar-registration/registration"
	"github.com/growix/seminar-registration/seminars"
)

type mockSeminarRepo struct {
	GetSeminarFunc    func(ctx context.Context, id uuid.UUID) (seminars.Seminar, error)
	CreateSeminarFunc func(ctx context.Context, seminar seminars.Seminar) error
}

func (m *mockSeminarRepo) GetSeminar(ctx context.Context, id uuid.UUID) (seminars.Seminar, error) {
	return m.GetSeminarFunc(ctx, id)
}

func (m *mockSeminarRepo) CreateSeminar(ctx context.Context, seminar seminars.Seminar) error {
	return m.CreateSeminarFunc(ctx, seminar)
}

type mockRegistrationRepo struct {
	CreateRegistrationFunc            func(ctx context.Context, reg registration.Registration) (registration.Registration, bool, error)
	GetRegistrationFunc               func(ctx context.Context, seminarId uuid.UUID, email string) (registration.Registration, error)
	GetAllRegistrationsForSeminarFunc func(ctx context.Context, seminarId uuid.UUID, limit int32, cursor *string) (registration.GetAllRegistrationsResponse, error)
}

func (m *mockRegistrationRepo) CreateRegistration(ctx context.Context, reg registration.Registration) (registration.Registration, bool, error) {
	return m.CreateRegistrationFunc(ctx, reg)
}

func (m *mockRegistrationRepo) GetRegistration(ctx context.Context, seminarId uuid.UUID, email string) (registration.Registration, error) {
	return m.GetRegistrationFunc(ctx, seminarId, email)
}

func (m *mockRegistrationRepo) GetAllRegistrationsForSeminar(ctx context.Context, seminarId uuid.UUID, limit int32, cursor *string) (registration.GetAllRegistrationsResponse, error) {
	return m.GetAllRegistrationsForSeminarFunc(ctx, seminarId, limit, cursor)
}

type mockCheckoutManager struct {
	CreateCheckoutFunc  func(ctx context.Context, params payments.CheckoutParams) (payments.CheckoutInfo, error)
	ConfirmCheckoutFunc func(ctx context.Context, payload []byte, signature string) (payments.CheckoutConfirmation, error)
}

func (m *mockCheckoutManager) CreateCheckout(ctx context.Context, params payments.CheckoutParams) (payments.CheckoutInfo, error) {
	return m.CreateCheckoutFunc(ctx, params)
}

func (m *mockCheckoutManager) ConfirmCheckout(ctx context.Context, payload []byte, signature string) (payments.CheckoutConfirmation, error) {
	return m.ConfirmCheckoutFunc(ctx, payload, signature)
}
