package api

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/International-Combat-Archery-Alliance/auth"
	"github.com/International-Combat-Archery-Alliance/captcha"
	"github.com/International-Combat-Archery-Alliance/email"
	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/growix/seminar-registration/payments"
	"github.com/growix/seminar-registration/registration"
	"github.com/growix/seminar-registration/seminars"
)

var noopLogger = slog.New(slog.DiscardHandler)

// money2200 is a 20 euro charge plus the 10% fee, as stripe reports it.
func money2200() *money.Money {
	return money.New(2200, money.EUR)
}

var _ auth.AuthToken = &mockAuthToken{}

type mockAuthToken struct {
	email   string
	isAdmin bool
}

func (m *mockAuthToken) ExpiresAt() time.Time  { return time.Now().Add(time.Hour) }
func (m *mockAuthToken) ProfilePicURL() string { return "" }
func (m *mockAuthToken) IsAdmin() bool         { return m.isAdmin }
func (m *mockAuthToken) UserEmail() string     { return m.email }
func (m *mockAuthToken) Roles() []auth.Role    { return nil }

type mockAuthValidator struct {
	ValidateFunc func(ctx context.Context, token string, clientID string) (auth.AuthToken, error)
}

func (m *mockAuthValidator) Validate(ctx context.Context, token string, clientID string) (auth.AuthToken, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, token, clientID)
	}
	return &mockAuthToken{email: "dancer@example.com"}, nil
}

type mockCaptchaValidatedData struct{}

func (m *mockCaptchaValidatedData) Hostname() string       { return captchaHostname }
func (m *mockCaptchaValidatedData) Action() string         { return "" }
func (m *mockCaptchaValidatedData) ChallengeTS() time.Time { return time.Now() }

type mockCaptchaValidator struct {
	ValidateFunc func(ctx context.Context, token string, remoteIP string) (captcha.ValidatedData, error)
}

func (m *mockCaptchaValidator) Validate(ctx context.Context, token string, remoteIP string) (captcha.ValidatedData, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, token, remoteIP)
	}
	return &mockCaptchaValidatedData{}, nil
}

type mockEmailSender struct {
	mu   sync.Mutex
	sent []email.Email
}

func (m *mockEmailSender) SendEmail(ctx context.Context, e email.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, e)
	return nil
}

func (m *mockEmailSender) sentEmails() []email.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]email.Email{}, m.sent...)
}

type mockCheckoutManager struct {
	CreateCheckoutFunc  func(ctx context.Context, params payments.CheckoutParams) (payments.CheckoutInfo, error)
	ConfirmCheckoutFunc func(ctx context.Context, payload []byte, signature string) (payments.CheckoutConfirmation, error)
}

func (m *mockCheckoutManager) CreateCheckout(ctx context.Context, params payments.CheckoutParams) (payments.CheckoutInfo, error) {
	if m.CreateCheckoutFunc != nil {
		return m.CreateCheckoutFunc(ctx, params)
	}
	return payments.CheckoutInfo{}, nil
}

func (m *mockCheckoutManager) ConfirmCheckout(ctx context.Context, payload []byte, signature string) (payments.CheckoutConfirmation, error) {
	if m.ConfirmCheckoutFunc != nil {
		return m.ConfirmCheckoutFunc(ctx, payload, signature)
	}
	return payments.CheckoutConfirmation{}, nil
}

var _ DB = &mockDB{}

type mockDB struct {
	GetSeminarFunc                    func(ctx context.Context, id uuid.UUID) (seminars.Seminar, error)
	CreateSeminarFunc                 func(ctx context.Context, seminar seminars.Seminar) error
	CreateRegistrationFunc            func(ctx context.Context, reg registration.Registration) (registration.Registration, bool, error)
	GetRegistrationFunc               func(ctx context.Context, seminarId uuid.UUID, email string) (registration.Registration, error)
	GetAllRegistrationsForSeminarFunc func(ctx context.Context, seminarId uuid.UUID, limit int32, cursor *string) (registration.GetAllRegistrationsResponse, error)
}

func (m *mockDB) GetSeminar(ctx context.Context, id uuid.UUID) (seminars.Seminar, error) {
	return m.GetSeminarFunc(ctx, id)
}

func (m *mockDB) CreateSeminar(ctx context.Context, seminar seminars.Seminar) error {
	return m.CreateSeminarFunc(ctx, seminar)
}

func (m *mockDB) CreateRegistration(ctx context.Context, reg registration.Registration) (registration.Registration, bool, error) {
	return m.CreateRegistrationFunc(ctx, reg)
}

func (m *mockDB) GetRegistration(ctx context.Context, seminarId uuid.UUID, email string) (registration.Registration, error) {
	if m.GetRegistrationFunc != nil {
		return m.GetRegistrationFunc(ctx, seminarId, email)
	}
	return registration.Registration{}, registration.NewRegistrationDoesNotExistError("not found", nil)
}

func (m *mockDB) GetAllRegistrationsForSeminar(ctx context.Context, seminarId uuid.UUID, limit int32, cursor *string) (registration.GetAllRegistrationsResponse, error) {
	return m.GetAllRegistrationsForSeminarFunc(ctx, seminarId, limit, cursor)
}
