package api

import (
	"log/slog"
	"net/http"

	"github.com/International-Combat-Archery-Alliance/auth"
	"github.com/International-Combat-Archery-Alliance/captcha"
	"github.com/International-Combat-Archery-Alliance/email"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/growix/seminar-registration/payments"
	"github.com/growix/seminar-registration/registration"
	"github.com/growix/seminar-registration/seminars"
)

const (
	googleAudience = "872341095612-h2qgvq7d9k3j0s8mheb3a1lrrt9f4n2c.apps.googleusercontent.com"

	stripeWebhookPath = "/payments/stripe/webhook"

	fromAddress = "Growix <info@growix.lt>"
)

type Environment string

const (
	LOCAL Environment = "LOCAL"
	PROD  Environment = "PROD"
)

type DB interface {
	seminars.Repository
	registration.Repository
}

type API struct {
	db               DB
	logger           *slog.Logger
	env              Environment
	authValidator    auth.Validator
	captchaValidator captcha.Validator
	emailSender      email.Sender
	checkoutManager  payments.CheckoutManager
}

func NewAPI(
	db DB,
	logger *slog.Logger,
	env Environment,
	authValidator auth.Validator,
	captchaValidator captcha.Validator,
	emailSender email.Sender,
	checkoutManager payments.CheckoutManager,
) *API {
	return &API{
		db:               db,
		logger:           logger,
		env:              env,
		authValidator:    authValidator,
		captchaValidator: captchaValidator,
		emailSender:      emailSender,
		checkoutManager:  checkoutManager,
	}
}

// Handler assembles the routes and the middleware chain. Middlewares listed
// later wrap the ones before them, so the last entry sees the request first.
// The stripe webhook sits outside the openapi validator on purpose: its
// payload is verified by signature, not by schema.
func (a *API) Handler(swagger *openapi3.T) http.Handler {
	r := http.NewServeMux()

	r.HandleFunc("POST /seminars/{seminarId}/checkout", a.postSeminarCheckout)
	r.HandleFunc("GET /seminars/{seminarId}/registrations", a.getSeminarRegistrations)

	return useMiddlewares(r,
		a.openapiValidateMiddleware(swagger),
		a.stripePaymentWebhookMiddleware(stripeWebhookPath),
		a.loggingMiddleware(),
		a.requestIdMiddleware(),
		a.corsMiddleware(),
	)
}

func (a *API) appBaseURL() string {
	if a.env == PROD {
		return "https://www.growix.lt"
	}
	return "http://localhost:5173"
}
