package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/growix/seminar-registration/api"
	"github.com/growix/seminar-registration/dynamo"
	"github.com/growix/seminar-registration/payments"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	settings := getServerSettingsFromEnv()

	if settings.Env == api.LOCAL {
		// Missing .env is fine, everything has a local default.
		_ = godotenv.Load()
		settings = getServerSettingsFromEnv()
	}

	tracingShutdown, err := setupTracing(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer tracingShutdown(context.Background())

	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to get aws config: %w", err)
	}

	db := dynamo.NewDB(dynamodb.NewFromConfig(awsCfg), settings.TableName)

	stripeAPIKey, stripeWebhookSecret, err := getStripeSecrets(ctx, awsCfg, settings)
	if err != nil {
		return fmt.Errorf("failed to get stripe secrets: %w", err)
	}
	checkoutManager := payments.NewStripeCheckoutManager(stripeAPIKey, stripeWebhookSecret)

	emailSender, err := createEmailSender(ctx, logger, settings.Env)
	if err != nil {
		return fmt.Errorf("failed to create email sender: %w", err)
	}

	seminarAPI := api.NewAPI(
		db,
		logger,
		settings.Env,
		createAuthValidator(logger, settings.Env),
		createCaptchaValidator(logger, settings.Env),
		emailSender,
		checkoutManager,
	)

	swagger, err := api.GetSwagger()
	if err != nil {
		return fmt.Errorf("failed to load openapi spec: %w", err)
	}
	swagger.Servers = nil

	s := &http.Server{
		Handler: seminarAPI.Handler(swagger),
		Addr:    net.JoinHostPort(settings.Host, settings.Port),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", s.Addr), slog.String("env", string(settings.Env)))
		errCh <- s.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = s.Shutdown(shutdownCtx)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}

	return nil
}

type ServerSettings struct {
	Host      string
	Port      string
	Env       api.Environment
	TableName string

	// Stripe secrets come from the environment in LOCAL only; PROD reads
	// them from SSM and ignores these.
	StripeAPIKey        string
	StripeWebhookSecret string

	TracingEnabled bool
	OTLPEndpoint   string
}

func getServerSettingsFromEnv() ServerSettings {
	return ServerSettings{
		Host:                getEnvOrDefault("HOST", "0.0.0.0"),
		Port:                getEnvOrDefault("PORT", "8080"),
		Env:                 api.Environment(getEnvOrDefault("ENV", string(api.LOCAL))),
		TableName:           getEnvOrDefault("DYNAMO_TABLE_NAME", "SeminarRegistration"),
		StripeAPIKey:        getEnvOrDefault("STRIPE_API_KEY", ""),
		StripeWebhookSecret: getEnvOrDefault("STRIPE_WEBHOOK_SECRET", ""),
		TracingEnabled:      getEnvOrDefault("TRACING_ENABLED", "false") == "true",
		OTLPEndpoint:        getEnvOrDefault("OTLP_ENDPOINT", "localhost:4317"),
	}
}

func getEnvOrDefault(key string, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return defaultVal
}
