package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/growix/seminar-registration/api"
)

const (
	stripeAPIKeyParam        = "/growix/stripe/api-key"
	stripeWebhookSecretParam = "/growix/stripe/webhook-secret"
)

// getStripeSecrets reads the stripe keys straight from the environment in
// LOCAL and from SSM in PROD, so production keys never land in task
// definitions or .env files.
func getStripeSecrets(ctx context.Context, awsCfg aws.Config, settings ServerSettings) (apiKey string, webhookSecret string, err error) {
	if settings.Env == api.LOCAL {
		return settings.StripeAPIKey, settings.StripeWebhookSecret, nil
	}

	ssmClient := ssm.NewFromConfig(awsCfg)

	apiKey, err = getSSMParameter(ctx, ssmClient, stripeAPIKeyParam)
	if err != nil {
		return "", "", err
	}

	webhookSecret, err = getSSMParameter(ctx, ssmClient, stripeWebhookSecretParam)
	if err != nil {
		return "", "", err
	}

	return apiKey, webhookSecret, nil
}

func getSSMParameter(ctx context.Context, client *ssm.Client, name string) (string, error) {
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get SSM parameter %q: %w", name, err)
	}

	return aws.ToString(out.Parameter.Value), nil
}
