package registration

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/International-Combat-Archery-Alliance/email"
	"github.com/growix/seminar-registration/seminars"
)

//go:embed templates
var templates embed.FS

// SendRegistrationConfirmationEmail mails the registrant. Best-effort: by the
// time this runs the registration is already durably stored, so callers log
// failures instead of propagating them.
func SendRegistrationConfirmationEmail(ctx context.Context, emailSender email.Sender, fromAddress string, reg Registration, seminar seminars.Seminar) error {
	htmlBody, err := renderTemplate("registration-confirmation.tmpl", reg, seminar)
	if err != nil {
		return err
	}

	textOnlyBody, err := renderTemplate("registration-confirmation-textonly.tmpl", reg, seminar)
	if err != nil {
		return err
	}

	return emailSender.SendEmail(ctx, email.Email{
		FromAddress: fromAddress,
		ToAddresses: []string{reg.Email},
		Subject:     fmt.Sprintf("You're registered - %q", seminar.Title),
		HTMLBody:    htmlBody,
		TextBody:    textOnlyBody,
	})
}

// SendOrganizerNotificationEmail tells the organizer someone signed up.
func SendOrganizerNotificationEmail(ctx context.Context, emailSender email.Sender, fromAddress string, reg Registration, seminar seminars.Seminar) error {
	htmlBody, err := renderTemplate("organizer-notification.tmpl", reg, seminar)
	if err != nil {
		return err
	}

	textOnlyBody, err := renderTemplate("organizer-notification-textonly.tmpl", reg, seminar)
	if err != nil {
		return err
	}

	return emailSender.SendEmail(ctx, email.Email{
		FromAddress: fromAddress,
		ToAddresses: []string{seminar.OrganizerEmail},
		Subject:     fmt.Sprintf("New registration - %q", seminar.Title),
		HTMLBody:    htmlBody,
		TextBody:    textOnlyBody,
	})
}

func renderTemplate(name string, reg Registration, seminar seminars.Seminar) (string, error) {
	tmpl, err := template.New(name).ParseFS(templates, "templates/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse email template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, map[string]any{
		"Seminar":      seminar,
		"Registration": reg,
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}

	return buf.String(), nil
}
