package notification

import (
	"bytes"
	"context"
	"html/template"

	"github.com/resend/resend-go/v2"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/config"
	ierr "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/errors"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/logger"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"
)

// EmailNotifier delivers notifications through Resend. When email is
// disabled in config the notifier logs and reports success, which keeps
// reminder sweeps running in local development.
type EmailNotifier struct {
	client      *resend.Client
	fromAddress string
	enabled     bool
	logger      *logger.Logger
}

func NewEmailNotifier(cfg *config.Configuration, log *logger.Logger) Notifier {
	var client *resend.Client
	if cfg.Email.Enabled {
		client = resend.NewClient(cfg.Email.APIKey)
	}
	return &EmailNotifier{
		client:      client,
		fromAddress: cfg.Email.FromAddress,
		enabled:     cfg.Email.Enabled,
		logger:      log,
	}
}

// Notify renders the template and sends it to the subscriber's address.
// The subscriber reference doubles as the destination address; the caller
// may override it with an "email" data field.
func (n *EmailNotifier) Notify(ctx context.Context, subscriberRef string, tmpl types.NotificationTemplate, data map[string]any) error {
	if !n.enabled {
		n.logger.Debugw("email disabled, skipping notification",
			"subscriber", subscriberRef,
			"template", tmpl)
		return nil
	}

	def, ok := emailTemplates[tmpl]
	if !ok {
		return ierr.NewErrorf("unknown notification template %q", tmpl).
			Mark(ierr.ErrValidation)
	}

	body, err := renderTemplate(string(tmpl), def.body, data)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Notification template failed to render").
			Mark(ierr.ErrInternal)
	}

	to := subscriberRef
	if addr, ok := data["email"].(string); ok && addr != "" {
		to = addr
	}

	sent, err := n.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    n.fromAddress,
		To:      []string{to},
		Subject: def.subject,
		Html:    body,
	})
	if err != nil {
		return ierr.WithError(err).
			WithHint("Email delivery failed").
			Mark(ierr.ErrHTTPClient)
	}

	n.logger.Infow("notification sent",
		"message_id", sent.Id,
		"template", tmpl,
		"subscriber", subscriberRef)
	return nil
}

func renderTemplate(name, body string, data map[string]any) (string, error) {
	t, err := template.New(name).Parse(body)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
