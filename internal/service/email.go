package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

var ErrEmailNotConfigured = errors.New("email service not configured (missing RESEND_API_KEY)")

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
}

// NewEmailService logs instead of sending in development.
func NewEmailService(apiKey, fromEmail string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
	}
}

func (s *EmailService) SendProgressReport(ctx context.Context, to string, report *Report) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "progress_report", "to", to, "subject", report.Subject)
		slog.Debug("progress report body", "markdown", report.Markdown)
		return nil
	}

	if s.client == nil {
		return ErrEmailNotConfigured
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: report.Subject,
		Html:    report.HTML,
		Text:    report.Markdown,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return err
	}

	slog.Info("email sent", "type", "progress_report", "to", to)
	return nil
}
