package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// EmailService sends transactional email through Resend. In development it
// only logs what would have been sent.
type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
	}
}

func (s *EmailService) SendWelcomeEmail(ctx context.Context, email, name string) error {
	dashboardURL := fmt.Sprintf("%s/dashboard", s.appURL)
	subject, body := welcomeEmailTemplate(name, dashboardURL, s.appName)
	return s.send(ctx, "welcome", email, subject, body, "url", dashboardURL)
}

func (s *EmailService) SendPasswordResetEmail(ctx context.Context, email, token, name string, expiry time.Duration) error {
	resetURL := fmt.Sprintf("%s/reset-password/%s", s.appURL, token)
	subject, body := passwordResetEmailTemplate(name, resetURL, expiry, s.appName)
	return s.send(ctx, "password_reset", email, subject, body, "url", resetURL)
}

func (s *EmailService) SendPlanReviewedEmail(ctx context.Context, email, name, planName, status, note string) error {
	plansURL := fmt.Sprintf("%s/plans", s.appURL)
	subject, body := planReviewedEmailTemplate(name, planName, status, note, plansURL, s.appName)
	return s.send(ctx, "plan_reviewed", email, subject, body, "status", status)
}

func (s *EmailService) SendAccountDeletedEmail(ctx context.Context, email, name string) error {
	subject, body := accountDeletedEmailTemplate(name, s.appName)
	return s.send(ctx, "account_deleted", email, subject, body)
}

func (s *EmailService) send(ctx context.Context, kind, to, subject, body string, attrs ...any) error {
	if s.isDev {
		args := append([]any{"type", kind, "to", to, "subject", subject}, attrs...)
		slog.Info("email sent (dev mode)", args...)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("email sent", "type", kind, "to", to)
	}
	return err
}
