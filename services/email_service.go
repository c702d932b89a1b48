package services

import (
	"fmt"
	"html"

	"github.com/resendlabs/resend-go"
)

// EmailSender delivers a single alert email.
type EmailSender interface {
	SendAlert(to, subject, body string) error
}

type EmailService struct {
	client    *resend.Client
	fromEmail string
}

// NewEmailService returns nil when no API key is configured, which disables email alerts.
func NewEmailService(apiKey, fromEmail string) *EmailService {
	if apiKey == "" {
		return nil
	}
	if fromEmail == "" {
		fromEmail = "noreply@safetube.app"
	}
	return &EmailService{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
	}
}

// SendAlert sends a high-priority parent alert.
func (s *EmailService) SendAlert(to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Html: fmt.Sprintf(`
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">%s</h2>
				<p>%s</p>
				<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">
				<p style="color: #999; font-size: 12px;">SafeTube - you can manage alerts in the parent app.</p>
			</div>
		`, html.EscapeString(subject), html.EscapeString(body)),
	}

	_, err := s.client.Emails.Send(params)
	return err
}
