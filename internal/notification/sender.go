// Package notification delivers transactional email.
package notification

import (
	"context"
	"fmt"

	"github.com/saulo-duarte/cyberaware-lambda/internal/config"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const fromName = "CyberAware"

type Message struct {
	To        string
	Subject   string
	PlainText string
	HTML      string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
}

// NewSendGridSender builds a sender for apiKey. baseURL overrides the API
// host and is empty outside tests.
func NewSendGridSender(apiKey, fromEmail, baseURL string) *SendGridSender {
	client := sendgrid.NewSendClient(apiKey)
	if baseURL != "" {
		client.Request.BaseURL = baseURL + "/v3/mail/send"
	}
	return &SendGridSender{client: client, fromEmail: fromEmail}
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	log := config.WithContext(ctx)

	from := mail.NewEmail(fromName, s.fromEmail)
	to := mail.NewEmail("", msg.To)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.PlainText, msg.HTML)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		log.WithError(err).Warn("SendGrid email send failed")
		return err
	}
	if response.StatusCode >= 300 {
		log.WithField("status_code", response.StatusCode).Warn("SendGrid rejected email")
		return fmt.Errorf("sendgrid: unexpected status %d", response.StatusCode)
	}

	log.WithField("status_code", response.StatusCode).Info("Email sent")
	return nil
}

// LogSender only records the message. It is used when no SendGrid key is
// configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) error {
	config.WithContext(ctx).WithField("subject", msg.Subject).Info("Email delivery disabled, message logged")
	return nil
}

func NewSender(s config.Settings) Sender {
	if s.SendGridAPIKey == "" {
		config.Logger.Warn("SENDGRID_API_KEY not set; emails will only be logged")
		return LogSender{}
	}
	return NewSendGridSender(s.SendGridAPIKey, s.MailFrom, "")
}
