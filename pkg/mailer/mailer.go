package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

// Message is a transactional email with a plain text and an HTML body
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers transactional emails
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New returns a SendGrid sender when an API key is configured, otherwise a
// sender that only logs messages (local development).
func New(apiKey, from string, log logrus.FieldLogger) Sender {
	if apiKey == "" {
		log.Warn("[Mailer] SENDGRID_API_KEY not set, emails will be logged instead of sent")
		return &LogSender{log: log}
	}
	return &SendGridSender{client: sendgrid.NewSendClient(apiKey), from: from}
}

// SendGridSender sends messages through the SendGrid v3 API
type SendGridSender struct {
	client *sendgrid.Client
	from   string
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return errors.New("recipient is required")
	}

	from := mail.NewEmail("ImagePro", s.from)
	to := mail.NewEmail("", msg.To)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode != http.StatusAccepted {
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}
	return nil
}

// LogSender writes messages to the log instead of delivering them
type LogSender struct {
	log logrus.FieldLogger
}

func NewLogSender(log logrus.FieldLogger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.log.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("[Mailer] " + msg.Text)
	return nil
}
