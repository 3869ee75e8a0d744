package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
	"go.uber.org/zap"
)

// Message is a single plain-text email.
type Message struct {
	To      string
	Subject string
	Text    string
}

// Sender delivers a message or reports why it could not.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Mailgun sends through the Mailgun HTTP API.
type Mailgun struct {
	client  *mg.MailgunImpl
	sender  string
	timeout time.Duration
}

// NewMailgun builds a Mailgun sender. apiBase may be empty for the default US region.
func NewMailgun(domain, apiKey, apiBase, sender string) *Mailgun {
	client := mg.NewMailgun(domain, apiKey)
	if apiBase != "" {
		client.SetAPIBase(apiBase)
	}
	return &Mailgun{client: client, sender: sender, timeout: 10 * time.Second}
}

// Send sends msg via Mailgun.
func (m *Mailgun) Send(ctx context.Context, msg Message) error {
	message := m.client.NewMessage(m.sender, msg.Subject, msg.Text, msg.To)
	c, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	_, _, err := m.client.Send(c, message)
	return err
}

// LogSender only logs outgoing mail. Used when no transport is configured.
type LogSender struct {
	logger *zap.Logger
	from   string
}

// NewLogSender builds a LogSender.
func NewLogSender(logger *zap.Logger, from string) *LogSender {
	return &LogSender{logger: logger, from: from}
}

// Send logs msg and always succeeds.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("email (not delivered: no transport configured)",
		zap.String("from", s.from),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}
