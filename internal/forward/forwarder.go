// Package forward re-sends scraped messages over SMTP, attachments
// included, so a downstream mailbox receives a copy of everything the
// scrape collected.
package forward

import (
	"bytes"
	"fmt"
	"log/slog"

	mail "gopkg.in/mail.v2"

	"github.com/yurkol/mailsweep/internal/graph"
	"github.com/yurkol/mailsweep/internal/logging"
)

// sendFunc delivers a composed message. Tests substitute it to capture
// the message instead of dialing a server.
type sendFunc func(*mail.Message) error

// Forwarder composes and sends mail through a single SMTP endpoint.
type Forwarder struct {
	from   string
	send   sendFunc
	logger *slog.Logger
}

// Option configures optional forwarder behavior.
type Option func(*Forwarder)

// WithLogger sets the logger used for send bookkeeping.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Forwarder) {
		f.logger = logger
	}
}

// withSendFunc replaces the SMTP delivery path, for tests.
func withSendFunc(send sendFunc) Option {
	return func(f *Forwarder) {
		f.send = send
	}
}

// NewForwarder returns a Forwarder that authenticates against the SMTP
// server with the mailbox owner's own credentials and sends from that
// address.
func NewForwarder(server string, port int, username, password string, opts ...Option) *Forwarder {
	dialer := mail.NewDialer(server, port, username, password)

	f := &Forwarder{
		from:   username,
		send: func(m *mail.Message) error {
			return dialer.DialAndSend(m)
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Forward sends one message to the given recipient, attaching each
// payload under its sanitized filename. Attachments that fail to
// decode abort the send so nothing is silently dropped.
func (f *Forwarder) Forward(to, subject, body string, attachments []graph.Attachment) error {
	m, err := f.compose(to, subject, body, attachments)
	if err != nil {
		return err
	}

	if err := f.send(m); err != nil {
		f.logger.Error("message send failed",
			logging.Operation("forward"),
			logging.Status(logging.StatusError),
			logging.Err(err))
		return fmt.Errorf("failed to send message to %s: %w", to, err)
	}

	f.logger.Debug("message forwarded",
		logging.Operation("forward"),
		logging.UserHash(to),
		logging.Status(logging.StatusSuccess))
	return nil
}

func (f *Forwarder) compose(to, subject, body string, attachments []graph.Attachment) (*mail.Message, error) {
	m := mail.NewMessage()
	m.SetHeader("From", f.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	for _, a := range attachments {
		content, err := a.Content()
		if err != nil {
			return nil, fmt.Errorf("failed to decode attachment %s: %w", a.Name, err)
		}
		name := graph.SanitizeFilename(a.Name)
		m.AttachReader(name, bytes.NewReader(content),
			mail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}))
	}
	return m, nil
}
