package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Option configures SMTPMailer.
type Option func(*Config)

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// WithAddress sets SMTP host and port.
func WithAddress(host string, port int) Option {
	return func(c *Config) {
		c.Host = host
		c.Port = port
	}
}

// WithCredentials sets SMTP auth credentials.
func WithCredentials(username, password string) Option {
	return func(c *Config) {
		c.Username = username
		c.Password = password
	}
}

// WithSender sets the From address and display name.
func WithSender(from, name string) Option {
	return func(c *Config) {
		c.From = from
		c.FromName = name
	}
}

// SMTPMailer sends HTML email over plain SMTP with AUTH.
type SMTPMailer struct {
	cfg Config
}

// New creates an SMTP mailer.
func New(opts ...Option) (*SMTPMailer, error) {
	cfg := Config{
		Port:     587,
		FromName: "MarketLens",
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}
	return &SMTPMailer{cfg: cfg}, nil
}

// Send delivers one HTML message. The context deadline is honored up to
// connection setup; net/smtp does not support mid-session cancellation.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	msg := m.buildMessage(to, subject, htmlBody)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func (m *SMTPMailer) buildMessage(to, subject, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", m.cfg.FromName, m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}
