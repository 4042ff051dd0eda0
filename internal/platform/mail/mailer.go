// Copyright (c) 2026 Lydcast. All rights reserved.

/*
Package mail delivers transactional email for the Lydcast platform.

Currently the only transactional message is the password-reset email.
The package exposes a small [Sender] interface so that the auth service
never deals with SMTP directly, and so that tests and local development
can swap in a logging implementation.

Implementations:

  - SMTPSender: Real delivery over SMTP with an HTML template.
  - LogSender: Writes the reset link to the structured log (development).
*/
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"

	"github.com/almdal/lydcast/internal/platform/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// Sender delivers transactional email.
type Sender interface {
	// SendPasswordReset delivers the password-reset email containing the
	// one-time reset link to the given address.
	SendPasswordReset(ctx context.Context, toEmail, username, resetLink string) error
}

// # SMTP Implementation

// SMTPSender sends email through a standard SMTP relay.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	template *template.Template
	logger   *slog.Logger
}

// NewSMTPSender builds an SMTPSender from application configuration.
func NewSMTPSender(cfg *config.Config, logger *slog.Logger) (*SMTPSender, error) {
	parsedTemplate, err := template.ParseFS(templateFS, "templates/password_reset.html")
	if err != nil {
		return nil, fmt.Errorf("mail: failed to parse templates: %w", err)
	}

	return &SMTPSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
		template: parsedTemplate,
		logger:   logger,
	}, nil
}

// resetEmailData is the template context for the password-reset email.
type resetEmailData struct {
	Username  string
	ResetLink string
}

// SendPasswordReset implements [Sender].
func (sender *SMTPSender) SendPasswordReset(ctx context.Context, toEmail, username, resetLink string) error {
	// 1. Render the HTML body
	var body bytes.Buffer
	data := resetEmailData{Username: username, ResetLink: resetLink}
	if err := sender.template.Execute(&body, data); err != nil {
		return fmt.Errorf("mail: failed to render reset template: %w", err)
	}

	// 2. Assemble the full RFC 5322 message
	var message bytes.Buffer
	fmt.Fprintf(&message, "From: Lydcast <%s>\r\n", sender.from)
	fmt.Fprintf(&message, "To: %s\r\n", toEmail)
	fmt.Fprintf(&message, "Subject: Nulstil din adgangskode\r\n")
	fmt.Fprintf(&message, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&message, "Content-Type: text/html; charset=\"UTF-8\"\r\n")
	fmt.Fprintf(&message, "\r\n")
	message.Write(body.Bytes())

	// 3. Deliver via SMTP. net/smtp does not take a context, so honor
	// cancellation by checking before the (blocking) dial.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("mail: send aborted: %w", err)
	}

	address := fmt.Sprintf("%s:%d", sender.host, sender.port)
	auth := smtp.PlainAuth("", sender.username, sender.password, sender.host)

	if err := smtp.SendMail(address, auth, sender.from, []string{toEmail}, message.Bytes()); err != nil {
		return fmt.Errorf("mail: smtp delivery failed: %w", err)
	}

	sender.logger.InfoContext(ctx, "password_reset_email_sent",
		slog.String("to", toEmail),
	)

	return nil
}

// # Development Implementation

// LogSender writes reset links to the log instead of sending email.
//
// Used in development and test environments where no SMTP relay exists.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender returns a Sender that only logs.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// SendPasswordReset implements [Sender].
func (sender *LogSender) SendPasswordReset(ctx context.Context, toEmail, username, resetLink string) error {
	sender.logger.InfoContext(ctx, "password_reset_email_logged",
		slog.String("to", toEmail),
		slog.String("username", username),
		slog.String("reset_link", resetLink),
	)
	return nil
}

// New selects the appropriate Sender for the current environment.
//
// SMTP delivery requires production mode AND a configured SMTP host;
// everything else falls back to the logging sender.
func New(cfg *config.Config, logger *slog.Logger) (Sender, error) {
	if cfg.IsProduction() && cfg.SMTPHost != "" {
		return NewSMTPSender(cfg, logger)
	}
	return NewLogSender(logger), nil
}
