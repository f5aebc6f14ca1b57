package email

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
)

// SMTPConfig holds SMTP connection parameters.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string // optional - some servers allow unauthenticated relay
	Password string // optional
	From     string // default sender address
	FromName string // optional sender display name
}

// SMTPSender implements Sender using go-mail. TLS mode follows the port:
// implicit TLS on 465, mandatory STARTTLS on 587, opportunistic elsewhere.
type SMTPSender struct {
	config SMTPConfig
	logger *slog.Logger
}

var _ Sender = (*SMTPSender)(nil)

// NewSMTPSender creates an SMTP sender.
func NewSMTPSender(config SMTPConfig, logger *slog.Logger) *SMTPSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPSender{config: config, logger: logger}
}

// Send sends an email via SMTP using go-mail.
func (s *SMTPSender) Send(ctx context.Context, email *Email) (string, error) {
	if err := email.checkRecipients(); err != nil {
		return "", err
	}

	msg, messageID, err := s.buildMessage(email)
	if err != nil {
		return "", err
	}

	client, err := mail.NewClient(s.config.Host, clientOptions(s.config, 30*time.Second)...)
	if err != nil {
		return "", deliveryFailed(fmt.Errorf("failed to create SMTP client: %w", err))
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		s.logger.Error("smtp: failed to send email",
			"to", email.To,
			"subject", email.Subject,
			"error", err,
		)
		return "", deliveryFailed(err)
	}

	s.logger.Info("smtp: email sent", "to", email.To, "message_id", messageID)
	return messageID, nil
}

func (s *SMTPSender) buildMessage(email *Email) (*mail.Msg, string, error) {
	msg := mail.NewMsg()

	from := email.From
	if from == "" {
		from = s.config.From
	}
	if s.config.FromName != "" && email.From == "" {
		if err := msg.FromFormat(s.config.FromName, from); err != nil {
			return nil, "", ErrInvalidFromAddress
		}
	} else if err := msg.From(from); err != nil {
		return nil, "", ErrInvalidFromAddress
	}

	if err := msg.To(email.To...); err != nil {
		return nil, "", ErrInvalidToAddress
	}

	msg.Subject(email.Subject)

	// Prefer HTML with a text fallback.
	switch {
	case email.HTMLBody != "" && email.TextBody != "":
		msg.SetBodyString(mail.TypeTextPlain, email.TextBody)
		msg.AddAlternativeString(mail.TypeTextHTML, email.HTMLBody)
	case email.HTMLBody != "":
		msg.SetBodyString(mail.TypeTextHTML, email.HTMLBody)
	default:
		msg.SetBodyString(mail.TypeTextPlain, email.TextBody)
	}

	if email.ReplyTo != "" {
		if err := msg.ReplyTo(email.ReplyTo); err != nil {
			return nil, "", fmt.Errorf("invalid reply-to address: %w", err)
		}
	}
	if email.Category != "" {
		msg.SetGenHeader(mail.Header(CategoryHeader), email.Category)
	}

	for _, att := range email.Attachments {
		if err := msg.AttachReader(att.Filename, bytes.NewReader(att.Content),
			mail.WithFileContentType(mail.ContentType(att.ContentType))); err != nil {
			return nil, "", fmt.Errorf("failed to attach file %s: %w", att.Filename, err)
		}
	}

	// SMTP servers do not reliably report an id, so set our own.
	messageID := uuid.NewString()
	msg.SetMessageIDWithValue(messageID)

	return msg, messageID, nil
}

// Ping verifies SMTP connectivity and authentication without sending email.
func (s *SMTPSender) Ping(ctx context.Context) error {
	client, err := mail.NewClient(s.config.Host, clientOptions(s.config, 10*time.Second)...)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	return client.Close()
}

func clientOptions(cfg SMTPConfig, timeout time.Duration) []mail.Option {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(timeout),
	}

	switch cfg.Port {
	case 465:
		opts = append(opts, mail.WithSSL())
	case 587:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		// 25, or 1025 for Mailpit in development
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	if cfg.Username != "" && cfg.Password != "" {
		opts = append(opts,
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
			mail.WithSMTPAuth(mail.SMTPAuthAutoDiscover),
		)
	}

	return opts
}
