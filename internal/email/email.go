// Package email renders customer notifications and hands them to a Sender:
// SMTP in production, the log when SMTP is not configured.
package email

import (
	"context"
	"strings"
)

// Email is a composed message ready for delivery.
type Email struct {
	To       []string
	From     string // "" means the sender's configured address
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string

	// Category tags the message for the mail provider's analytics, e.g.
	// "order_confirmation". Sent as the X-Bookworld-Category header.
	Category string

	Attachments []Attachment
}

// Attachment is a file sent with a message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// CategoryHeader carries Email.Category.
const CategoryHeader = "X-Bookworld-Category"

// checkRecipients rejects a message with no usable address.
func (e *Email) checkRecipients() error {
	if len(e.To) == 0 {
		return ErrNoRecipient
	}
	for _, to := range e.To {
		if strings.TrimSpace(to) == "" {
			return ErrInvalidToAddress
		}
	}
	return nil
}

//go:generate mockgen -source=email.go -destination=mock_sender.go -package=email

// Sender delivers a composed message and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, email *Email) (string, error)
}
