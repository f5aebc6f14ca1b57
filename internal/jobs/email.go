package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/email"
	"github.com/dukerupert/bookworld/internal/events"
	"github.com/dukerupert/bookworld/internal/telemetry"
	"github.com/google/uuid"
)

// Email types, used as metric labels.
const (
	EmailTypeWelcome           = "welcome"
	EmailTypeOrderConfirmation = "order_confirmation"
	EmailTypeOrderStatus       = "order_status"
)

// EmailTypes are the events EmailJob reacts to.
var EmailTypes = []events.Type{
	events.TypeOrderPlaced,
	events.TypeOrderStatusChanged,
	events.TypeUserSignedIn,
}

// Mailer sends the customer notifications.
type Mailer interface {
	SendWelcome(ctx context.Context, data email.WelcomeEmail) error
	SendOrderConfirmation(ctx context.Context, data email.OrderConfirmationEmail) error
	SendOrderStatus(ctx context.Context, data email.OrderStatusEmail) error
}

// UserLookup finds the account an event belongs to.
type UserLookup interface {
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// EmailJob sends order confirmations, status updates and welcome emails.
type EmailJob struct {
	mailer  Mailer
	users   UserLookup
	shopURL string
	logger  *slog.Logger
}

func NewEmailJob(mailer Mailer, users UserLookup, shopURL string, logger *slog.Logger) *EmailJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmailJob{mailer: mailer, users: users, shopURL: shopURL, logger: logger}
}

var _ Handler = (*EmailJob)(nil)

func (j *EmailJob) Handle(ctx context.Context, e events.Event) error {
	switch p := e.Payload.(type) {
	case events.OrderPlaced:
		user, err := j.users.GetUser(ctx, e.UserID)
		if err != nil {
			return fmt.Errorf("failed to load customer: %w", err)
		}
		data := email.NewOrderConfirmationEmail(user.Email, &p.Order)
		if data.CustomerName == "" {
			data.CustomerName = user.FullName()
		}
		return j.deliver(EmailTypeOrderConfirmation, j.mailer.SendOrderConfirmation(ctx, data))

	case events.OrderStatusChanged:
		user, err := j.users.GetUser(ctx, e.UserID)
		if err != nil {
			return fmt.Errorf("failed to load customer: %w", err)
		}
		return j.deliver(EmailTypeOrderStatus, j.mailer.SendOrderStatus(ctx, email.OrderStatusEmail{
			Email:          user.Email,
			CustomerName:   user.FullName(),
			OrderNumber:    p.OrderNumber,
			Status:         p.To,
			TrackingNumber: p.TrackingNumber,
			TotalCents:     p.TotalCents,
		}))

	case events.UserSignedIn:
		if !p.New {
			return nil
		}
		user, err := j.users.GetUser(ctx, e.UserID)
		if err != nil {
			return fmt.Errorf("failed to load customer: %w", err)
		}
		return j.deliver(EmailTypeWelcome, j.mailer.SendWelcome(ctx, email.WelcomeEmail{
			Email:     p.Email,
			FirstName: user.FirstName,
			ShopURL:   j.shopURL,
		}))
	}
	return nil
}

// deliver records the outcome. Send failures are retryable; a missing
// recipient is not.
func (j *EmailJob) deliver(kind string, err error) error {
	if err == nil {
		if telemetry.Business != nil {
			telemetry.Business.EmailSent.WithLabelValues(kind).Inc()
		}
		return nil
	}

	if telemetry.Business != nil {
		telemetry.Business.EmailFailed.WithLabelValues(kind).Inc()
	}
	if errors.Is(err, email.ErrNoRecipient) {
		j.logger.Warn("email skipped, no recipient", "email_type", kind)
		return nil
	}
	return domain.Unavailable(err, "jobs.email."+kind)
}
