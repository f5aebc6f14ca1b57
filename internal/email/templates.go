package email

import (
	"embed"
	"html/template"
	"time"

	"github.com/dukerupert/bookworld/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"rupees": domain.FormatRupees,
}

// EmailTemplate defines the interface for email templates
type EmailTemplate interface {
	Subject() string
	TemplateName() string
}

// WelcomeEmail greets a newly registered customer.
type WelcomeEmail struct {
	Email     string
	FirstName string
	ShopURL   string
}

func (e WelcomeEmail) Subject() string {
	return "Welcome to BookWorld"
}

func (e WelcomeEmail) TemplateName() string {
	return "welcome.html"
}

// OrderConfirmationEmail represents an order confirmation email
type OrderConfirmationEmail struct {
	Email         string
	OrderNumber   string
	CustomerName  string
	OrderDate     time.Time
	Items         []OrderItem
	SubtotalCents int64
	ShippingCents int64
	TotalCents    int64
	PaymentMethod string
	ShippingAddr  domain.ShippingAddress
}

func (e OrderConfirmationEmail) Subject() string {
	return "Order Confirmation - " + e.OrderNumber
}

func (e OrderConfirmationEmail) TemplateName() string {
	return "order_confirmation.html"
}

// NewOrderConfirmationEmail builds the confirmation for a placed order.
func NewOrderConfirmationEmail(to string, order *domain.OrderDetail) OrderConfirmationEmail {
	items := make([]OrderItem, len(order.Items))
	for i, it := range order.Items {
		items[i] = OrderItem{
			Title:      it.Title,
			Author:     it.Author,
			Quantity:   it.Quantity,
			PriceCents: int64(it.PriceCents),
			TotalCents: int64(it.PriceCents) * int64(it.Quantity),
		}
	}
	return OrderConfirmationEmail{
		Email:         to,
		OrderNumber:   order.OrderNumber,
		CustomerName:  order.ShippingAddress.Name,
		OrderDate:     order.CreatedAt,
		Items:         items,
		SubtotalCents: order.SubtotalCents,
		ShippingCents: order.ShippingCents,
		TotalCents:    order.TotalCents,
		PaymentMethod: order.PaymentMethod,
		ShippingAddr:  order.ShippingAddress,
	}
}

// OrderStatusEmail tells the customer their order moved along.
type OrderStatusEmail struct {
	Email          string
	CustomerName   string
	OrderNumber    string
	Status         domain.OrderStatus
	TrackingNumber string
	TotalCents     int64
}

func (e OrderStatusEmail) Headline() string {
	switch e.Status {
	case domain.OrderStatusProcessing:
		return "We are preparing your order"
	case domain.OrderStatusShipped:
		return "Your order has shipped"
	case domain.OrderStatusDelivered:
		return "Your order was delivered"
	case domain.OrderStatusCancelled:
		return "Your order was cancelled"
	case domain.OrderStatusRefunded:
		return "Your order was refunded"
	default:
		return "Your order was updated"
	}
}

// Refunded reports whether the message should mention the refund amount.
func (e OrderStatusEmail) Refunded() bool {
	return e.Status == domain.OrderStatusRefunded
}

func (e OrderStatusEmail) Subject() string {
	return e.Headline() + " - " + e.OrderNumber
}

func (e OrderStatusEmail) TemplateName() string {
	return "order_status.html"
}

// OrderItem represents a line item in an order
type OrderItem struct {
	Title      string
	Author     string
	Quantity   int32
	PriceCents int64
	TotalCents int64
}
