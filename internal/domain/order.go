package domain

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Order-related domain errors.
var (
	ErrOrderNotFound         = &Error{Code: ENOTFOUND, Message: "Order not found"}
	ErrEmptyCart             = &Error{Code: EINVALID, Message: "Cart is empty"}
	ErrInvalidTransition     = &Error{Code: ECONFLICT, Message: "Order status cannot be changed to the requested state"}
	ErrCannotCancel          = &Error{Code: ECONFLICT, Message: "Order cannot be cancelled at this stage"}
	ErrInvalidStatus         = &Error{Code: EINVALID, Message: "Invalid order status"}
	ErrTrackingNotAllowed    = &Error{Code: EINVALID, Message: "Tracking number can only be set on shipped or delivered orders"}
	ErrUnsupportedPaymentTag = &Error{Code: EINVALID, Message: "Unsupported payment method"}
)

// =============================================================================
// ORDER STATUS STATE MACHINE
// =============================================================================

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// fulfillment rank along pending -> processing -> shipped -> delivered.
var fulfillmentRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusProcessing: 1,
	OrderStatusShipped:    2,
	OrderStatusDelivered:  3,
}

// ParseOrderStatus returns the status named by s.
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled || s == OrderStatusRefunded
}

// CanTransition reports whether an order may move from one status to another.
// Fulfillment only moves forward (skipping steps is allowed). Any non-terminal
// order may be cancelled or refunded. Nothing leaves a terminal state.
func CanTransition(from, to OrderStatus) bool {
	if !from.Valid() || !to.Valid() || from.Terminal() || from == to {
		return false
	}
	if to == OrderStatusCancelled || to == OrderStatusRefunded {
		return true
	}
	return fulfillmentRank[to] > fulfillmentRank[from]
}

// CanCustomerCancel reports whether the customer may cancel an order in status s.
func CanCustomerCancel(s OrderStatus) bool {
	return s == OrderStatusPending
}

// AcceptsTracking reports whether a tracking number may be attached at s.
func AcceptsTracking(s OrderStatus) bool {
	return s == OrderStatusShipped || s == OrderStatusDelivered
}

// =============================================================================
// ORDER TYPES
// =============================================================================

// PaymentStatus tracks settlement of an order.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// PaymentMethodCOD is cash on delivery, the only supported method.
const PaymentMethodCOD = "cod"

// DefaultCountry is applied to addresses that omit a country.
const DefaultCountry = "India"

// ShippingAddress is where an order is delivered.
type ShippingAddress struct {
	Name    string `json:"name" validate:"required,max=200"`
	Street  string `json:"street" validate:"required,max=300"`
	City    string `json:"city" validate:"required,max=100"`
	State   string `json:"state" validate:"required,max=100"`
	ZipCode string `json:"zipCode" validate:"required,max=20"`
	Country string `json:"country" validate:"max=100"`
	Phone   string `json:"phone" validate:"required,max=30"`
}

// Normalize trims fields and applies the default country.
func (a *ShippingAddress) Normalize() {
	a.Name = strings.TrimSpace(a.Name)
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.ZipCode = strings.TrimSpace(a.ZipCode)
	a.Country = strings.TrimSpace(a.Country)
	a.Phone = strings.TrimSpace(a.Phone)
	if a.Country == "" {
		a.Country = DefaultCountry
	}
}

// Validate reports missing required fields.
func (a ShippingAddress) Validate(op string) error {
	var err error
	for field, v := range map[string]string{
		"name": a.Name, "street": a.Street, "city": a.City,
		"state": a.State, "zipCode": a.ZipCode, "phone": a.Phone,
	} {
		if v == "" {
			err = AddFieldError(err, "shippingAddress."+field, "This field is required")
		}
	}
	if err != nil {
		err.(*ValidationError).Op = op
	}
	return err
}

// Order is a placed order. Its items and totals never change after creation.
type Order struct {
	ID              uuid.UUID       `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	UserID          uuid.UUID       `json:"userId"`
	Status          OrderStatus     `json:"status"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	SubtotalCents   int64           `json:"subtotal"`
	ShippingCents   int64           `json:"shipping"`
	TotalCents      int64           `json:"total"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	TrackingNumber  string          `json:"trackingNumber,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderItem is a frozen copy of a cart line.
type OrderItem struct {
	BookID     uuid.UUID `json:"bookId"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	PriceCents int32     `json:"price"`
	Quantity   int32     `json:"quantity"`
	ImageURL   string    `json:"imageUrl,omitempty"`
}

// LineTotal is price times quantity.
func (i OrderItem) LineTotal() int64 {
	return int64(i.PriceCents) * int64(i.Quantity)
}

// OrderDetail aggregates an order with its items.
type OrderDetail struct {
	Order
	Items []OrderItem `json:"items"`
}

// ItemCount is the sum of quantities over all items.
func (d *OrderDetail) ItemCount() int64 {
	var n int64
	for _, it := range d.Items {
		n += int64(it.Quantity)
	}
	return n
}

// ItemsFromCart freezes the cart lines into order items.
func ItemsFromCart(c *Cart) []OrderItem {
	items := make([]OrderItem, 0, len(c.Lines))
	for _, l := range c.Lines {
		items = append(items, OrderItem{
			BookID:     l.BookID,
			Title:      l.Title,
			Author:     l.Author,
			PriceCents: l.PriceCents,
			Quantity:   l.Quantity,
			ImageURL:   l.ImageURL,
		})
	}
	return items
}

// orderNumberAlphabet omits characters that are easy to misread.
const orderNumberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewOrderNumber returns a human-facing order reference such as
// BW-20240115-7KQ2MX.
func NewOrderNumber(now time.Time) (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate order number: %w", err)
	}
	for i := range b {
		b[i] = orderNumberAlphabet[int(b[i])%len(orderNumberAlphabet)]
	}
	return fmt.Sprintf("BW-%s-%s", now.UTC().Format("20060102"), b), nil
}

// PlaceOrderParams is the checkout request.
type PlaceOrderParams struct {
	UserID          uuid.UUID
	ShippingAddress ShippingAddress
	PaymentMethod   string
	Notes           string
}

// Normalize applies defaults.
func (p *PlaceOrderParams) Normalize() {
	p.ShippingAddress.Normalize()
	p.PaymentMethod = strings.ToLower(strings.TrimSpace(p.PaymentMethod))
	if p.PaymentMethod == "" {
		p.PaymentMethod = PaymentMethodCOD
	}
	p.Notes = strings.TrimSpace(p.Notes)
}

// UpdateStatusParams is an administrative status change.
type UpdateStatusParams struct {
	OrderID        uuid.UUID
	Status         OrderStatus
	TrackingNumber string
}

// OrderService provides checkout and order lifecycle operations.
type OrderService interface {
	// PlaceOrder converts the user's cart into an order, decrementing stock
	// and clearing the cart in a single transaction.
	PlaceOrder(ctx context.Context, params PlaceOrderParams) (*OrderDetail, error)

	// GetOrder returns one of the user's orders.
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDetail, error)

	// ListOrders returns the user's orders, newest first.
	ListOrders(ctx context.Context, userID uuid.UUID, limit int32) ([]Order, error)

	// CancelOrder cancels a pending order on behalf of its owner.
	CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDetail, error)

	// OrderStats summarises the user's order history.
	OrderStats(ctx context.Context, userID uuid.UUID) (*UserOrderStats, error)

	// Admin operations
	GetOrderAdmin(ctx context.Context, orderID uuid.UUID) (*OrderDetail, error)
	ListAllOrders(ctx context.Context, status OrderStatus, limit int32) ([]Order, error)
	RecentOrders(ctx context.Context, limit int32) ([]Order, error)
	UpdateStatus(ctx context.Context, params UpdateStatusParams) (*OrderDetail, error)
}
