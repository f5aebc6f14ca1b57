package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// CART DOMAIN ERRORS
// =============================================================================

// MaxLineQuantity caps the copies of one book in a cart.
const MaxLineQuantity = 99

var (
	ErrCartItemNotFound = &Error{Code: ENOTFOUND, Message: "Cart item not found"}
	ErrInvalidQuantity  = &Error{Code: EINVALID, Message: "Quantity must be greater than 0"}
	ErrQuantityTooLarge = &Error{Code: EINVALID, Message: "Quantity cannot exceed 99 copies of one book"}
)

// CheckLineQuantity validates the resulting quantity of a cart line. The
// argument is int64 so callers can add to an existing line without
// overflowing.
func CheckLineQuantity(quantity int64) error {
	switch {
	case quantity <= 0:
		return ErrInvalidQuantity
	case quantity > MaxLineQuantity:
		return ErrQuantityTooLarge
	}
	return nil
}

// CartService manages a user's shopping cart. Every operation is scoped to
// the authenticated user; a user without lines has an empty cart.
type CartService interface {
	// GetCart returns the user's cart with totals.
	GetCart(ctx context.Context, userID uuid.UUID) (*CartSummary, error)

	// AddLine adds quantity units of a book, merging into an existing line.
	AddLine(ctx context.Context, userID, bookID uuid.UUID, quantity int32) (*CartSummary, error)

	// UpdateLineQuantity sets a line's quantity. Zero or less removes the line.
	UpdateLineQuantity(ctx context.Context, userID, bookID uuid.UUID, quantity int32) (*CartSummary, error)

	// RemoveLine drops a line. Removing an absent line is not an error.
	RemoveLine(ctx context.Context, userID, bookID uuid.UUID) (*CartSummary, error)

	// Clear empties the cart.
	Clear(ctx context.Context, userID uuid.UUID) error
}

// CartLine is one book in a cart. Title, author, price and image are copied
// from the catalog when the line is first added.
type CartLine struct {
	BookID     uuid.UUID `json:"bookId"`
	Quantity   int32     `json:"quantity"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	PriceCents int32     `json:"price"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	AddedAt    time.Time `json:"addedAt"`
}

// LineTotal is the snapshot price times quantity.
func (l CartLine) LineTotal() int64 {
	return int64(l.PriceCents) * int64(l.Quantity)
}

// Cart is the ordered set of lines for a user.
type Cart struct {
	UserID uuid.UUID
	Lines  []CartLine
}

// Subtotal is the sum of price times quantity over all lines.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.LineTotal()
	}
	return total
}

// ItemCount is the sum of quantities over all lines.
func (c *Cart) ItemCount() int64 {
	var n int64
	for _, l := range c.Lines {
		n += int64(l.Quantity)
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Line returns the line for bookID, if present.
func (c *Cart) Line(bookID uuid.UUID) (CartLine, bool) {
	for _, l := range c.Lines {
		if l.BookID == bookID {
			return l, true
		}
	}
	return CartLine{}, false
}

// CartSummaryLine is a cart line as shown to the customer: the snapshot plus
// the book's current catalog price, so a client can flag drift.
type CartSummaryLine struct {
	CartLine
	LineTotalCents    int64 `json:"lineTotal"`
	CurrentPriceCents int32 `json:"currentPrice"`
	PriceChanged      bool  `json:"priceChanged"`
	Available         bool  `json:"available"`
}

// CartSummary aggregates cart lines with calculated totals.
type CartSummary struct {
	Items         []CartSummaryLine `json:"items"`
	SubtotalCents int64             `json:"subtotal"`
	ItemCount     int64             `json:"itemCount"`
}

// Summarize builds a summary of c. current maps book ids to the live catalog
// entries; books missing from it are reported as unavailable.
func Summarize(c *Cart, current map[uuid.UUID]*Book) *CartSummary {
	s := &CartSummary{
		Items:         make([]CartSummaryLine, 0, len(c.Lines)),
		SubtotalCents: c.Subtotal(),
		ItemCount:     c.ItemCount(),
	}
	for _, l := range c.Lines {
		line := CartSummaryLine{
			CartLine:          l,
			LineTotalCents:    l.LineTotal(),
			CurrentPriceCents: l.PriceCents,
		}
		if b, ok := current[l.BookID]; ok && b != nil {
			line.CurrentPriceCents = b.PriceCents
			line.PriceChanged = b.PriceCents != l.PriceCents
			line.Available = b.Stock >= l.Quantity
		}
		s.Items = append(s.Items, line)
	}
	return s
}
