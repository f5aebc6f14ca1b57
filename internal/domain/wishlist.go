package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var (
	ErrWishlistItemNotFound = &Error{Code: ENOTFOUND, Message: "Book is not in your wishlist"}
	ErrAlreadyInWishlist    = &Error{Code: ECONFLICT, Message: "Book is already in your wishlist"}
)

// WishlistItem is a saved book with a catalog snapshot taken when it was added.
type WishlistItem struct {
	BookID     uuid.UUID `json:"bookId"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	PriceCents int32     `json:"price"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	Rating     float64   `json:"rating"`
	AddedAt    time.Time `json:"addedAt"`
}

// NewWishlistItem snapshots b.
func NewWishlistItem(b *Book, now time.Time) WishlistItem {
	return WishlistItem{
		BookID:     b.ID,
		Title:      b.Title,
		Author:     b.Author,
		PriceCents: b.PriceCents,
		ImageURL:   b.ImageURL,
		Rating:     b.Rating,
		AddedAt:    now,
	}
}

// WishlistAddResult is the outcome of adding a book. A book that is already
// present is not an error: AlreadyPresent is set and Item holds the stored entry.
type WishlistAddResult struct {
	Item           WishlistItem
	AlreadyPresent bool
}

// WishlistSummary lists a user's wishlist, newest first.
type WishlistSummary struct {
	Items           []WishlistItem `json:"items"`
	Count           int            `json:"count"`
	TotalValueCents int64          `json:"totalValue"`
}

// NewWishlistSummary totals items.
func NewWishlistSummary(items []WishlistItem) *WishlistSummary {
	s := &WishlistSummary{Items: items, Count: len(items)}
	if s.Items == nil {
		s.Items = []WishlistItem{}
	}
	for _, it := range items {
		s.TotalValueCents += int64(it.PriceCents)
	}
	return s
}

// WishlistStore persists wishlist entries. Implementations exist for
// PostgreSQL and Firestore.
type WishlistStore interface {
	// Insert stores item. It returns false without error when the book is
	// already present.
	Insert(ctx context.Context, userID uuid.UUID, item WishlistItem) (bool, error)
	Get(ctx context.Context, userID, bookID uuid.UUID) (*WishlistItem, error)
	Delete(ctx context.Context, userID, bookID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]WishlistItem, error)
	Count(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteAll(ctx context.Context, userID uuid.UUID) error
}

// WishlistService manages saved books per user.
type WishlistService interface {
	Add(ctx context.Context, userID, bookID uuid.UUID) (*WishlistAddResult, error)
	Remove(ctx context.Context, userID, bookID uuid.UUID) error
	Contains(ctx context.Context, userID, bookID uuid.UUID) (bool, error)
	Count(ctx context.Context, userID uuid.UUID) (int64, error)
	List(ctx context.Context, userID uuid.UUID) (*WishlistSummary, error)
	Clear(ctx context.Context, userID uuid.UUID) error

	// MoveToCart adds one unit of the book to the cart and, only if that
	// succeeds, removes it from the wishlist.
	MoveToCart(ctx context.Context, userID, bookID uuid.UUID) (*CartSummary, error)
}
