package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/events"
	"github.com/dukerupert/bookworld/internal/telemetry"
	"github.com/google/uuid"
)

type wishlistService struct {
	store   domain.WishlistStore
	catalog domain.CatalogReader
	cart    domain.CartService
	events  events.Publisher
	logger  *slog.Logger
	now     func() time.Time
}

// NewWishlistService creates a WishlistService over store. Moves to the cart
// go through cart so its stock rules apply.
func NewWishlistService(store domain.WishlistStore, catalog domain.CatalogReader, cart domain.CartService, pub events.Publisher, logger *slog.Logger) domain.WishlistService {
	if pub == nil {
		pub = events.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &wishlistService{
		store:   store,
		catalog: catalog,
		cart:    cart,
		events:  pub,
		logger:  logger,
		now:     time.Now,
	}
}

// Add saves a snapshot of the book. A book that is already saved is reported
// through AlreadyPresent rather than an error.
func (s *wishlistService) Add(ctx context.Context, userID, bookID uuid.UUID) (*domain.WishlistAddResult, error) {
	book, err := s.catalog.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	item := domain.NewWishlistItem(book, s.now())
	inserted, err := s.store.Insert(ctx, userID, item)
	if err != nil {
		return nil, err
	}

	if !inserted {
		s.countAdd("duplicate")
		existing, err := s.store.Get(ctx, userID, bookID)
		if err != nil {
			// removed between the insert and the read
			if errors.Is(err, domain.ErrWishlistItemNotFound) {
				return &domain.WishlistAddResult{Item: item, AlreadyPresent: true}, nil
			}
			return nil, err
		}
		return &domain.WishlistAddResult{Item: *existing, AlreadyPresent: true}, nil
	}

	s.countAdd("added")
	s.events.Publish(ctx, events.NewWishlistUpdated(userID, events.WishlistAdded, bookID))
	return &domain.WishlistAddResult{Item: item}, nil
}

func (s *wishlistService) Remove(ctx context.Context, userID, bookID uuid.UUID) error {
	if err := s.store.Delete(ctx, userID, bookID); err != nil {
		return err
	}
	s.events.Publish(ctx, events.NewWishlistUpdated(userID, events.WishlistRemoved, bookID))
	return nil
}

func (s *wishlistService) Contains(ctx context.Context, userID, bookID uuid.UUID) (bool, error) {
	_, err := s.store.Get(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, domain.ErrWishlistItemNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *wishlistService) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.store.Count(ctx, userID)
}

func (s *wishlistService) List(ctx context.Context, userID uuid.UUID) (*domain.WishlistSummary, error) {
	items, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.NewWishlistSummary(items), nil
}

func (s *wishlistService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.DeleteAll(ctx, userID); err != nil {
		return err
	}
	s.events.Publish(ctx, events.NewWishlistUpdated(userID, events.WishlistCleared, uuid.Nil))
	return nil
}

// MoveToCart adds one unit to the cart, then removes the wishlist entry. If
// the cart rejects the book the wishlist is left as it was.
func (s *wishlistService) MoveToCart(ctx context.Context, userID, bookID uuid.UUID) (*domain.CartSummary, error) {
	if _, err := s.store.Get(ctx, userID, bookID); err != nil {
		return nil, err
	}

	summary, err := s.cart.AddLine(ctx, userID, bookID, 1)
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, userID, bookID); err != nil {
		// The cart add stands; the entry stays in the wishlist.
		s.logger.Warn("failed to remove moved book from wishlist",
			"user_id", userID,
			"book_id", bookID,
			"error", err,
		)
		return summary, nil
	}

	if telemetry.Business != nil {
		telemetry.Business.WishlistMovedCart.Inc()
	}
	s.events.Publish(ctx, events.NewWishlistUpdated(userID, events.WishlistMoved, bookID))
	return summary, nil
}

func (s *wishlistService) countAdd(outcome string) {
	if telemetry.Business != nil {
		telemetry.Business.WishlistAdds.WithLabelValues(outcome).Inc()
	}
}
