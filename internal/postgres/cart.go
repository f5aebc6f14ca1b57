package postgres

import (
	"context"
	"log/slog"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/events"
	"github.com/dukerupert/bookworld/internal/repository"
	"github.com/dukerupert/bookworld/internal/telemetry"
	"github.com/google/uuid"
)

// CartOptions configures cart policy.
type CartOptions struct {
	// EnforceStockOnAdd rejects an add that would take the line past the
	// book's current stock. Off by default: stock is checked on quantity
	// updates and at checkout.
	EnforceStockOnAdd bool
}

// CartService implements domain.CartService using PostgreSQL. Lines live in
// cart_lines keyed by (user, book), so a cart never holds two lines for one book.
type CartService struct {
	repo    repository.Querier
	catalog domain.CatalogReader
	events  events.Publisher
	logger  *slog.Logger
	opts    CartOptions
}

var _ domain.CartService = (*CartService)(nil)

func NewCartService(repo repository.Querier, catalog domain.CatalogReader, pub events.Publisher, logger *slog.Logger, opts CartOptions) *CartService {
	if pub == nil {
		pub = events.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CartService{
		repo:    repo,
		catalog: catalog,
		events:  pub,
		logger:  logger,
		opts:    opts,
	}
}

func cartLineFromRow(row repository.CartLine) domain.CartLine {
	return domain.CartLine{
		BookID:     fromPgUUID(row.BookID),
		Quantity:   row.Quantity,
		Title:      row.Title,
		Author:     row.Author,
		PriceCents: row.PriceCents,
		ImageURL:   row.ImageUrl.String,
		AddedAt:    fromPgTime(row.AddedAt),
	}
}

// loadCart reads the user's lines in insertion order.
func loadCart(ctx context.Context, q repository.Querier, userID uuid.UUID) (*domain.Cart, error) {
	rows, err := q.ListCartLines(ctx, pgUUID(userID))
	if err != nil {
		return nil, dbError(err, "cart.load", "failed to load cart")
	}
	cart := &domain.Cart{UserID: userID, Lines: make([]domain.CartLine, len(rows))}
	for i, row := range rows {
		cart.Lines[i] = cartLineFromRow(row)
	}
	return cart, nil
}

// GetCart returns the cart with each line's current catalog price alongside
// its snapshot. Totals use the snapshot.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*domain.CartSummary, error) {
	cart, err := loadCart(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, cart)
}

func (s *CartService) summarize(ctx context.Context, cart *domain.Cart) (*domain.CartSummary, error) {
	current := make(map[uuid.UUID]*domain.Book, len(cart.Lines))
	for _, l := range cart.Lines {
		b, err := s.catalog.GetBook(ctx, l.BookID)
		if err != nil {
			if domain.IsCode(err, domain.ENOTFOUND) {
				continue
			}
			return nil, err
		}
		current[l.BookID] = b
	}
	return domain.Summarize(cart, current), nil
}

// AddLine adds quantity units of a book. An existing line is increased; a
// new line snapshots the book's title, author, price and image.
func (s *CartService) AddLine(ctx context.Context, userID, bookID uuid.UUID, quantity int32) (*domain.CartSummary, error) {
	if err := domain.CheckLineQuantity(int64(quantity)); err != nil {
		return nil, err
	}

	book, err := s.catalog.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	want := int64(quantity)
	existing, err := s.repo.GetCartLine(ctx, repository.GetCartLineParams{
		UserID: pgUUID(userID),
		BookID: pgUUID(bookID),
	})
	switch {
	case err == nil:
		want += int64(existing.Quantity)
	case !isNoRows(err):
		return nil, dbError(err, "cart.add", "failed to read cart line")
	}
	if err := domain.CheckLineQuantity(want); err != nil {
		return nil, err
	}
	if s.opts.EnforceStockOnAdd && !book.InStock(int32(want)) {
		s.stockConflict()
		return nil, domain.ErrInsufficientStock
	}

	_, err = s.repo.UpsertCartLine(ctx, repository.UpsertCartLineParams{
		UserID:     pgUUID(userID),
		BookID:     pgUUID(bookID),
		Quantity:   quantity,
		Title:      book.Title,
		Author:     book.Author,
		PriceCents: book.PriceCents,
		ImageUrl:   pgText(book.ImageURL),
	})
	if err != nil {
		// a concurrent add can still push the line past the column check
		if isCheckViolation(err) {
			return nil, domain.ErrQuantityTooLarge
		}
		return nil, dbError(err, "cart.add", "failed to add to cart")
	}

	if telemetry.Business != nil {
		telemetry.Business.CartItemsAdded.Inc()
	}
	return s.changed(ctx, userID)
}

// UpdateLineQuantity sets a line's quantity after checking current stock.
// A quantity of zero or less removes the line.
func (s *CartService) UpdateLineQuantity(ctx context.Context, userID, bookID uuid.UUID, quantity int32) (*domain.CartSummary, error) {
	if quantity <= 0 {
		return s.RemoveLine(ctx, userID, bookID)
	}
	if err := domain.CheckLineQuantity(int64(quantity)); err != nil {
		return nil, err
	}

	book, err := s.catalog.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !book.InStock(quantity) {
		s.stockConflict()
		return nil, domain.ErrInsufficientStock
	}

	n, err := s.repo.SetCartLineQuantity(ctx, repository.SetCartLineQuantityParams{
		UserID:   pgUUID(userID),
		BookID:   pgUUID(bookID),
		Quantity: quantity,
	})
	if err != nil {
		return nil, dbError(err, "cart.update", "failed to update cart line")
	}
	if n == 0 {
		return nil, domain.ErrCartItemNotFound
	}

	return s.changed(ctx, userID)
}

// RemoveLine deletes a line. Removing an absent line succeeds.
func (s *CartService) RemoveLine(ctx context.Context, userID, bookID uuid.UUID) (*domain.CartSummary, error) {
	err := s.repo.DeleteCartLine(ctx, repository.DeleteCartLineParams{
		UserID: pgUUID(userID),
		BookID: pgUUID(bookID),
	})
	if err != nil {
		return nil, dbError(err, "cart.remove", "failed to remove cart line")
	}

	if telemetry.Business != nil {
		telemetry.Business.CartItemsRemoved.Inc()
	}
	return s.changed(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.DeleteCartLines(ctx, pgUUID(userID)); err != nil {
		return dbError(err, "cart.clear", "failed to clear cart")
	}

	if telemetry.Business != nil {
		telemetry.Business.CartCleared.Inc()
	}
	s.events.Publish(ctx, events.NewCartUpdated(&domain.Cart{UserID: userID}))
	return nil
}

// changed reloads the cart after a mutation, notifies subscribers and
// returns the new summary.
func (s *CartService) changed(ctx context.Context, userID uuid.UUID) (*domain.CartSummary, error) {
	cart, err := loadCart(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, events.NewCartUpdated(cart))
	return s.summarize(ctx, cart)
}

func (s *CartService) stockConflict() {
	if telemetry.Business != nil {
		telemetry.Business.StockConflict.WithLabelValues("cart").Inc()
	}
}
