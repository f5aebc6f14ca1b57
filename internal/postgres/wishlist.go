package postgres

import (
	"context"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/repository"
	"github.com/google/uuid"
)

// WishlistStore implements domain.WishlistStore on the wishlist_items table.
type WishlistStore struct {
	repo repository.Querier
}

var _ domain.WishlistStore = (*WishlistStore)(nil)

func NewWishlistStore(repo repository.Querier) *WishlistStore {
	return &WishlistStore{repo: repo}
}

func wishlistItemFromRow(row repository.WishlistItem) domain.WishlistItem {
	return domain.WishlistItem{
		BookID:     fromPgUUID(row.BookID),
		Title:      row.Title,
		Author:     row.Author,
		PriceCents: row.PriceCents,
		ImageURL:   row.ImageUrl.String,
		Rating:     row.Rating,
		AddedAt:    fromPgTime(row.AddedAt),
	}
}

// Insert relies on the (user_id, book_id) key: a second insert affects no rows.
func (s *WishlistStore) Insert(ctx context.Context, userID uuid.UUID, item domain.WishlistItem) (bool, error) {
	n, err := s.repo.InsertWishlistItem(ctx, repository.InsertWishlistItemParams{
		UserID:     pgUUID(userID),
		BookID:     pgUUID(item.BookID),
		Title:      item.Title,
		Author:     item.Author,
		PriceCents: item.PriceCents,
		ImageUrl:   pgText(item.ImageURL),
		Rating:     item.Rating,
		AddedAt:    pgTime(item.AddedAt),
	})
	if err != nil {
		return false, dbError(err, "wishlist.insert", "failed to add to wishlist")
	}
	return n == 1, nil
}

func (s *WishlistStore) Get(ctx context.Context, userID, bookID uuid.UUID) (*domain.WishlistItem, error) {
	row, err := s.repo.GetWishlistItem(ctx, repository.GetWishlistItemParams{
		UserID: pgUUID(userID),
		BookID: pgUUID(bookID),
	})
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrWishlistItemNotFound
		}
		return nil, dbError(err, "wishlist.get", "failed to get wishlist item")
	}
	item := wishlistItemFromRow(row)
	return &item, nil
}

func (s *WishlistStore) Delete(ctx context.Context, userID, bookID uuid.UUID) error {
	err := s.repo.DeleteWishlistItem(ctx, repository.DeleteWishlistItemParams{
		UserID: pgUUID(userID),
		BookID: pgUUID(bookID),
	})
	if err != nil {
		return dbError(err, "wishlist.delete", "failed to remove from wishlist")
	}
	return nil
}

// List returns items newest first.
func (s *WishlistStore) List(ctx context.Context, userID uuid.UUID) ([]domain.WishlistItem, error) {
	rows, err := s.repo.ListWishlistItems(ctx, pgUUID(userID))
	if err != nil {
		return nil, dbError(err, "wishlist.list", "failed to list wishlist")
	}
	items := make([]domain.WishlistItem, len(rows))
	for i, row := range rows {
		items[i] = wishlistItemFromRow(row)
	}
	return items, nil
}

func (s *WishlistStore) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.repo.CountWishlistItems(ctx, pgUUID(userID))
	if err != nil {
		return 0, dbError(err, "wishlist.count", "failed to count wishlist")
	}
	return n, nil
}

func (s *WishlistStore) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.DeleteWishlistItems(ctx, pgUUID(userID)); err != nil {
		return dbError(err, "wishlist.clear", "failed to clear wishlist")
	}
	return nil
}
