package postgres

import (
	"context"
	"math"
	"time"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/repository"
)

// StatsService implements domain.StatsService by loading the full tables and
// reducing them in memory.
type StatsService struct {
	repo repository.Querier
	now  func() time.Time
}

var _ domain.StatsService = (*StatsService)(nil)

func NewStatsService(repo repository.Querier) *StatsService {
	return &StatsService{repo: repo, now: time.Now}
}

func (s *StatsService) BookStats(ctx context.Context) (*domain.BookStats, error) {
	rows, err := s.repo.ListAllBooks(ctx)
	if err != nil {
		return nil, dbError(err, "stats.books", "failed to list books")
	}
	return domain.ComputeBookStats(booksFromRows(rows)), nil
}

func (s *StatsService) UserStats(ctx context.Context) (*domain.UserStats, error) {
	rows, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, dbError(err, "stats.users", "failed to list users")
	}
	users := make([]domain.User, len(rows))
	for i, row := range rows {
		users[i] = *userFromRow(row)
	}
	return domain.ComputeUserStats(users, s.now()), nil
}

func (s *StatsService) OrderStats(ctx context.Context) (*domain.OrderStats, error) {
	rows, err := s.repo.ListOrders(ctx, repository.ListOrdersParams{Limit: math.MaxInt32})
	if err != nil {
		return nil, dbError(err, "stats.orders", "failed to list orders")
	}
	details, err := withItems(ctx, s.repo, ordersFromRows(rows))
	if err != nil {
		return nil, err
	}
	return domain.ComputeOrderStats(details), nil
}

func (s *StatsService) ListUsers(ctx context.Context, limit int32) ([]domain.User, error) {
	rows, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, dbError(err, "stats.list_users", "failed to list users")
	}
	rows = newest(rows, limit)
	users := make([]domain.User, len(rows))
	for i, row := range rows {
		users[i] = *userFromRow(row)
	}
	return users, nil
}

func (s *StatsService) ListBooks(ctx context.Context, limit int32) ([]domain.Book, error) {
	rows, err := s.repo.ListAllBooks(ctx)
	if err != nil {
		return nil, dbError(err, "stats.list_books", "failed to list books")
	}
	return booksFromRows(newest(rows, limit)), nil
}

// newest keeps the first clampLimit(limit) rows of a created_at DESC listing.
func newest[T any](rows []T, limit int32) []T {
	if n := int(clampLimit(limit)); len(rows) > n {
		return rows[:n]
	}
	return rows
}
