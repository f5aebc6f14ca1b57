package domain

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// STATISTICS
// =============================================================================

// UserOrderStats summarises one customer's orders.
type UserOrderStats struct {
	TotalOrders       int   `json:"totalOrders"`
	TotalSpentCents   int64 `json:"totalSpent"`
	PendingOrders     int   `json:"pendingOrders"`
	CompletedOrders   int   `json:"completedOrders"`
	CancelledOrders   int   `json:"cancelledOrders"`
	AverageOrderCents int64 `json:"averageOrderValue"`
}

// BookStats is the admin catalog overview.
type BookStats struct {
	TotalBooks        int            `json:"totalBooks"`
	TotalValueCents   int64          `json:"totalValue"`
	LowStock          int            `json:"lowStock"`
	OutOfStock        int            `json:"outOfStock"`
	AveragePriceCents int64          `json:"averagePrice"`
	Categories        map[string]int `json:"categories"`
	Authors           map[string]int `json:"authors"`
}

// UserStats is the admin account overview.
type UserStats struct {
	TotalUsers        int `json:"totalUsers"`
	ActiveUsers       int `json:"activeUsers"`
	NewUsersThisMonth int `json:"newUsersThisMonth"`
}

// TopSeller is a book ranked by units sold.
type TopSeller struct {
	Title    string `json:"title"`
	Quantity int64  `json:"quantity"`
}

// OrderStats is the admin sales overview.
type OrderStats struct {
	TotalOrders       int              `json:"totalOrders"`
	TotalRevenueCents int64            `json:"totalRevenue"`
	StatusCounts      map[string]int   `json:"statusCounts"`
	AverageOrderCents int64            `json:"averageOrderValue"`
	MonthlyRevenue    map[string]int64 `json:"monthlyRevenue"`
	TopSellingBooks   []TopSeller      `json:"topSellingBooks"`
}

// ActiveWindow is how recently a user must have signed in to count as active.
const ActiveWindow = 30 * 24 * time.Hour

// TopSellerLimit caps the top selling list.
const TopSellerLimit = 5

// average divides total by n, rounding half away from zero.
func average(total int64, n int) int64 {
	if n == 0 {
		return 0
	}
	return decimal.NewFromInt(total).
		Div(decimal.NewFromInt(int64(n))).
		Round(0).
		IntPart()
}

// ComputeUserOrderStats reduces a customer's orders.
func ComputeUserOrderStats(orders []Order) *UserOrderStats {
	s := &UserOrderStats{TotalOrders: len(orders)}
	for _, o := range orders {
		s.TotalSpentCents += o.TotalCents
		switch o.Status {
		case OrderStatusPending:
			s.PendingOrders++
		case OrderStatusDelivered:
			s.CompletedOrders++
		case OrderStatusCancelled:
			s.CancelledOrders++
		}
	}
	s.AverageOrderCents = average(s.TotalSpentCents, s.TotalOrders)
	return s
}

// ComputeBookStats reduces the catalog.
func ComputeBookStats(books []Book) *BookStats {
	s := &BookStats{
		TotalBooks: len(books),
		Categories: make(map[string]int),
		Authors:    make(map[string]int),
	}
	var priceSum int64
	for _, b := range books {
		s.TotalValueCents += int64(b.PriceCents) * int64(b.Stock)
		priceSum += int64(b.PriceCents)
		if b.Stock == 0 {
			s.OutOfStock++
		}
		if b.Stock <= LowStockThreshold {
			s.LowStock++
		}
		if b.Category != "" {
			s.Categories[b.Category]++
		}
		if b.Author != "" {
			s.Authors[b.Author]++
		}
	}
	s.AveragePriceCents = average(priceSum, len(books))
	return s
}

// ComputeUserStats reduces the account list relative to now.
func ComputeUserStats(users []User, now time.Time) *UserStats {
	s := &UserStats{TotalUsers: len(users)}
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for _, u := range users {
		if u.LastLoginAt != nil && now.Sub(*u.LastLoginAt) <= ActiveWindow {
			s.ActiveUsers++
		}
		if !u.CreatedAt.Before(monthStart) {
			s.NewUsersThisMonth++
		}
	}
	return s
}

// MonthKey formats the monthly revenue bucket for t, e.g. "2024-3".
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%d-%d", t.Year(), int(t.Month()))
}

// ComputeOrderStats reduces all orders. Revenue counts every order except
// cancelled and refunded ones.
func ComputeOrderStats(orders []OrderDetail) *OrderStats {
	s := &OrderStats{
		TotalOrders:     len(orders),
		StatusCounts:    make(map[string]int),
		MonthlyRevenue:  make(map[string]int64),
		TopSellingBooks: []TopSeller{},
	}
	sold := make(map[string]int64)
	var revenueOrders int
	for _, o := range orders {
		s.StatusCounts[string(o.Status)]++
		if o.Status == OrderStatusCancelled || o.Status == OrderStatusRefunded {
			continue
		}
		revenueOrders++
		s.TotalRevenueCents += o.TotalCents
		s.MonthlyRevenue[MonthKey(o.CreatedAt)] += o.TotalCents
		for _, it := range o.Items {
			sold[it.Title] += int64(it.Quantity)
		}
	}
	s.AverageOrderCents = average(s.TotalRevenueCents, revenueOrders)

	for title, qty := range sold {
		s.TopSellingBooks = append(s.TopSellingBooks, TopSeller{Title: title, Quantity: qty})
	}
	sort.Slice(s.TopSellingBooks, func(i, j int) bool {
		a, b := s.TopSellingBooks[i], s.TopSellingBooks[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.Title < b.Title
	})
	if len(s.TopSellingBooks) > TopSellerLimit {
		s.TopSellingBooks = s.TopSellingBooks[:TopSellerLimit]
	}
	return s
}

// StatsService serves the admin dashboards.
type StatsService interface {
	BookStats(ctx context.Context) (*BookStats, error)
	UserStats(ctx context.Context) (*UserStats, error)
	OrderStats(ctx context.Context) (*OrderStats, error)

	// ListUsers and ListBooks return the newest rows first, at most limit.
	ListUsers(ctx context.Context, limit int32) ([]User, error)
	ListBooks(ctx context.Context, limit int32) ([]Book, error)
}

// FormatRupees renders minor units as a rupee amount, e.g. "₹250.00".
func FormatRupees(cents int64) string {
	return "₹" + decimal.New(cents, -2).StringFixed(2)
}
