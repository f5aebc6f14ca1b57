package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/events"
	"github.com/dukerupert/bookworld/internal/repository"
	"github.com/dukerupert/bookworld/internal/telemetry"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects published events.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) ofType(t events.Type) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func newCartFixture(opts CartOptions) (*fakeDB, *CartService, *recorder) {
	db := newFakeDB()
	rec := &recorder{}
	svc := NewCartService(db, NewBookService(db, nil, nil), rec, nil, opts)
	return db, svc, rec
}

func TestCartService_AddLineMergesSameBook(t *testing.T) {
	ctx := context.Background()
	db, svc, rec := newCartFixture(CartOptions{})
	userID := uuid.New()
	bookID := db.addBook("Malgudi Days", 25000, 10)

	_, err := svc.AddLine(ctx, userID, bookID, 1)
	require.NoError(t, err)
	summary, err := svc.AddLine(ctx, userID, bookID, 2)
	require.NoError(t, err)

	require.Len(t, summary.Items, 1)
	assert.Equal(t, int32(3), summary.Items[0].Quantity)
	assert.Equal(t, int64(3), summary.ItemCount)
	assert.Equal(t, int64(75000), summary.SubtotalCents)
	assert.Len(t, rec.ofType(events.TypeCartUpdated), 2)
}

func TestCartService_AddLineRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	db, svc, _ := newCartFixture(CartOptions{})
	userID := uuid.New()
	bookID := db.addBook("Godan", 30000, 1)

	_, err := svc.AddLine(ctx, userID, bookID, 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidQuantity))

	_, err = svc.AddLine(ctx, userID, uuid.New(), 1)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))

	assert.Empty(t, db.cart[userID])
}

func TestCartService_LineQuantityBound(t *testing.T) {
	ctx := context.Background()
	db, svc, _ := newCartFixture(CartOptions{})
	userID := uuid.New()
	a := db.addBook("Malgudi Days", 100, 1000)
	b := db.addBook("Godan", 100, 1000)

	_, err := svc.AddLine(ctx, userID, a, 1<<30)
	assert.ErrorIs(t, err, domain.ErrQuantityTooLarge)
	assert.Empty(t, db.cart[userID])

	_, err = svc.AddLine(ctx, userID, a, 60)
	require.NoError(t, err)
	_, err = svc.AddLine(ctx, userID, a, 40)
	assert.ErrorIs(t, err, domain.ErrQuantityTooLarge)
	assert.Equal(t, int32(60), db.cart[userID][0].Quantity)

	_, err = svc.UpdateLineQuantity(ctx, userID, a, domain.MaxLineQuantity+1)
	assert.ErrorIs(t, err, domain.ErrQuantityTooLarge)

	_, err = svc.UpdateLineQuantity(ctx, userID, a, domain.MaxLineQuantity)
	require.NoError(t, err)
	summary, err := svc.AddLine(ctx, userID, b, domain.MaxLineQuantity)
	require.NoError(t, err)
	assert.Equal(t, int64(2*domain.MaxLineQuantity), summary.ItemCount)
	assert.Equal(t, int64(2*domain.MaxLineQuantity*100), summary.SubtotalCents)
}

// staleCartReads hides existing lines from GetCartLine, as when another
// request adds the same book between the read and the upsert.
type staleCartReads struct{ *fakeDB }

func (s staleCartReads) GetCartLine(ctx context.Context, arg repository.GetCartLineParams) (repository.CartLine, error) {
	return repository.CartLine{}, pgx.ErrNoRows
}

func TestCartService_AddLineConcurrentOverflow(t *testing.T) {
	ctx := context.Background()
	db := newFakeDB()
	svc := NewCartService(staleCartReads{db}, NewBookService(db, nil, nil), &recorder{}, nil, CartOptions{})
	userID := uuid.New()
	bookID := db.addBook("Malgudi Days", 100, 1000)

	_, err := svc.AddLine(ctx, userID, bookID, 90)
	require.NoError(t, err)

	_, err = svc.AddLine(ctx, userID, bookID, 20)
	assert.ErrorIs(t, err, domain.ErrQuantityTooLarge)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	assert.Equal(t, int32(90), db.cart[userID][0].Quantity)
}

func TestCartService_AddLineStockPolicy(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	// Adds are not checked against stock unless enforced.
	db, svc, _ := newCartFixture(CartOptions{})
	bookID := db.addBook("Gitanjali", 15000, 1)
	_, err := svc.AddLine(ctx, userID, bookID, 5)
	require.NoError(t, err)

	db, svc, _ = newCartFixture(CartOptions{EnforceStockOnAdd: true})
	bookID = db.addBook("Gitanjali", 15000, 2)
	_, err = svc.AddLine(ctx, userID, bookID, 2)
	require.NoError(t, err)
	_, err = svc.AddLine(ctx, userID, bookID, 1)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, int32(2), db.cart[userID][0].Quantity)
}

func TestCartService_UpdateLineQuantity(t *testing.T) {
	ctx := context.Background()
	db, svc, _ := newCartFixture(CartOptions{})
	userID := uuid.New()
	bookID := db.addBook("The Guide", 20000, 4)

	_, err := svc.AddLine(ctx, userID, bookID, 1)
	require.NoError(t, err)

	summary, err := svc.UpdateLineQuantity(ctx, userID, bookID, 4)
	require.NoError(t, err)
	assert.Equal(t, int32(4), summary.Items[0].Quantity)

	_, err = svc.UpdateLineQuantity(ctx, userID, bookID, 5)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	_, err = svc.UpdateLineQuantity(ctx, userID, db.addBook("Other", 100, 5), 1)
	assert.True(t, errors.Is(err, domain.ErrCartItemNotFound))
}

func TestCartService_UpdateToZeroOrLessRemoves(t *testing.T) {
	for _, qty := range []int32{0, -1} {
		ctx := context.Background()
		db, svc, _ := newCartFixture(CartOptions{})
		userID := uuid.New()
		keep := db.addBook("Keep", 100, 5)
		drop := db.addBook("Drop", 200, 5)

		_, err := svc.AddLine(ctx, userID, keep, 1)
		require.NoError(t, err)
		_, err = svc.AddLine(ctx, userID, drop, 1)
		require.NoError(t, err)

		summary, err := svc.UpdateLineQuantity(ctx, userID, drop, qty)
		require.NoError(t, err)
		require.Len(t, summary.Items, 1, "qty %d", qty)
		assert.Equal(t, keep, summary.Items[0].BookID)
		assert.Equal(t, int64(100), summary.SubtotalCents)
	}
}

func TestCartService_RemoveLineIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, svc, _ := newCartFixture(CartOptions{})
	userID := uuid.New()
	bookID := db.addBook("Train to Pakistan", 35000, 3)

	_, err := svc.AddLine(ctx, userID, bookID, 1)
	require.NoError(t, err)

	summary, err := svc.RemoveLine(ctx, userID, bookID)
	require.NoError(t, err)
	assert.Empty(t, summary.Items)

	summary, err = svc.RemoveLine(ctx, userID, bookID)
	require.NoError(t, err)
	assert.Zero(t, summary.SubtotalCents)
}

func TestCartService_SnapshotPriceAndDrift(t *testing.T) {
	ctx := context.Background()
	db, svc, _ := newCartFixture(CartOptions{})
	userID := uuid.New()
	bookID := db.addBook("Kanthapura", 10000, 5)
	gone := db.addBook("Withdrawn", 5000, 5)

	_, err := svc.AddLine(ctx, userID, bookID, 2)
	require.NoError(t, err)
	_, err = svc.AddLine(ctx, userID, gone, 1)
	require.NoError(t, err)

	b := db.books[bookID]
	b.PriceCents = 12000
	db.books[bookID] = b
	delete(db.books, gone)

	summary, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, summary.Items, 2)

	line := summary.Items[0]
	assert.Equal(t, int32(10000), line.PriceCents)
	assert.Equal(t, int32(12000), line.CurrentPriceCents)
	assert.True(t, line.PriceChanged)
	assert.True(t, line.Available)
	assert.False(t, summary.Items[1].Available)
	assert.Equal(t, int64(25000), summary.SubtotalCents)
}

func TestCartService_Clear(t *testing.T) {
	ctx := context.Background()
	db, svc, rec := newCartFixture(CartOptions{})
	userID := uuid.New()
	_, err := svc.AddLine(ctx, userID, db.addBook("A", 100, 5), 1)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, userID))

	summary, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, summary.Items)

	updates := rec.ofType(events.TypeCartUpdated)
	last := updates[len(updates)-1].Payload.(events.CartUpdated)
	assert.Empty(t, last.Lines)
}

func TestCartService_LookupsAreNotBookViews(t *testing.T) {
	m := telemetry.NewBusinessMetrics("test", prometheus.NewRegistry())
	prev := telemetry.Business
	telemetry.Business = m
	t.Cleanup(func() { telemetry.Business = prev })

	ctx := context.Background()
	db, svc, _ := newCartFixture(CartOptions{})
	userID := uuid.New()
	bookID := db.addBook("Godan", 30000, 5)

	_, err := svc.AddLine(ctx, userID, bookID, 1)
	require.NoError(t, err)
	_, err = svc.UpdateLineQuantity(ctx, userID, bookID, 2)
	require.NoError(t, err)
	_, err = svc.GetCart(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CartItemsAdded))
	assert.Zero(t, testutil.ToFloat64(m.BookViews))
}
