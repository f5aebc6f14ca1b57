package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/middleware"
	"github.com/dukerupert/bookworld/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Embedded interfaces panic if a test reaches a method it did not stub.

type fakeBooks struct {
	domain.BookService
	getBook    func(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	listBooks  func(ctx context.Context, f domain.BookFilter) (*domain.BookPage, error)
	search     func(ctx context.Context, q string, limit int32) ([]domain.Book, error)
	categories []domain.Category
}

func (f *fakeBooks) GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	return f.getBook(ctx, id)
}

func (f *fakeBooks) ListBooks(ctx context.Context, filter domain.BookFilter) (*domain.BookPage, error) {
	return f.listBooks(ctx, filter)
}

func (f *fakeBooks) SearchBooks(ctx context.Context, q string, limit int32) ([]domain.Book, error) {
	return f.search(ctx, q, limit)
}

func (f *fakeBooks) ListCategories(context.Context) ([]domain.Category, error) {
	return f.categories, nil
}

type fakeCart struct {
	domain.CartService
	summary  *domain.CartSummary
	err      error
	addedQty int32
	updated  int32
	cleared  bool
}

func (f *fakeCart) GetCart(context.Context, uuid.UUID) (*domain.CartSummary, error) {
	return f.summary, f.err
}

func (f *fakeCart) AddLine(_ context.Context, _, _ uuid.UUID, qty int32) (*domain.CartSummary, error) {
	f.addedQty = qty
	return f.summary, f.err
}

func (f *fakeCart) UpdateLineQuantity(_ context.Context, _, _ uuid.UUID, qty int32) (*domain.CartSummary, error) {
	f.updated = qty
	return f.summary, f.err
}

func (f *fakeCart) Clear(context.Context, uuid.UUID) error {
	f.cleared = true
	return f.err
}

type fakeWishlist struct {
	domain.WishlistService
	addResult *domain.WishlistAddResult
	contains  bool
	moveErr   error
}

func (f *fakeWishlist) Add(context.Context, uuid.UUID, uuid.UUID) (*domain.WishlistAddResult, error) {
	return f.addResult, nil
}

func (f *fakeWishlist) Contains(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return f.contains, nil
}

func (f *fakeWishlist) Count(context.Context, uuid.UUID) (int64, error) {
	return 3, nil
}

func (f *fakeWishlist) MoveToCart(context.Context, uuid.UUID, uuid.UUID) (*domain.CartSummary, error) {
	if f.moveErr != nil {
		return nil, f.moveErr
	}
	return &domain.CartSummary{ItemCount: 1}, nil
}

type fakeOrders struct {
	domain.OrderService
	placed    domain.PlaceOrderParams
	place     func(domain.PlaceOrderParams) (*domain.OrderDetail, error)
	cancelErr error
	listLimit int32
}

func (f *fakeOrders) PlaceOrder(_ context.Context, p domain.PlaceOrderParams) (*domain.OrderDetail, error) {
	f.placed = p
	return f.place(p)
}

func (f *fakeOrders) ListOrders(_ context.Context, _ uuid.UUID, limit int32) ([]domain.Order, error) {
	f.listLimit = limit
	return []domain.Order{}, nil
}

func (f *fakeOrders) CancelOrder(_ context.Context, userID, orderID uuid.UUID) (*domain.OrderDetail, error) {
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	return &domain.OrderDetail{Order: domain.Order{ID: orderID, UserID: userID, Status: domain.OrderStatusCancelled}}, nil
}

type fakeAuth struct {
	service.AuthService
	login func(email, password string) (*service.AuthResult, error)
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*service.AuthResult, error) {
	return f.login(email, password)
}

// request builds a request, optionally JSON-encoding body and signing in as userID.
func request(t *testing.T, method, target string, body any, userID uuid.UUID) *http.Request {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		ctx := context.WithValue(req.Context(), middleware.PrincipalContextKey, &domain.Principal{UserID: userID})
		req = req.WithContext(ctx)
	}
	return req
}

// serve routes req through a mux so path values are populated.
func serve(pattern string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}
