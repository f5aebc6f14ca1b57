package service

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/events"
	"github.com/google/uuid"
)

// mockUserService implements domain.UserService with function fields.
type mockUserService struct {
	RegisterFunc        func(ctx context.Context, params domain.RegisterParams) (*domain.User, error)
	AuthenticateFunc    func(ctx context.Context, email, password string) (*domain.User, error)
	UpsertFederatedFunc func(ctx context.Context, identity domain.FederatedIdentity) (*domain.User, error)
	GetUserFunc         func(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

func (m *mockUserService) Register(ctx context.Context, params domain.RegisterParams) (*domain.User, error) {
	return m.RegisterFunc(ctx, params)
}

func (m *mockUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	return m.AuthenticateFunc(ctx, email, password)
}

func (m *mockUserService) UpsertFederated(ctx context.Context, identity domain.FederatedIdentity) (*domain.User, error) {
	return m.UpsertFederatedFunc(ctx, identity)
}

func (m *mockUserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetUserFunc == nil {
		return nil, domain.ErrUserNotFound
	}
	return m.GetUserFunc(ctx, id)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, id uuid.UUID, params domain.UpdateProfileParams) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (m *mockUserService) UploadProfileImage(ctx context.Context, id uuid.UUID, filename, contentType string, r io.Reader) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

type verifierFunc func(ctx context.Context, idToken string) (*domain.FederatedIdentity, error)

func (f verifierFunc) Verify(ctx context.Context, idToken string) (*domain.FederatedIdentity, error) {
	return f(ctx, idToken)
}

// catalogMap serves books from a map.
type catalogMap map[uuid.UUID]*domain.Book

func (c catalogMap) GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	if b, ok := c[id]; ok {
		return b, nil
	}
	return nil, domain.ErrBookNotFound
}

// mockCart implements domain.CartService; only AddLine is used.
type mockCart struct {
	domain.CartService
	AddLineFunc func(ctx context.Context, userID, bookID uuid.UUID, quantity int32) (*domain.CartSummary, error)
}

func (m *mockCart) AddLine(ctx context.Context, userID, bookID uuid.UUID, quantity int32) (*domain.CartSummary, error) {
	return m.AddLineFunc(ctx, userID, bookID, quantity)
}

// memoryWishlist is an in-memory domain.WishlistStore.
type memoryWishlist struct {
	mu    sync.Mutex
	items map[uuid.UUID]map[uuid.UUID]domain.WishlistItem

	deleteErr error
}

func newMemoryWishlist() *memoryWishlist {
	return &memoryWishlist{items: make(map[uuid.UUID]map[uuid.UUID]domain.WishlistItem)}
}

func (m *memoryWishlist) Insert(ctx context.Context, userID uuid.UUID, item domain.WishlistItem) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items[userID] == nil {
		m.items[userID] = make(map[uuid.UUID]domain.WishlistItem)
	}
	if _, ok := m.items[userID][item.BookID]; ok {
		return false, nil
	}
	m.items[userID][item.BookID] = item
	return true, nil
}

func (m *memoryWishlist) Get(ctx context.Context, userID, bookID uuid.UUID) (*domain.WishlistItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[userID][bookID]
	if !ok {
		return nil, domain.ErrWishlistItemNotFound
	}
	return &item, nil
}

func (m *memoryWishlist) Delete(ctx context.Context, userID, bookID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.items[userID], bookID)
	return nil
}

func (m *memoryWishlist) List(ctx context.Context, userID uuid.UUID) ([]domain.WishlistItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]domain.WishlistItem, 0, len(m.items[userID]))
	for _, it := range m.items[userID] {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].AddedAt.After(items[j].AddedAt) })
	return items, nil
}

func (m *memoryWishlist) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.items[userID])), nil
}

func (m *memoryWishlist) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, userID)
	return nil
}

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

func (r *recorder) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}
