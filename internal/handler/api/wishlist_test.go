package api

import (
	"net/http"
	"testing"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistHandler_Add(t *testing.T) {
	userID := uuid.New()
	bookID := uuid.New()
	item := domain.WishlistItem{BookID: bookID, Title: "Train to Pakistan", PriceCents: 39900}

	t.Run("new item", func(t *testing.T) {
		h := NewWishlistHandler(&fakeWishlist{addResult: &domain.WishlistAddResult{Item: item}})

		rec := serve("POST /api/wishlist/add", h.Add,
			request(t, http.MethodPost, "/api/wishlist/add", map[string]any{"bookId": bookID}, userID))

		require.Equal(t, http.StatusCreated, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Train to Pakistan", body["item"].(map[string]any)["title"])
	})

	t.Run("already present is not an error", func(t *testing.T) {
		h := NewWishlistHandler(&fakeWishlist{addResult: &domain.WishlistAddResult{Item: item, AlreadyPresent: true}})

		rec := serve("POST /api/wishlist/add", h.Add,
			request(t, http.MethodPost, "/api/wishlist/add", map[string]any{"bookId": bookID}, userID))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Book is already in your wishlist", body["error"])
		assert.NotContains(t, body, "code")
	})
}

func TestWishlistHandler_ExistsAndCount(t *testing.T) {
	userID := uuid.New()
	h := NewWishlistHandler(&fakeWishlist{contains: true})

	rec := serve("GET /api/wishlist/{bookId}/exists", h.Exists,
		request(t, http.MethodGet, "/api/wishlist/"+uuid.NewString()+"/exists", nil, userID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["exists"])

	rec = serve("GET /api/wishlist/count", h.Count, request(t, http.MethodGet, "/api/wishlist/count", nil, userID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), decode(t, rec)["count"])
}

func TestWishlistHandler_MoveToCart(t *testing.T) {
	userID := uuid.New()
	bookID := uuid.New()

	rec := serve("POST /api/wishlist/{bookId}/move-to-cart", NewWishlistHandler(&fakeWishlist{}).MoveToCart,
		request(t, http.MethodPost, "/api/wishlist/"+bookID.String()+"/move-to-cart", nil, userID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Book moved to cart", decode(t, rec)["message"])

	rec = serve("POST /api/wishlist/{bookId}/move-to-cart", NewWishlistHandler(&fakeWishlist{moveErr: domain.ErrWishlistItemNotFound}).MoveToCart,
		request(t, http.MethodPost, "/api/wishlist/"+bookID.String()+"/move-to-cart", nil, userID))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve("POST /api/wishlist/{bookId}/move-to-cart", NewWishlistHandler(&fakeWishlist{moveErr: domain.ErrInsufficientStock}).MoveToCart,
		request(t, http.MethodPost, "/api/wishlist/"+bookID.String()+"/move-to-cart", nil, userID))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
