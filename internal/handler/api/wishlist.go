package api

import (
	"net/http"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/handler"
	"github.com/google/uuid"
)

// WishlistHandler handles the signed-in user's wishlist.
type WishlistHandler struct {
	wishlist domain.WishlistService
}

func NewWishlistHandler(wishlist domain.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlist}
}

type addToWishlistRequest struct {
	BookID uuid.UUID `json:"bookId" validate:"required"`
}

// List handles GET /api/wishlist
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	summary, err := h.wishlist.List(r.Context(), userID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"wishlist": summary})
}

// Add handles POST /api/wishlist/add. A book that is already saved is
// reported with success false and status 200.
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req addToWishlistRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	res, err := h.wishlist.Add(r.Context(), userID, req.BookID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if res.AlreadyPresent {
		handler.Declined(w, r, http.StatusOK, domain.ErrAlreadyInWishlist.Message, handler.M{"item": res.Item})
		return
	}
	handler.Created(w, r, handler.M{"message": "Book added to wishlist", "item": res.Item})
}

// Remove handles DELETE /api/wishlist/{bookId}
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	bookID, err := handler.PathUUID(r, "bookId")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.wishlist.Remove(r.Context(), userID, bookID); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"message": "Book removed from wishlist"})
}

// Exists handles GET /api/wishlist/{bookId}/exists
func (h *WishlistHandler) Exists(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	bookID, err := handler.PathUUID(r, "bookId")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	exists, err := h.wishlist.Contains(r.Context(), userID, bookID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"exists": exists})
}

// Count handles GET /api/wishlist/count
func (h *WishlistHandler) Count(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	n, err := h.wishlist.Count(r.Context(), userID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"count": n})
}

// Clear handles DELETE /api/wishlist
func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.wishlist.Clear(r.Context(), userID); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"message": "Wishlist cleared"})
}

// MoveToCart handles POST /api/wishlist/{bookId}/move-to-cart
func (h *WishlistHandler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	bookID, err := handler.PathUUID(r, "bookId")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	cart, err := h.wishlist.MoveToCart(r.Context(), userID, bookID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"message": "Book moved to cart", "cart": cart})
}
