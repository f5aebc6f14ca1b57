package routes

import (
	"github.com/dukerupert/bookworld/internal/middleware"
	"github.com/dukerupert/bookworld/internal/router"
)

// RegisterAPIRoutes registers the customer API. r should carry the request
// timeout; stream is a router without it for long-lived responses.
func RegisterAPIRoutes(r, stream *router.Router, deps APIDeps) {
	r.Get("/api/health", deps.Health.Check)

	// Auth
	limited := r
	if deps.AuthLimit != nil {
		limited = r.Group(deps.AuthLimit)
	}
	limited.Post("/api/auth/register", deps.Auth.Register)
	limited.Post("/api/auth/login", deps.Auth.Login)
	limited.Post("/api/auth/google", deps.Auth.Google)

	// Catalog (public)
	r.Get("/api/books", deps.Books.List)
	r.Get("/api/books/search", deps.Books.Search)
	r.Get("/api/books/featured", deps.Books.Featured)
	r.Get("/api/books/authors", deps.Books.Authors)
	r.Get("/api/books/categories", deps.Books.Categories)
	r.Get("/api/books/category/{category}", deps.Books.ByCategory)
	r.Get("/api/books/{id}", deps.Books.Get)

	user := r.Group(middleware.RequireAuth)

	// Profile
	user.Get("/api/auth/me", deps.Auth.Me)
	user.Put("/api/auth/profile", deps.Auth.UpdateProfile)
	user.Post("/api/auth/profile/image", deps.Auth.UploadProfileImage,
		middleware.MaxBodySize(middleware.UploadMaxBodySize+middleware.MB))

	// Cart
	user.Get("/api/cart", deps.Cart.Get)
	user.Post("/api/cart/add", deps.Cart.Add)
	user.Put("/api/cart/items/{bookId}", deps.Cart.Update)
	user.Delete("/api/cart/items/{bookId}", deps.Cart.Remove)
	user.Delete("/api/cart", deps.Cart.Clear)
	stream.Get("/api/cart/events", deps.Cart.Events, middleware.RequireAuth)

	// Wishlist
	user.Get("/api/wishlist", deps.Wishlist.List)
	user.Post("/api/wishlist/add", deps.Wishlist.Add)
	user.Get("/api/wishlist/count", deps.Wishlist.Count)
	user.Delete("/api/wishlist", deps.Wishlist.Clear)
	user.Delete("/api/wishlist/{bookId}", deps.Wishlist.Remove)
	user.Get("/api/wishlist/{bookId}/exists", deps.Wishlist.Exists)
	user.Post("/api/wishlist/{bookId}/move-to-cart", deps.Wishlist.MoveToCart)

	// Orders
	user.Post("/api/orders", deps.Orders.Place)
	user.Get("/api/orders", deps.Orders.List)
	user.Get("/api/orders/stats", deps.Orders.Stats)
	user.Get("/api/orders/{id}", deps.Orders.Get)
	user.Post("/api/orders/{id}/cancel", deps.Orders.Cancel)
}
