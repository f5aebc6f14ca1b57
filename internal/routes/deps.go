package routes

import (
	"github.com/dukerupert/bookworld/internal/handler/admin"
	"github.com/dukerupert/bookworld/internal/handler/api"
	"github.com/dukerupert/bookworld/internal/router"
)

// APIDeps contains dependencies for the customer API routes
type APIDeps struct {
	Health   *api.HealthHandler
	Auth     *api.AuthHandler
	Books    *api.BookHandler
	Cart     *api.CartHandler
	Wishlist *api.WishlistHandler
	Orders   *api.OrderHandler

	// AuthLimit throttles sign-in and sign-up per client.
	AuthLimit router.Middleware
}

// AdminDeps contains dependencies for admin routes
type AdminDeps struct {
	Books  *admin.BookHandler
	Orders *admin.OrderHandler
	Stats  *admin.StatsHandler
}
