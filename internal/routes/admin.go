package routes

import (
	"github.com/dukerupert/bookworld/internal/middleware"
	"github.com/dukerupert/bookworld/internal/router"
)

// RegisterAdminRoutes registers the catalog, account, order and statistics
// routes.
// Every route requires an administrator.
func RegisterAdminRoutes(r *router.Router, deps AdminDeps) {
	admin := r.Group(middleware.RequireAdmin)

	// Catalog
	admin.Get("/api/admin/books", deps.Stats.ListBooks)
	admin.Post("/api/admin/books", deps.Books.Create)
	admin.Put("/api/admin/books/{id}", deps.Books.Update)
	admin.Delete("/api/admin/books/{id}", deps.Books.Delete)
	admin.Put("/api/admin/books/{id}/stock", deps.Books.SetStock)
	admin.Post("/api/admin/books/{id}/image", deps.Books.UploadImage,
		middleware.MaxBodySize(middleware.UploadMaxBodySize+middleware.MB))
	admin.Post("/api/admin/categories", deps.Books.CreateCategory)

	// Orders
	admin.Get("/api/admin/orders", deps.Orders.List)
	admin.Get("/api/admin/orders/recent", deps.Orders.Recent)
	admin.Get("/api/admin/orders/{id}", deps.Orders.Get)
	admin.Patch("/api/admin/orders/{id}/status", deps.Orders.UpdateStatus)

	// Accounts
	admin.Get("/api/admin/users", deps.Stats.ListUsers)

	// Statistics
	admin.Get("/api/admin/stats/books", deps.Stats.Books)
	admin.Get("/api/admin/stats/users", deps.Stats.Users)
	admin.Get("/api/admin/stats/orders", deps.Stats.Orders)
}
