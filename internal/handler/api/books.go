package api

import (
	"net/http"
	"strings"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/handler"
	"github.com/dukerupert/bookworld/internal/telemetry"
)

const defaultSearchLimit = 20

// BookHandler serves the public catalog.
type BookHandler struct {
	books domain.BookService
}

func NewBookHandler(books domain.BookService) *BookHandler {
	return &BookHandler{books: books}
}

// parseFilter reads listing filters from the query string. Prices are in paise.
func parseFilter(r *http.Request) (domain.BookFilter, error) {
	q := r.URL.Query()
	f := domain.BookFilter{
		Category: strings.TrimSpace(q.Get("category")),
		Author:   strings.TrimSpace(q.Get("author")),
		Sort:     domain.BookSort(q.Get("sort")),
	}

	var err error
	if f.MinPriceCents, err = handler.QueryInt32(r, "minPrice", 0); err != nil {
		return f, err
	}
	if f.MaxPriceCents, err = handler.QueryInt32(r, "maxPrice", 0); err != nil {
		return f, err
	}
	if f.MinRating, err = handler.QueryFloat(r, "minRating"); err != nil {
		return f, err
	}
	if f.Page, err = handler.QueryInt32(r, "page", 1); err != nil {
		return f, err
	}
	if f.Limit, err = handler.QueryInt32(r, "limit", domain.DefaultPageSize); err != nil {
		return f, err
	}
	f.Normalize()
	return f, nil
}

func (h *BookHandler) list(w http.ResponseWriter, r *http.Request, filter domain.BookFilter) {
	page, err := h.books.ListBooks(r.Context(), filter)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{
		"books": page.Books,
		"pagination": handler.M{
			"page":  page.Page,
			"limit": page.Limit,
			"total": page.Total,
			"pages": page.Pages(),
		},
	})
}

// List handles GET /api/books
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	h.list(w, r, filter)
}

// ByCategory handles GET /api/books/category/{category}
func (h *BookHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	filter.Category = r.PathValue("category")
	h.list(w, r, filter)
}

// Search handles GET /api/books/search?q=
func (h *BookHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		handler.ErrorResponse(w, r, domain.NewValidationError("book.search", "q", "Search query is required"))
		return
	}
	limit, err := handler.QueryInt32(r, "limit", defaultSearchLimit)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	books, err := h.books.SearchBooks(r.Context(), query, limit)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"books": books, "count": len(books)})
}

// Featured handles GET /api/books/featured
func (h *BookHandler) Featured(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.FeaturedBooks(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"books": books})
}

// Authors handles GET /api/books/authors
func (h *BookHandler) Authors(w http.ResponseWriter, r *http.Request) {
	authors, err := h.books.ListAuthors(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"authors": authors})
}

// Categories handles GET /api/books/categories
func (h *BookHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.books.ListCategories(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"categories": categories})
}

// Get handles GET /api/books/{id}
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	book, err := h.books.GetBook(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if telemetry.Business != nil {
		telemetry.Business.BookViews.Inc()
	}
	handler.OK(w, r, handler.M{"book": book})
}
