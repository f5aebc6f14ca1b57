package domain

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// CATALOG DOMAIN ERRORS
// =============================================================================

var (
	ErrBookNotFound      = &Error{Code: ENOTFOUND, Message: "Book not found"}
	ErrCategoryNotFound  = &Error{Code: ENOTFOUND, Message: "Category not found"}
	ErrCategoryExists    = &Error{Code: ECONFLICT, Message: "Category already exists"}
	ErrInsufficientStock = &Error{Code: ECONFLICT, Message: "Not enough stock available"}
)

// OutOfStock reports that a book cannot cover a requested quantity. The
// message names the title so a checkout failure tells the customer which
// line to fix.
func OutOfStock(op, title string) error {
	return &Error{
		Code:    ECONFLICT,
		Op:      op,
		Message: "Not enough stock for " + title,
	}
}

// =============================================================================
// CATALOG DOMAIN TYPES
// =============================================================================

// LowStockThreshold is the stock level at or below which a book is reported
// as low on stock.
const LowStockThreshold = 5

// Book is a catalog entry. Prices are integer minor units (paise).
type Book struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	ISBN            string    `json:"isbn,omitempty"`
	Publisher       string    `json:"publisher,omitempty"`
	PublicationYear int32     `json:"publicationYear,omitempty"`
	Pages           int32     `json:"pages,omitempty"`
	Language        string    `json:"language"`
	PriceCents      int32     `json:"price"`
	Stock           int32     `json:"stock"`
	Rating          float64   `json:"rating"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	ImageKey        string    `json:"-"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// InStock reports whether the book can cover qty units.
func (b *Book) InStock(qty int32) bool {
	return qty > 0 && b.Stock >= qty
}

// Category groups books for browsing.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// BookSort names a catalog ordering.
type BookSort string

const (
	SortNewest    BookSort = "newest"
	SortPriceAsc  BookSort = "price_asc"
	SortPriceDesc BookSort = "price_desc"
	SortTitleAsc  BookSort = "title_asc"
	SortTitleDesc BookSort = "title_desc"
	SortRating    BookSort = "rating"
)

// Valid reports whether s is a known ordering.
func (s BookSort) Valid() bool {
	switch s {
	case SortNewest, SortPriceAsc, SortPriceDesc, SortTitleAsc, SortTitleDesc, SortRating:
		return true
	}
	return false
}

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// BookFilter narrows a catalog listing. Zero values mean "no filter".
type BookFilter struct {
	Category      string
	Author        string
	MinPriceCents int32
	MaxPriceCents int32
	MinRating     float64
	Sort          BookSort
	Page          int32
	Limit         int32
}

// Normalize applies defaults and clamps paging values.
func (f *BookFilter) Normalize() {
	if !f.Sort.Valid() {
		f.Sort = SortNewest
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
}

// Offset returns the row offset for the filter's page.
func (f BookFilter) Offset() int32 {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// BookPage is one page of a catalog listing.
type BookPage struct {
	Books []Book `json:"books"`
	Total int64  `json:"total"`
	Page  int32  `json:"page"`
	Limit int32  `json:"limit"`
}

// Pages returns the number of pages for the listing.
func (p BookPage) Pages() int64 {
	if p.Limit <= 0 {
		return 0
	}
	return (p.Total + int64(p.Limit) - 1) / int64(p.Limit)
}

// BookParams holds the editable fields of a book.
type BookParams struct {
	Title           string  `json:"title" validate:"required,max=300"`
	Author          string  `json:"author" validate:"required,max=200"`
	Description     string  `json:"description"`
	Category        string  `json:"category" validate:"required"`
	ISBN            string  `json:"isbn"`
	Publisher       string  `json:"publisher"`
	PublicationYear int32   `json:"publicationYear" validate:"gte=0"`
	Pages           int32   `json:"pages" validate:"gte=0"`
	Language        string  `json:"language"`
	PriceCents      int32   `json:"price" validate:"gte=0"`
	Stock           int32   `json:"stock" validate:"gte=0"`
	Rating          float64 `json:"rating" validate:"gte=0,lte=5"`
}

// Validate checks invariants that hold regardless of the transport.
func (p *BookParams) Validate(op string) error {
	var err error
	if p.Title == "" {
		err = AddFieldError(err, "title", "Title is required")
	}
	if p.Author == "" {
		err = AddFieldError(err, "author", "Author is required")
	}
	if p.PriceCents < 0 {
		err = AddFieldError(err, "price", "Price must not be negative")
	}
	if p.Stock < 0 {
		err = AddFieldError(err, "stock", "Stock must not be negative")
	}
	if p.Rating < 0 || p.Rating > 5 {
		err = AddFieldError(err, "rating", "Rating must be between 0 and 5")
	}
	if err != nil {
		err.(*ValidationError).Op = op
	}
	if p.Language == "" {
		p.Language = "English"
	}
	return err
}

// CatalogReader is the read side of the catalog used by the cart, wishlist
// and order builder.
type CatalogReader interface {
	// GetBook returns the book or ErrBookNotFound.
	GetBook(ctx context.Context, id uuid.UUID) (*Book, error)
}

// BookService provides catalog browsing and administration.
type BookService interface {
	CatalogReader

	ListBooks(ctx context.Context, filter BookFilter) (*BookPage, error)
	SearchBooks(ctx context.Context, query string, limit int32) ([]Book, error)
	FeaturedBooks(ctx context.Context) ([]Book, error)
	ListAuthors(ctx context.Context) ([]string, error)
	ListCategories(ctx context.Context) ([]Category, error)

	// DecrementStock atomically lowers stock when at least qty units remain.
	// Returns an OutOfStock error otherwise; stock never goes negative.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int32) error

	// IncrementStock returns qty units to stock.
	IncrementStock(ctx context.Context, id uuid.UUID, qty int32) error

	// Admin operations
	CreateBook(ctx context.Context, params BookParams) (*Book, error)
	UpdateBook(ctx context.Context, id uuid.UUID, params BookParams) (*Book, error)
	DeleteBook(ctx context.Context, id uuid.UUID) error
	SetStock(ctx context.Context, id uuid.UUID, stock int32) (*Book, error)
	UploadImage(ctx context.Context, id uuid.UUID, filename, contentType string, r io.Reader) (*Book, error)
	CreateCategory(ctx context.Context, name, description string) (*Category, error)
}
