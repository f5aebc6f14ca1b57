package postgres

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/repository"
	"github.com/dukerupert/bookworld/internal/storage"
	"github.com/dukerupert/bookworld/internal/telemetry"
	"github.com/google/uuid"
)

// Featured books are the highest rated titles at or above this rating.
const (
	featuredMinRating = 4.0
	featuredLimit     = 4
	searchLimit       = 20
)

// BookService implements domain.BookService using PostgreSQL.
type BookService struct {
	repo    repository.Querier
	storage storage.Storage
	logger  *slog.Logger
	now     func() time.Time
}

// Compile-time check that BookService implements domain.BookService.
var _ domain.BookService = (*BookService)(nil)

// NewBookService creates a new PostgreSQL-backed catalog. store may be nil
// when image uploads are not needed.
func NewBookService(repo repository.Querier, store storage.Storage, logger *slog.Logger) *BookService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookService{
		repo:    repo,
		storage: store,
		logger:  logger,
		now:     time.Now,
	}
}

func bookFromRow(row repository.Book) domain.Book {
	return domain.Book{
		ID:              fromPgUUID(row.ID),
		Title:           row.Title,
		Author:          row.Author,
		Description:     row.Description,
		Category:        row.Category,
		ISBN:            row.Isbn.String,
		Publisher:       row.Publisher.String,
		PublicationYear: row.PublicationYear.Int32,
		Pages:           row.Pages.Int32,
		Language:        row.Language,
		PriceCents:      row.PriceCents,
		Stock:           row.Stock,
		Rating:          row.Rating,
		ImageURL:        row.ImageUrl.String,
		ImageKey:        row.ImageKey.String,
		CreatedAt:       fromPgTime(row.CreatedAt),
		UpdatedAt:       fromPgTime(row.UpdatedAt),
	}
}

func booksFromRows(rows []repository.Book) []domain.Book {
	books := make([]domain.Book, len(rows))
	for i, row := range rows {
		books[i] = bookFromRow(row)
	}
	return books
}

// getBook loads a book through q so callers inside a transaction see their own writes.
func getBook(ctx context.Context, q repository.Querier, id uuid.UUID) (*domain.Book, error) {
	row, err := q.GetBook(ctx, pgUUID(id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrBookNotFound
		}
		return nil, dbError(err, "book.get", "failed to get book")
	}
	b := bookFromRow(row)
	return &b, nil
}

// =============================================================================
// CATALOG BROWSING
// =============================================================================

func (s *BookService) GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	return getBook(ctx, s.repo, id)
}

// ListBooks returns one page of books matching filter.
func (s *BookService) ListBooks(ctx context.Context, filter domain.BookFilter) (*domain.BookPage, error) {
	filter.Normalize()

	if filter.MaxPriceCents > 0 && filter.MinPriceCents > filter.MaxPriceCents {
		return nil, domain.Invalid("book.list", "Minimum price cannot exceed maximum price")
	}

	rows, err := s.repo.ListBooks(ctx, repository.ListBooksParams{
		Category:      filter.Category,
		Author:        filter.Author,
		MinPriceCents: filter.MinPriceCents,
		MaxPriceCents: filter.MaxPriceCents,
		MinRating:     filter.MinRating,
		Sort:          string(filter.Sort),
		Limit:         filter.Limit,
		Offset:        filter.Offset(),
	})
	if err != nil {
		return nil, dbError(err, "book.list", "failed to list books")
	}

	total, err := s.repo.CountBooks(ctx, repository.CountBooksParams{
		Category:      filter.Category,
		Author:        filter.Author,
		MinPriceCents: filter.MinPriceCents,
		MaxPriceCents: filter.MaxPriceCents,
		MinRating:     filter.MinRating,
	})
	if err != nil {
		return nil, dbError(err, "book.list", "failed to count books")
	}

	if telemetry.Business != nil {
		telemetry.Business.BookSearches.WithLabelValues(filterKind(filter)).Inc()
	}

	return &domain.BookPage{
		Books: booksFromRows(rows),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func filterKind(f domain.BookFilter) string {
	switch {
	case f.Category != "":
		return "category"
	case f.Author != "":
		return "author"
	default:
		return "none"
	}
}

// SearchBooks matches query against title, author and description.
func (s *BookService) SearchBooks(ctx context.Context, query string, limit int32) ([]domain.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("book.search", "q", "Search term is required")
	}
	if limit <= 0 || limit > domain.MaxPageSize {
		limit = searchLimit
	}

	rows, err := s.repo.SearchBooks(ctx, repository.SearchBooksParams{Query: query, Limit: limit})
	if err != nil {
		return nil, dbError(err, "book.search", "failed to search books")
	}

	if telemetry.Business != nil {
		telemetry.Business.BookSearches.WithLabelValues("search").Inc()
	}
	return booksFromRows(rows), nil
}

func (s *BookService) FeaturedBooks(ctx context.Context) ([]domain.Book, error) {
	rows, err := s.repo.ListFeaturedBooks(ctx, repository.ListFeaturedBooksParams{
		MinRating: featuredMinRating,
		Limit:     featuredLimit,
	})
	if err != nil {
		return nil, dbError(err, "book.featured", "failed to list featured books")
	}
	return booksFromRows(rows), nil
}

func (s *BookService) ListAuthors(ctx context.Context) ([]string, error) {
	authors, err := s.repo.ListAuthors(ctx)
	if err != nil {
		return nil, dbError(err, "book.authors", "failed to list authors")
	}
	return authors, nil
}

func (s *BookService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, dbError(err, "category.list", "failed to list categories")
	}
	cats := make([]domain.Category, len(rows))
	for i, row := range rows {
		cats[i] = domain.Category{
			ID:          fromPgUUID(row.ID),
			Name:        row.Name,
			Description: row.Description.String,
			CreatedAt:   fromPgTime(row.CreatedAt),
		}
	}
	return cats, nil
}

// =============================================================================
// STOCK
// =============================================================================

func (s *BookService) DecrementStock(ctx context.Context, id uuid.UUID, qty int32) error {
	return decrementStock(ctx, s.repo, id, qty)
}

func (s *BookService) IncrementStock(ctx context.Context, id uuid.UUID, qty int32) error {
	return incrementStock(ctx, s.repo, id, qty)
}

// decrementStock lowers stock only when enough units remain. The check and
// the write are one statement, so concurrent checkouts cannot oversell.
func decrementStock(ctx context.Context, q repository.Querier, id uuid.UUID, qty int32) error {
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}
	n, err := q.DecrementBookStock(ctx, repository.DecrementBookStockParams{
		ID:       pgUUID(id),
		Quantity: qty,
	})
	if err != nil {
		return dbError(err, "book.decrement_stock", "failed to decrement stock")
	}
	if n == 1 {
		return nil
	}

	b, err := getBook(ctx, q, id)
	if err != nil {
		return err
	}
	return domain.OutOfStock("book.decrement_stock", b.Title)
}

func incrementStock(ctx context.Context, q repository.Querier, id uuid.UUID, qty int32) error {
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}
	n, err := q.IncrementBookStock(ctx, repository.IncrementBookStockParams{
		ID:       pgUUID(id),
		Quantity: qty,
	})
	if err != nil {
		return dbError(err, "book.increment_stock", "failed to increment stock")
	}
	if n == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

// =============================================================================
// ADMIN OPERATIONS
// =============================================================================

func (s *BookService) CreateBook(ctx context.Context, params domain.BookParams) (*domain.Book, error) {
	if err := params.Validate("book.create"); err != nil {
		return nil, err
	}

	row, err := s.repo.CreateBook(ctx, repository.CreateBookParams{
		Title:           strings.TrimSpace(params.Title),
		Author:          strings.TrimSpace(params.Author),
		Description:     params.Description,
		Category:        strings.TrimSpace(params.Category),
		Isbn:            pgText(params.ISBN),
		Publisher:       pgText(params.Publisher),
		PublicationYear: pgInt4(params.PublicationYear),
		Pages:           pgInt4(params.Pages),
		Language:        params.Language,
		PriceCents:      params.PriceCents,
		Stock:           params.Stock,
		Rating:          params.Rating,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflict("book.create", "A book with this ISBN already exists")
		}
		return nil, dbError(err, "book.create", "failed to create book")
	}

	b := bookFromRow(row)
	s.logger.Info("book created", "book_id", b.ID, "title", b.Title)
	return &b, nil
}

func (s *BookService) UpdateBook(ctx context.Context, id uuid.UUID, params domain.BookParams) (*domain.Book, error) {
	if err := params.Validate("book.update"); err != nil {
		return nil, err
	}

	row, err := s.repo.UpdateBook(ctx, repository.UpdateBookParams{
		ID:              pgUUID(id),
		Title:           strings.TrimSpace(params.Title),
		Author:          strings.TrimSpace(params.Author),
		Description:     params.Description,
		Category:        strings.TrimSpace(params.Category),
		Isbn:            pgText(params.ISBN),
		Publisher:       pgText(params.Publisher),
		PublicationYear: pgInt4(params.PublicationYear),
		Pages:           pgInt4(params.Pages),
		Language:        params.Language,
		PriceCents:      params.PriceCents,
		Stock:           params.Stock,
		Rating:          params.Rating,
	})
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrBookNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.Conflict("book.update", "A book with this ISBN already exists")
		}
		return nil, dbError(err, "book.update", "failed to update book")
	}

	b := bookFromRow(row)
	return &b, nil
}

// DeleteBook removes the book and, best effort, its stored image.
func (s *BookService) DeleteBook(ctx context.Context, id uuid.UUID) error {
	b, err := getBook(ctx, s.repo, id)
	if err != nil {
		return err
	}

	n, err := s.repo.DeleteBook(ctx, pgUUID(id))
	if err != nil {
		return dbError(err, "book.delete", "failed to delete book")
	}
	if n == 0 {
		return domain.ErrBookNotFound
	}

	s.deleteImage(ctx, b.ImageKey)
	s.logger.Info("book deleted", "book_id", id, "title", b.Title)
	return nil
}

func (s *BookService) SetStock(ctx context.Context, id uuid.UUID, stock int32) (*domain.Book, error) {
	if stock < 0 {
		return nil, domain.NewValidationError("book.set_stock", "stock", "Stock must not be negative")
	}

	row, err := s.repo.SetBookStock(ctx, repository.SetBookStockParams{ID: pgUUID(id), Stock: stock})
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrBookNotFound
		}
		return nil, dbError(err, "book.set_stock", "failed to set stock")
	}

	b := bookFromRow(row)
	return &b, nil
}

// UploadImage stores a cover image and points the book at it. The previous
// image is deleted afterwards; a failure there is only logged.
func (s *BookService) UploadImage(ctx context.Context, id uuid.UUID, filename, contentType string, r io.Reader) (*domain.Book, error) {
	if s.storage == nil {
		return nil, domain.Errorf(domain.ENOTIMPL, "book.upload_image", "Image uploads are not configured")
	}

	old, err := getBook(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	key := storage.BookImageKey(filename, s.now())
	url, err := s.storage.Put(ctx, key, r, contentType)
	if err != nil {
		return nil, err
	}

	row, err := s.repo.SetBookImage(ctx, repository.SetBookImageParams{
		ID:       pgUUID(id),
		ImageUrl: pgText(url),
		ImageKey: pgText(key),
	})
	if err != nil {
		s.deleteImage(ctx, key)
		if isNoRows(err) {
			return nil, domain.ErrBookNotFound
		}
		return nil, dbError(err, "book.upload_image", "failed to save book image")
	}

	s.deleteImage(ctx, old.ImageKey)

	b := bookFromRow(row)
	return &b, nil
}

func (s *BookService) deleteImage(ctx context.Context, key string) {
	if key == "" || s.storage == nil {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to delete book image", "key", key, "error", err)
	}
}

func (s *BookService) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("category.create", "name", "Name is required")
	}

	row, err := s.repo.CreateCategory(ctx, repository.CreateCategoryParams{
		Name:        name,
		Description: pgText(strings.TrimSpace(description)),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrCategoryExists
		}
		return nil, dbError(err, "category.create", "failed to create category")
	}

	return &domain.Category{
		ID:          fromPgUUID(row.ID),
		Name:        row.Name,
		Description: row.Description.String,
		CreatedAt:   fromPgTime(row.CreatedAt),
	}, nil
}
