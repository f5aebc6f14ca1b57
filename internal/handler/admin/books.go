// Package admin holds the catalog, order and statistics handlers for
// administrators.
package admin

import (
	"net/http"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/handler"
	"github.com/dukerupert/bookworld/internal/middleware"
)

// BookHandler manages the catalog.
type BookHandler struct {
	books domain.BookService
}

func NewBookHandler(books domain.BookService) *BookHandler {
	return &BookHandler{books: books}
}

type stockRequest struct {
	Stock *int32 `json:"stock" validate:"required,gte=0"`
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// Create handles POST /api/admin/books
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.BookParams
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	book, err := h.books.CreateBook(r.Context(), req)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	middleware.GetLogger(r.Context()).Info("book created", "book_id", book.ID, "title", book.Title)
	handler.Created(w, r, handler.M{"message": "Book created successfully", "book": book})
}

// Update handles PUT /api/admin/books/{id}
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req domain.BookParams
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	book, err := h.books.UpdateBook(r.Context(), id, req)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"message": "Book updated successfully", "book": book})
}

// Delete handles DELETE /api/admin/books/{id}
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.books.DeleteBook(r.Context(), id); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	middleware.GetLogger(r.Context()).Info("book deleted", "book_id", id)
	handler.OK(w, r, handler.M{"message": "Book deleted successfully"})
}

// SetStock handles PUT /api/admin/books/{id}/stock
func (h *BookHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req stockRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	book, err := h.books.SetStock(r.Context(), id, *req.Stock)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"message": "Stock updated successfully", "book": book})
}

// UploadImage handles POST /api/admin/books/{id}/image
func (h *BookHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	upload, err := handler.ReadImage(r, "image")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	defer upload.Close()

	book, err := h.books.UploadImage(r.Context(), id, upload.Filename, upload.ContentType, upload.Body)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{
		"message":  "Image uploaded successfully",
		"imageUrl": book.ImageURL,
		"book":     book,
	})
}

// CreateCategory handles POST /api/admin/categories
func (h *BookHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	category, err := h.books.CreateCategory(r.Context(), req.Name, req.Description)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.Created(w, r, handler.M{"message": "Category created successfully", "category": category})
}
