package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dukerupert/bookworld/internal/domain"
)

// MaxImageSize is the largest accepted image upload.
const MaxImageSize = 5 * 1024 * 1024

var allowedImageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

// Upload is an image read from a multipart form.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        multipart.File
}

// Close releases the uploaded file.
func (u *Upload) Close() error {
	return u.Body.Close()
}

// ReadImage parses a multipart form and returns the image in field. The
// caller must Close the result.
func ReadImage(r *http.Request, field string) (*Upload, error) {
	if err := r.ParseMultipartForm(MaxImageSize + 1024*1024); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, domain.Errorf(domain.ETOOLARGE, "upload", "Image must be smaller than 5MB")
		}
		return nil, domain.Invalid("upload", "Invalid form data")
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, domain.Invalid("upload", "No image file provided")
	}

	if err := validateImageUpload(header); err != nil {
		file.Close()
		return nil, err
	}

	// Sniff the real type; the client-supplied header is not trusted.
	buf := make([]byte, 512)
	n, _ := io.ReadFull(file, buf)
	contentType := http.DetectContentType(buf[:n])
	if !strings.HasPrefix(contentType, "image/") {
		file.Close()
		return nil, domain.Invalid("upload", "Only image files are allowed")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, domain.Internal(err, "upload", "failed to rewind upload")
	}

	return &Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	}, nil
}

func validateImageUpload(header *multipart.FileHeader) error {
	if header.Size > MaxImageSize {
		return domain.Errorf(domain.ETOOLARGE, "upload", "Image must be smaller than 5MB (current: %.1fMB)", float64(header.Size)/(1024*1024))
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		return domain.Invalid("upload", "Only JPEG, PNG, WebP and GIF images are supported")
	}
	return nil
}

// NewImageForm builds a multipart body holding one image field. Tests use it
// to drive upload handlers.
func NewImageForm(field, filename string, content []byte) (*bytes.Buffer, string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, "", fmt.Errorf("failed to write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close form: %w", err)
	}
	return &body, mw.FormDataContentType(), nil
}
