package storage

import (
	"context"
	"io"

	"github.com/dukerupert/bookworld/internal"
)

// Storage defines the interface for file storage operations.
// Implementations exist for the local filesystem, Cloudflare R2 and Google Cloud Storage.
type Storage interface {
	// Put stores a file and returns its URL for retrieval.
	// The key should be built with ImageKey (e.g., "book-images/book-1700000000-cover.jpg").
	Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error)

	// Get retrieves a file by its key.
	// Returns an io.ReadCloser that must be closed by the caller.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file by its key.
	// Returns nil if the file doesn't exist (idempotent).
	Delete(ctx context.Context, key string) error

	// URL returns the public URL for accessing a stored file.
	URL(key string) string

	// Exists checks if a file exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)
}

// NewStorage creates a Storage implementation based on configuration.
func NewStorage(ctx context.Context, cfg internal.StorageConfig) (Storage, error) {
	switch cfg.Provider {
	case "local", "":
		return NewLocalStorage(cfg.LocalPath, cfg.LocalURL)
	case "r2":
		return NewR2Storage(ctx, R2Config{
			AccountID:   cfg.R2AccountID,
			AccessKeyID: cfg.R2AccessKeyID,
			SecretKey:   cfg.R2SecretKey,
			BucketName:  cfg.R2BucketName,
			PublicURL:   cfg.R2PublicURL,
			Endpoint:    cfg.R2Endpoint,
		})
	case "gcs":
		return NewGCSStorage(ctx, GCSConfig{
			Bucket:          cfg.GCSBucket,
			CredentialsFile: cfg.GCSCredentialsFile,
			PublicURL:       cfg.GCSPublicURL,
		})
	default:
		return nil, ErrUnknownProvider(cfg.Provider)
	}
}
