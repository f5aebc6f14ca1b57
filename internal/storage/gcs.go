package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSConfig contains configuration for Google Cloud Storage.
type GCSConfig struct {
	Bucket string

	// CredentialsFile is a service account JSON file. Empty means
	// application default credentials.
	CredentialsFile string

	// PublicURL overrides https://storage.googleapis.com/<bucket>.
	PublicURL string
}

// GCSStorage implements Storage on a publicly readable GCS bucket.
type GCSStorage struct {
	client    *gcs.Client
	bucket    string
	publicURL string
}

func NewGCSStorage(ctx context.Context, cfg GCSConfig) (*GCSStorage, error) {
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, ErrGCSBucketRequired
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	publicURL := strings.TrimSuffix(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = "https://storage.googleapis.com/" + bucket
	}

	return &GCSStorage{client: client, bucket: bucket, publicURL: publicURL}, nil
}

func (s *GCSStorage) object(key string) *gcs.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(key)
}

func (s *GCSStorage) Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	w := s.object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000, immutable"

	if _, err := io.Copy(w, content); err != nil {
		_ = w.Close()
		return "", errBackend("upload", err)
	}
	if err := w.Close(); err != nil {
		return "", errBackend("upload", err)
	}

	return s.URL(key), nil
}

func (s *GCSStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, ErrFileNotFound(key)
		}
		return nil, errBackend("read", err)
	}
	return r, nil
}

func (s *GCSStorage) Delete(ctx context.Context, key string) error {
	err := s.object(key).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return errBackend("delete", err)
	}
	return nil
}

// URL escapes each path segment and keeps the separators.
func (s *GCSStorage) URL(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return s.publicURL + "/" + strings.Join(parts, "/")
}

func (s *GCSStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.object(key).Attrs(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return false, nil
		}
		return false, errBackend("lookup", err)
	}
	return true, nil
}

// Close releases the underlying client.
func (s *GCSStorage) Close() error {
	return s.client.Close()
}
