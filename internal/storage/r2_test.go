package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBucket speaks enough path-style S3 for the R2 client.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	cache   map[string]string
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
		cache:   make(map[string]string),
	}
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := strings.TrimPrefix(r.URL.Path, "/covers/")
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		b.objects[key] = body
		b.types[key] = r.Header.Get("Content-Type")
		b.cache[key] = r.Header.Get("Cache-Control")
		w.WriteHeader(http.StatusOK)
	case http.MethodGet, http.MethodHead:
		body, ok := b.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			if r.Method == http.MethodGet {
				io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			}
			return
		}
		w.Header().Set("Content-Type", b.types[key])
		if r.Method == http.MethodGet {
			w.Write(body)
		}
	case http.MethodDelete:
		delete(b.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestR2Storage_RoundTrip(t *testing.T) {
	t.Setenv("AWS_CONFIG_FILE", "/dev/null")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/dev/null")

	bucket := newFakeBucket()
	srv := httptest.NewServer(bucket)
	defer srv.Close()

	ctx := context.Background()
	s, err := NewR2Storage(ctx, R2Config{
		Endpoint:    srv.URL,
		AccessKeyID: "key",
		SecretKey:   "secret",
		BucketName:  "covers",
		PublicURL:   "https://cdn.bookworld.test/",
	})
	require.NoError(t, err)

	key := "book-images/book-1-cover.jpg"
	url, err := s.Put(ctx, key, bytes.NewReader([]byte("jpeg bytes")), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.bookworld.test/book-images/book-1-cover.jpg", url)
	assert.Equal(t, "image/jpeg", bucket.types[key])
	assert.Equal(t, immutableCache, bucket.cache[key])
	assert.Equal(t, key, KeyFromURL(s, url))

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Get(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))

	require.NoError(t, s.Delete(ctx, key))
	ok, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Get(ctx, key)
	var serr *StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, codeNotFound, serr.ErrorCode())

	_, err = s.Put(ctx, "../escape.jpg", bytes.NewReader(nil), "image/jpeg")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestNewR2Storage_Validation(t *testing.T) {
	ctx := context.Background()

	_, err := NewR2Storage(ctx, R2Config{AccessKeyID: "k", SecretKey: "s", BucketName: "b"})
	assert.ErrorIs(t, err, ErrR2AccountIDRequired)

	_, err = NewR2Storage(ctx, R2Config{AccountID: "acct", BucketName: "b"})
	assert.ErrorIs(t, err, ErrR2CredentialsRequired)

	_, err = NewR2Storage(ctx, R2Config{AccountID: "acct", AccessKeyID: "k", SecretKey: "s"})
	assert.ErrorIs(t, err, ErrR2BucketRequired)

	assert.Equal(t, "https://acct.r2.cloudflarestorage.com", R2Config{AccountID: "acct"}.endpoint())
	assert.Equal(t, "http://localhost:9000", R2Config{Endpoint: "http://localhost:9000/"}.endpoint())
}
