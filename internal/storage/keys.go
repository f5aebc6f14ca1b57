package storage

import (
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxImageSize is the largest accepted image upload.
const MaxImageSize = 5 << 20

// Key prefixes for stored images.
const (
	BookImagePrefix    = "book-images"
	ProfileImagePrefix = "profile-images"
)

var imageExts = map[string]string{
	".jpg":  ".jpg",
	".jpeg": ".jpg",
	".png":  ".png",
	".gif":  ".gif",
	".webp": ".webp",
}

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// CheckImage validates an upload by size, extension and sniffed content and
// returns the content type to store it with. head is the start of the file;
// 512 bytes is enough for detection.
func CheckImage(filename string, size int64, head []byte) (string, error) {
	if size > MaxImageSize {
		return "", ErrImageTooLarge
	}
	if _, ok := imageExts[strings.ToLower(filepath.Ext(filename))]; !ok {
		return "", ErrUnsupportedImage
	}
	contentType := http.DetectContentType(head)
	if !imageTypes[contentType] {
		return "", ErrUnsupportedImage
	}
	return contentType, nil
}

// BookImageKey builds "book-images/book-<unix ms>-<name>".
func BookImageKey(filename string, now time.Time) string {
	return path.Join(BookImagePrefix, fmt.Sprintf("book-%d-%s", now.UnixMilli(), safeName(filename)))
}

// ProfileImageKey builds "profile-images/<user id>/<unix ms>-<name>". The
// timestamp keeps a re-upload of the same file name from being served stale.
func ProfileImageKey(userID uuid.UUID, filename string, now time.Time) string {
	return path.Join(ProfileImagePrefix, userID.String(), fmt.Sprintf("%d-%s", now.UnixMilli(), safeName(filename)))
}

// safeName reduces a client file name to [a-z0-9._-] with a known image extension.
func safeName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	safeExt, ok := imageExts[ext]
	if !ok {
		safeExt = ".jpg"
	}

	var b strings.Builder
	for _, r := range strings.ToLower(stem) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('-')
		}
	}
	name := strings.Trim(b.String(), "-")
	if name == "" {
		name = "image"
	}
	if len(name) > 64 {
		name = name[:64]
	}
	return name + safeExt
}

// cleanKey rejects keys that are empty, absolute or climb out of the root.
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

// KeyFromURL recovers the object key from a URL produced by s.URL. It
// returns "" when url does not belong to s.
func KeyFromURL(s Storage, url string) string {
	base := strings.TrimSuffix(s.URL(""), "/")
	if base == "" || !strings.HasPrefix(url, base+"/") {
		return ""
	}
	key := strings.TrimPrefix(url, base+"/")
	if _, err := cleanKey(key); err != nil {
		return ""
	}
	return key
}
