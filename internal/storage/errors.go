package storage

import "fmt"

// These codes mirror domain error codes so the handler layer can map them to
// HTTP status codes without importing this package's internals.
const (
	codeInternal    = "internal"
	codeInvalid     = "invalid"
	codeNotFound    = "not_found"
	codeTooLarge    = "too_large"
	codeUnavailable = "unavailable"
)

// StorageError represents a storage-specific error with a code and message.
type StorageError struct {
	Code    string
	Message string
	Err     error
}

func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *StorageError) ErrorCode() string {
	return e.Code
}

// ErrorMessage returns the user-facing message.
func (e *StorageError) ErrorMessage() string {
	return e.Message
}

func newStorageError(code, message string) *StorageError {
	return &StorageError{Code: code, Message: message}
}

var (
	ErrR2AccountIDRequired   = newStorageError(codeInvalid, "R2 account ID is required")
	ErrR2CredentialsRequired = newStorageError(codeInvalid, "R2 credentials are required")
	ErrR2BucketRequired      = newStorageError(codeInvalid, "R2 bucket name is required")
	ErrGCSBucketRequired     = newStorageError(codeInvalid, "GCS bucket name is required")

	// ErrInvalidKey is returned for empty keys and keys that escape the storage root.
	ErrInvalidKey = newStorageError(codeInvalid, "invalid storage key")

	// ErrUnsupportedImage is returned when an upload is not a JPEG, PNG, GIF or WebP image.
	ErrUnsupportedImage = newStorageError(codeInvalid, "Only image files are allowed")

	// ErrImageTooLarge is returned when an upload exceeds MaxImageSize.
	ErrImageTooLarge = newStorageError(codeTooLarge, "Image must be 5MB or smaller")
)

// ErrFileNotFound creates an error for when a file is not found.
func ErrFileNotFound(key string) error {
	return &StorageError{
		Code:    codeNotFound,
		Message: fmt.Sprintf("file not found: %s", key),
	}
}

// ErrUnknownProvider creates an error for unknown storage providers.
func ErrUnknownProvider(provider string) error {
	return &StorageError{
		Code:    codeInvalid,
		Message: fmt.Sprintf("unknown storage provider: %s", provider),
	}
}

// errBackend wraps a failure from a remote object store. These are retryable.
func errBackend(op string, err error) error {
	return &StorageError{
		Code:    codeUnavailable,
		Message: fmt.Sprintf("storage %s failed", op),
		Err:     err,
	}
}
