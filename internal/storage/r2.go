package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Covers are written under content-addressed keys and never change.
const immutableCache = "public, max-age=31536000, immutable"

// R2Config configures Cloudflare R2. Endpoint overrides the account
// endpoint for any other S3-compatible store, such as MinIO in development.
type R2Config struct {
	AccountID   string
	AccessKeyID string
	SecretKey   string
	BucketName  string
	PublicURL   string
	Endpoint    string
}

func (c R2Config) endpoint() string {
	if c.Endpoint != "" {
		return strings.TrimSuffix(c.Endpoint, "/")
	}
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.AccountID)
}

func (c R2Config) validate() error {
	switch {
	case c.AccountID == "" && c.Endpoint == "":
		return ErrR2AccountIDRequired
	case c.AccessKeyID == "" || c.SecretKey == "":
		return ErrR2CredentialsRequired
	case c.BucketName == "":
		return ErrR2BucketRequired
	}
	return nil
}

// R2Storage stores images in an S3-compatible bucket.
type R2Storage struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

var _ Storage = (*R2Storage)(nil)

func NewR2Storage(ctx context.Context, cfg R2Config) (*R2Storage, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.endpoint())
		o.UsePathStyle = true
		// R2 rejects the SDK's default CRC trailers on streamed uploads.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	return &R2Storage{
		client:    client,
		bucket:    cfg.BucketName,
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
	}, nil
}

func (s *R2Storage) Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       &s.bucket,
		Key:          &key,
		Body:         content,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(immutableCache),
	}); err != nil {
		return "", errBackend("upload", err)
	}
	return s.URL(key), nil
}

func (s *R2Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	key, err := cleanKey(key)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &key})
	switch {
	case isNotFoundError(err):
		return nil, ErrFileNotFound(key)
	case err != nil:
		return nil, errBackend("read", err)
	}
	return out.Body, nil
}

// Delete succeeds for missing keys; S3 does not report them.
func (s *R2Storage) Delete(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &key}); err != nil {
		return errBackend("delete", err)
	}
	return nil
}

func (s *R2Storage) URL(key string) string {
	if s.publicURL == "" {
		return key
	}
	return s.publicURL + "/" + key
}

func (s *R2Storage) Exists(ctx context.Context, key string) (bool, error) {
	key, err := cleanKey(key)
	if err != nil {
		return false, err
	}

	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &key})
	switch {
	case isNotFoundError(err):
		return false, nil
	case err != nil:
		return false, errBackend("lookup", err)
	}
	return true, nil
}

func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}
