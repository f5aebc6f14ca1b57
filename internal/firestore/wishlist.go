// Package firestore stores wishlists in Cloud Firestore as one sub-collection
// per user: users/{userID}/wishlist/{bookID}.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	usersCollection    = "users"
	wishlistCollection = "wishlist"
)

// NewClient opens a Firestore client. An empty credentialsFile uses the
// application default credentials.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return client, nil
}

// WishlistStore implements domain.WishlistStore on Firestore.
type WishlistStore struct {
	client *firestore.Client
}

var _ domain.WishlistStore = (*WishlistStore)(nil)

func NewWishlistStore(client *firestore.Client) *WishlistStore {
	return &WishlistStore{client: client}
}

type wishlistDoc struct {
	BookID     string    `firestore:"bookId"`
	Title      string    `firestore:"title"`
	Author     string    `firestore:"author"`
	PriceCents int64     `firestore:"priceCents"`
	ImageURL   string    `firestore:"imageUrl,omitempty"`
	Rating     float64   `firestore:"rating"`
	AddedAt    time.Time `firestore:"addedAt"`
}

func docFromItem(item domain.WishlistItem) wishlistDoc {
	added := item.AddedAt
	if added.IsZero() {
		added = time.Now()
	}
	return wishlistDoc{
		BookID:     item.BookID.String(),
		Title:      item.Title,
		Author:     item.Author,
		PriceCents: int64(item.PriceCents),
		ImageURL:   item.ImageURL,
		Rating:     item.Rating,
		AddedAt:    added.UTC(),
	}
}

func (d wishlistDoc) item() (domain.WishlistItem, error) {
	id, err := uuid.Parse(d.BookID)
	if err != nil {
		return domain.WishlistItem{}, fmt.Errorf("invalid book id %q: %w", d.BookID, err)
	}
	return domain.WishlistItem{
		BookID:     id,
		Title:      d.Title,
		Author:     d.Author,
		PriceCents: int32(d.PriceCents),
		ImageURL:   d.ImageURL,
		Rating:     d.Rating,
		AddedAt:    d.AddedAt,
	}, nil
}

func (s *WishlistStore) col(userID uuid.UUID) *firestore.CollectionRef {
	return s.client.Collection(usersCollection).Doc(userID.String()).Collection(wishlistCollection)
}

// Insert uses Create, which fails with AlreadyExists when the book is saved.
func (s *WishlistStore) Insert(ctx context.Context, userID uuid.UUID, item domain.WishlistItem) (bool, error) {
	_, err := s.col(userID).Doc(item.BookID.String()).Create(ctx, docFromItem(item))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return false, nil
		}
		return false, fsError(err, "wishlist.insert", "failed to add to wishlist")
	}
	return true, nil
}

func (s *WishlistStore) Get(ctx context.Context, userID, bookID uuid.UUID) (*domain.WishlistItem, error) {
	snap, err := s.col(userID).Doc(bookID.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrWishlistItemNotFound
		}
		return nil, fsError(err, "wishlist.get", "failed to get wishlist item")
	}
	var doc wishlistDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, domain.Internal(err, "wishlist.get", "failed to decode wishlist item")
	}
	item, err := doc.item()
	if err != nil {
		return nil, domain.Internal(err, "wishlist.get", "failed to decode wishlist item")
	}
	return &item, nil
}

// Delete succeeds when the document does not exist.
func (s *WishlistStore) Delete(ctx context.Context, userID, bookID uuid.UUID) error {
	if _, err := s.col(userID).Doc(bookID.String()).Delete(ctx); err != nil {
		return fsError(err, "wishlist.delete", "failed to remove from wishlist")
	}
	return nil
}

// List returns items newest first.
func (s *WishlistStore) List(ctx context.Context, userID uuid.UUID) ([]domain.WishlistItem, error) {
	iter := s.col(userID).OrderBy("addedAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	items := []domain.WishlistItem{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fsError(err, "wishlist.list", "failed to list wishlist")
		}
		var doc wishlistDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, domain.Internal(err, "wishlist.list", "failed to decode wishlist item")
		}
		item, err := doc.item()
		if err != nil {
			return nil, domain.Internal(err, "wishlist.list", "failed to decode wishlist item")
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *WishlistStore) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	refs, err := s.refs(ctx, userID)
	if err != nil {
		return 0, fsError(err, "wishlist.count", "failed to count wishlist")
	}
	return int64(len(refs)), nil
}

func (s *WishlistStore) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	refs, err := s.refs(ctx, userID)
	if err != nil {
		return fsError(err, "wishlist.clear", "failed to clear wishlist")
	}
	if len(refs) == 0 {
		return nil
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(refs))
	for _, ref := range refs {
		job, err := bw.Delete(ref)
		if err != nil {
			bw.End()
			return fsError(err, "wishlist.clear", "failed to clear wishlist")
		}
		jobs = append(jobs, job)
	}
	bw.End()

	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return fsError(err, "wishlist.clear", "failed to clear wishlist")
		}
	}
	return nil
}

// refs lists document references without reading their fields.
func (s *WishlistStore) refs(ctx context.Context, userID uuid.UUID) ([]*firestore.DocumentRef, error) {
	iter := s.col(userID).Select().Documents(ctx)
	defer iter.Stop()

	var refs []*firestore.DocumentRef
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return refs, nil
		}
		if err != nil {
			return nil, err
		}
		refs = append(refs, snap.Ref)
	}
}

// fsError maps gRPC status codes to domain errors.
func fsError(err error, op, message string) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled, codes.Aborted, codes.ResourceExhausted:
		return domain.Unavailable(err, op)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.Unavailable(err, op)
	}
	return domain.Internal(err, op, message)
}
