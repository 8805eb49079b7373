package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"renaix/internal/domain/entity"
	"renaix/internal/domain/repository"
	"renaix/pkg/errors"
)

type firestoreRatingRepository struct {
	client *firestore.Client
}

func NewFirestoreRatingRepository(client *firestore.Client) repository.RatingRepository {
	return &firestoreRatingRepository{
		client: client,
	}
}

// Create writes the rating under a deterministic document id derived from
// purchase and direction, so the uniqueness constraint is enforced by the
// store itself: the second writer finds the document and fails.
func (r *firestoreRatingRepository) Create(ctx context.Context, rating *entity.Rating) error {
	docID := fmt.Sprintf("%s_%s", rating.PurchaseID, rating.Direction)
	rating.ID = docID
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = time.Now()
	}

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docRef := r.client.Collection("ratings").Doc(docID)

		_, err := tx.Get(docRef)
		if err == nil {
			return errors.DuplicateRating()
		}
		if status.Code(err) != codes.NotFound {
			return err
		}

		return tx.Set(docRef, rating)
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return appErr
		}
		return errors.Internal("Failed to create rating", err)
	}

	return nil
}

func (r *firestoreRatingRepository) GetByID(ctx context.Context, id string) (*entity.Rating, error) {
	doc, err := r.client.Collection("ratings").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Rating", err)
		}
		return nil, errors.Internal("Failed to get rating", err)
	}

	var rating entity.Rating
	if err := doc.DataTo(&rating); err != nil {
		return nil, errors.Internal("Failed to parse rating data", err)
	}

	return &rating, nil
}

func (r *firestoreRatingRepository) GetByPurchaseAndDirection(ctx context.Context, purchaseID string, direction entity.RatingDirection) (*entity.Rating, error) {
	return r.GetByID(ctx, fmt.Sprintf("%s_%s", purchaseID, direction))
}

func (r *firestoreRatingRepository) ListByPurchaseID(ctx context.Context, purchaseID string) ([]*entity.Rating, error) {
	iter := r.client.Collection("ratings").Where("purchaseId", "==", purchaseID).Documents(ctx)

	var ratings []*entity.Rating
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list ratings", err)
		}

		var rating entity.Rating
		if err := doc.DataTo(&rating); err != nil {
			return nil, errors.Internal("Failed to parse rating data", err)
		}
		ratings = append(ratings, &rating)
	}

	return ratings, nil
}

func (r *firestoreRatingRepository) ListByRateeID(ctx context.Context, rateeID string, limit, offset int) ([]*entity.Rating, int64, error) {
	query := r.client.Collection("ratings").Query.
		Where("rateeId", "==", rateeID).
		OrderBy("createdAt", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count ratings", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var ratings []*entity.Rating

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list ratings", err)
		}

		var rating entity.Rating
		if err := doc.DataTo(&rating); err != nil {
			return nil, 0, errors.Internal("Failed to parse rating data", err)
		}
		ratings = append(ratings, &rating)
	}

	return ratings, total, nil
}
