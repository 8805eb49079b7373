package repository

import (
	"context"

	"renaix/internal/domain/entity"
)

type RatingRepository interface {
	// Create enforces uniqueness on (purchase, direction) atomically at write
	// time; a second rating for the same pair fails with DUPLICATE_RATING.
	Create(ctx context.Context, rating *entity.Rating) error

	GetByID(ctx context.Context, id string) (*entity.Rating, error)
	GetByPurchaseAndDirection(ctx context.Context, purchaseID string, direction entity.RatingDirection) (*entity.Rating, error)
	ListByPurchaseID(ctx context.Context, purchaseID string) ([]*entity.Rating, error)
	ListByRateeID(ctx context.Context, rateeID string, limit, offset int) ([]*entity.Rating, int64, error)
}
