package repository

import (
	"context"

	"renaix/internal/domain/entity"
)

type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	GetByCode(ctx context.Context, code string) (*entity.Purchase, error)

	// UpdateState is a compare-and-swap on the purchase state: the write only
	// happens when the stored state equals from, otherwise an
	// INVALID_TRANSITION error is returned and the purchase is untouched.
	UpdateState(ctx context.Context, purchase *entity.Purchase, from entity.PurchaseState) error

	GetActiveByProductID(ctx context.Context, productID string) (*entity.Purchase, error)
	HasAnyForProduct(ctx context.Context, productID string) (bool, error)
	ListByUserID(ctx context.Context, userID string, role string, state entity.PurchaseState, limit, offset int) ([]*entity.Purchase, int64, error)

	CreateLog(ctx context.Context, log *entity.PurchaseLog) error
	ListLogsByPurchaseID(ctx context.Context, purchaseID string) ([]*entity.PurchaseLog, error)
}
