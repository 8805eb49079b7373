package repository

import (
	"context"

	"renaix/internal/domain/entity"
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, filter map[string]interface{}, sort string, limit, offset int) ([]*entity.Product, int64, error)
	ListBySellerID(ctx context.Context, sellerID string, state entity.SaleState, limit, offset int) ([]*entity.Product, int64, error)
	SearchByTitle(ctx context.Context, query string, filter map[string]interface{}, limit, offset int) ([]*entity.Product, int64, error)

	// UpdateSaleState performs an atomic compare-and-swap on the product's
	// sale state, scoped per product id. When the current state is not in
	// from, no write happens and an INVALID_TRANSITION error is returned
	// carrying the observed state. Extra is applied to the product inside the
	// same transaction (timestamps, purchase reference).
	UpdateSaleState(ctx context.Context, id string, from []entity.SaleState, to entity.SaleState, extra func(*entity.Product)) (*entity.Product, error)
}
