package usecase

import (
	"context"
	"time"

	"renaix/internal/domain/entity"
	"renaix/internal/domain/repository"
	"renaix/pkg/errors"
)

// ProductLedger is the only component allowed to change a product's sale
// state. Every transition goes through a compare-and-swap in the repository,
// so concurrent callers race on the stored state and exactly one wins.
type ProductLedger struct {
	productRepo repository.ProductRepository
}

func NewProductLedger(productRepo repository.ProductRepository) *ProductLedger {
	return &ProductLedger{productRepo: productRepo}
}

// Publish moves a draft onto the marketplace. A product without images never
// leaves draft.
func (l *ProductLedger) Publish(ctx context.Context, productID string) (*entity.Product, error) {
	product, err := l.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if len(product.Images) == 0 {
		return nil, errors.MissingImages()
	}

	return l.productRepo.UpdateSaleState(ctx, productID,
		[]entity.SaleState{entity.SaleStateDraft},
		entity.SaleStateAvailable,
		func(p *entity.Product) {
			now := time.Now()
			p.PublishedAt = &now
		})
}

// Reserve holds an available product for a pending purchase.
func (l *ProductLedger) Reserve(ctx context.Context, productID string) (*entity.Product, error) {
	return l.productRepo.UpdateSaleState(ctx, productID,
		[]entity.SaleState{entity.SaleStateAvailable},
		entity.SaleStateReserved,
		nil)
}

// Release returns a reserved product to the marketplace. Releasing a product
// that is already available is a no-op, so cancellation paths can call it
// without checking first.
func (l *ProductLedger) Release(ctx context.Context, productID string) (*entity.Product, error) {
	return l.productRepo.UpdateSaleState(ctx, productID,
		[]entity.SaleState{entity.SaleStateReserved, entity.SaleStateAvailable},
		entity.SaleStateAvailable,
		nil)
}

// MarkSold settles the product against the purchase that bought it. Only a
// reserved product can be sold; a sale never skips the reservation. The
// purchase reference is written in the same swap so a sold product always
// names its purchase.
func (l *ProductLedger) MarkSold(ctx context.Context, productID, purchaseID string) (*entity.Product, error) {
	return l.productRepo.UpdateSaleState(ctx, productID,
		[]entity.SaleState{entity.SaleStateReserved},
		entity.SaleStateSold,
		func(p *entity.Product) {
			p.PurchaseID = purchaseID
		})
}

// Remove takes the product off the marketplace. Sold products keep their
// state forever; anything else may be removed.
func (l *ProductLedger) Remove(ctx context.Context, productID string) (*entity.Product, error) {
	return l.productRepo.UpdateSaleState(ctx, productID,
		[]entity.SaleState{entity.SaleStateDraft, entity.SaleStateAvailable, entity.SaleStateReserved},
		entity.SaleStateRemoved,
		func(p *entity.Product) {
			now := time.Now()
			p.RemovedAt = &now
		})
}
