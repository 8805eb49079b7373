package usecase

import (
	"context"
	"time"

	"renaix/internal/domain/entity"
	"renaix/internal/domain/repository"
	"renaix/pkg/errors"
	"renaix/pkg/logger"
	"renaix/pkg/utils"
)

type TransactionUseCase struct {
	purchaseRepo repository.PurchaseRepository
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
	ledger       *ProductLedger
	codes        CodeGenerator
}

func NewTransactionUseCase(
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	ledger *ProductLedger,
	codes CodeGenerator,
) *TransactionUseCase {
	return &TransactionUseCase{
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
		ledger:       ledger,
		codes:        codes,
	}
}

type OpenPurchaseInput struct {
	ProductID   string
	AgreedPrice *float64
	Notes       string
}

// PurchaseResult pairs the purchase with the domain events the operation
// produced. The caller decides how to deliver the events; the engine never
// blocks on them.
type PurchaseResult struct {
	Purchase *entity.Purchase
	Events   []entity.Event
}

// OpenPurchase reserves the product and opens a pending purchase against it.
// Out of any number of concurrent buyers exactly one succeeds; the reserve
// swap on the ledger is the gate, there is no lock on purchases themselves.
func (uc *TransactionUseCase) OpenPurchase(ctx context.Context, buyerID string, input OpenPurchaseInput) (*PurchaseResult, error) {
	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	if product.SellerID == buyerID {
		return nil, errors.SelfPurchase()
	}

	if !product.Purchasable() {
		return nil, errors.ProductUnavailable("Product is not available for purchase")
	}

	if product.SaleState == entity.SaleStateReserved {
		// The product is already held. A retry by the buyer holding the
		// pending purchase returns it unchanged; once the seller has
		// confirmed, or when the hold belongs to someone else, the open is
		// refused.
		active, err := uc.purchaseRepo.GetActiveByProductID(ctx, input.ProductID)
		if err == nil && active.BuyerID == buyerID && active.State == entity.PurchaseStatePending {
			return &PurchaseResult{Purchase: active}, nil
		}
		return nil, errors.ProductUnavailable("Product is already reserved")
	}

	price := product.Price
	if input.AgreedPrice != nil {
		if *input.AgreedPrice < 0 {
			return nil, errors.BadRequest("Agreed price cannot be negative", nil)
		}
		price = *input.AgreedPrice
	}

	if _, err := uc.ledger.Reserve(ctx, input.ProductID); err != nil {
		if errors.Is(err, "INVALID_TRANSITION") {
			return nil, errors.ProductUnavailable("Product was taken by another buyer")
		}
		return nil, err
	}

	purchase := &entity.Purchase{
		Code:      uc.codes.NextPurchaseCode(),
		ProductID: input.ProductID,
		BuyerID:   buyerID,
		SellerID:  product.SellerID,
		Price:     price,
		State:     entity.PurchaseStatePending,
		Notes:     input.Notes,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := uc.purchaseRepo.Create(ctx, purchase); err != nil {
		// Roll the hold back so the failed attempt does not strand the
		// product in reserved.
		if _, releaseErr := uc.ledger.Release(ctx, input.ProductID); releaseErr != nil {
			logger.LogPurchaseError(input.ProductID, "release after failed create", releaseErr)
		}
		return nil, err
	}

	uc.appendLog(ctx, purchase, buyerID, "Purchase opened")

	events := []entity.Event{
		entity.NewEvent(entity.EventPurchaseOpened, purchase.SellerID, map[string]interface{}{
			"purchase_id": purchase.ID,
			"code":        purchase.Code,
			"product_id":  purchase.ProductID,
			"buyer_id":    purchase.BuyerID,
			"price":       purchase.Price,
		}),
	}

	return &PurchaseResult{Purchase: purchase, Events: events}, nil
}

// Confirm is the seller accepting the purchase.
func (uc *TransactionUseCase) Confirm(ctx context.Context, callerID, purchaseID string) (*PurchaseResult, error) {
	purchase, err := uc.purchaseRepo.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}

	if purchase.SellerID != callerID {
		return nil, errors.Unauthorized("Only the seller can confirm a purchase", nil)
	}

	if purchase.State != entity.PurchaseStatePending {
		return nil, errors.InvalidTransition("Only pending purchases can be confirmed")
	}

	now := time.Now()
	purchase.State = entity.PurchaseStateConfirmed
	purchase.ConfirmedAt = &now
	purchase.UpdatedAt = now

	if err := uc.purchaseRepo.UpdateState(ctx, purchase, entity.PurchaseStatePending); err != nil {
		return nil, err
	}

	uc.appendLog(ctx, purchase, callerID, "Purchase confirmed by seller")

	events := []entity.Event{
		entity.NewEvent(entity.EventPurchaseConfirmed, purchase.BuyerID, map[string]interface{}{
			"purchase_id": purchase.ID,
			"code":        purchase.Code,
			"product_id":  purchase.ProductID,
		}),
	}

	return &PurchaseResult{Purchase: purchase, Events: events}, nil
}

// Complete is the buyer acknowledging delivery. It settles the product as
// sold and invites both parties to rate each other.
func (uc *TransactionUseCase) Complete(ctx context.Context, callerID, purchaseID string) (*PurchaseResult, error) {
	purchase, err := uc.purchaseRepo.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}

	if purchase.BuyerID != callerID {
		return nil, errors.Unauthorized("Only the buyer can complete a purchase", nil)
	}

	if purchase.State != entity.PurchaseStateConfirmed {
		return nil, errors.InvalidTransition("Only confirmed purchases can be completed")
	}

	now := time.Now()
	purchase.State = entity.PurchaseStateCompleted
	purchase.CompletedAt = &now
	purchase.UpdatedAt = now

	if err := uc.purchaseRepo.UpdateState(ctx, purchase, entity.PurchaseStateConfirmed); err != nil {
		return nil, err
	}

	if _, err := uc.ledger.MarkSold(ctx, purchase.ProductID, purchase.ID); err != nil {
		logger.LogPurchaseError(purchase.ID, "mark product sold", err)
	}

	uc.appendLog(ctx, purchase, callerID, "Purchase completed by buyer")

	payload := map[string]interface{}{
		"purchase_id": purchase.ID,
		"code":        purchase.Code,
		"product_id":  purchase.ProductID,
	}
	events := []entity.Event{
		entity.NewEvent(entity.EventPurchaseCompleted, purchase.SellerID, payload),
		entity.NewEvent(entity.EventRatingRequested, purchase.BuyerID, payload),
		entity.NewEvent(entity.EventRatingRequested, purchase.SellerID, payload),
	}

	return &PurchaseResult{Purchase: purchase, Events: events}, nil
}

// Cancel aborts an open purchase and returns the product to the marketplace.
// Either party may cancel while the purchase is pending or confirmed.
func (uc *TransactionUseCase) Cancel(ctx context.Context, callerID, purchaseID, reason string) (*PurchaseResult, error) {
	purchase, err := uc.purchaseRepo.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}

	if purchase.BuyerID != callerID && purchase.SellerID != callerID {
		return nil, errors.Unauthorized("Only the buyer or the seller can cancel a purchase", nil)
	}

	if purchase.State == entity.PurchaseStateCompleted {
		return nil, errors.AlreadyCompleted()
	}

	if purchase.State == entity.PurchaseStateCancelled {
		return nil, errors.InvalidTransition("Purchase is already cancelled")
	}

	from := purchase.State
	now := time.Now()
	purchase.State = entity.PurchaseStateCancelled
	purchase.CancellationReason = reason
	purchase.CancelledAt = &now
	purchase.UpdatedAt = now

	if err := uc.purchaseRepo.UpdateState(ctx, purchase, from); err != nil {
		return nil, err
	}

	if _, err := uc.ledger.Release(ctx, purchase.ProductID); err != nil {
		logger.LogPurchaseError(purchase.ID, "release product after cancel", err)
	}

	uc.appendLog(ctx, purchase, callerID, "Purchase cancelled: "+reason)

	counterparty := purchase.SellerID
	if callerID == purchase.SellerID {
		counterparty = purchase.BuyerID
	}
	events := []entity.Event{
		entity.NewEvent(entity.EventPurchaseCancelled, counterparty, map[string]interface{}{
			"purchase_id": purchase.ID,
			"code":        purchase.Code,
			"product_id":  purchase.ProductID,
			"reason":      reason,
		}),
	}

	return &PurchaseResult{Purchase: purchase, Events: events}, nil
}

func (uc *TransactionUseCase) GetByID(ctx context.Context, callerID, purchaseID string) (*entity.Purchase, error) {
	purchase, err := uc.purchaseRepo.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}

	if purchase.BuyerID != callerID && purchase.SellerID != callerID {
		return nil, errors.Forbidden("You don't have permission to view this purchase", nil)
	}

	return purchase, nil
}

func (uc *TransactionUseCase) GetByCode(ctx context.Context, callerID, code string) (*entity.Purchase, error) {
	purchase, err := uc.purchaseRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if purchase.BuyerID != callerID && purchase.SellerID != callerID {
		return nil, errors.Forbidden("You don't have permission to view this purchase", nil)
	}

	return purchase, nil
}

func (uc *TransactionUseCase) List(ctx context.Context, callerID, role string, state entity.PurchaseState, page, limit int) ([]*entity.Purchase, int64, error) {
	if role != "buyer" && role != "seller" {
		role = "buyer"
	}

	pagination := utils.NewPaginationParams(page, limit)

	return uc.purchaseRepo.ListByUserID(ctx, callerID, role, state, pagination.PageSize, pagination.Offset)
}

func (uc *TransactionUseCase) GetLogs(ctx context.Context, callerID, purchaseID string) ([]*entity.PurchaseLog, error) {
	purchase, err := uc.purchaseRepo.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}

	if purchase.BuyerID != callerID && purchase.SellerID != callerID {
		return nil, errors.Forbidden("You don't have permission to view this purchase", nil)
	}

	return uc.purchaseRepo.ListLogsByPurchaseID(ctx, purchaseID)
}

// appendLog records the transition in the audit trail. Log failures are
// logged and swallowed; the transition itself already happened.
func (uc *TransactionUseCase) appendLog(ctx context.Context, purchase *entity.Purchase, actorID, notes string) {
	log := &entity.PurchaseLog{
		PurchaseID: purchase.ID,
		State:      purchase.State,
		Notes:      notes,
		CreatedBy:  actorID,
		CreatedAt:  time.Now(),
	}
	if err := uc.purchaseRepo.CreateLog(ctx, log); err != nil {
		logger.LogPurchaseError(purchase.ID, "write purchase log", err)
	}
}
