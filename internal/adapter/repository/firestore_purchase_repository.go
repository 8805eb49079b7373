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

type firestorePurchaseRepository struct {
	client *firestore.Client
}

func NewFirestorePurchaseRepository(client *firestore.Client) repository.PurchaseRepository {
	return &firestorePurchaseRepository{
		client: client,
	}
}

func (r *firestorePurchaseRepository) Create(ctx context.Context, purchase *entity.Purchase) error {
	if purchase.ID == "" {
		doc := r.client.Collection("purchases").NewDoc()
		purchase.ID = doc.ID
	}

	now := time.Now()
	if purchase.CreatedAt.IsZero() {
		purchase.CreatedAt = now
	}
	purchase.UpdatedAt = now

	_, err := r.client.Collection("purchases").Doc(purchase.ID).Set(ctx, purchase)
	if err != nil {
		return errors.Internal("Failed to create purchase", err)
	}

	return nil
}

func (r *firestorePurchaseRepository) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	doc, err := r.client.Collection("purchases").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Purchase", err)
		}
		return nil, errors.Internal("Failed to get purchase", err)
	}

	var purchase entity.Purchase
	if err := doc.DataTo(&purchase); err != nil {
		return nil, errors.Internal("Failed to parse purchase data", err)
	}

	return &purchase, nil
}

func (r *firestorePurchaseRepository) GetByCode(ctx context.Context, code string) (*entity.Purchase, error) {
	iter := r.client.Collection("purchases").Where("code", "==", code).Limit(1).Documents(ctx)

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Purchase", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to query purchase by code", err)
	}

	var purchase entity.Purchase
	if err := doc.DataTo(&purchase); err != nil {
		return nil, errors.Internal("Failed to parse purchase data", err)
	}

	return &purchase, nil
}

func (r *firestorePurchaseRepository) UpdateState(ctx context.Context, purchase *entity.Purchase, from entity.PurchaseState) error {
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docRef := r.client.Collection("purchases").Doc(purchase.ID)
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Purchase", err)
			}
			return err
		}

		var stored entity.Purchase
		if err := doc.DataTo(&stored); err != nil {
			return err
		}

		if stored.State != from {
			return errors.InvalidTransition(fmt.Sprintf("Purchase is %s, expected %s", stored.State, from))
		}

		purchase.UpdatedAt = time.Now()
		return tx.Set(docRef, purchase)
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return appErr
		}
		return errors.Internal("Failed to update purchase state", err)
	}

	return nil
}

func (r *firestorePurchaseRepository) GetActiveByProductID(ctx context.Context, productID string) (*entity.Purchase, error) {
	iter := r.client.Collection("purchases").
		Where("productId", "==", productID).
		Where("state", "in", []string{
			string(entity.PurchaseStatePending),
			string(entity.PurchaseStateConfirmed),
		}).
		Limit(1).
		Documents(ctx)

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Purchase", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to query active purchase", err)
	}

	var purchase entity.Purchase
	if err := doc.DataTo(&purchase); err != nil {
		return nil, errors.Internal("Failed to parse purchase data", err)
	}

	return &purchase, nil
}

func (r *firestorePurchaseRepository) HasAnyForProduct(ctx context.Context, productID string) (bool, error) {
	iter := r.client.Collection("purchases").Where("productId", "==", productID).Limit(1).Documents(ctx)

	_, err := iter.Next()
	if err == iterator.Done {
		return false, nil
	}
	if err != nil {
		return false, errors.Internal("Failed to query purchases for product", err)
	}

	return true, nil
}

func (r *firestorePurchaseRepository) ListByUserID(ctx context.Context, userID string, role string, state entity.PurchaseState, limit, offset int) ([]*entity.Purchase, int64, error) {
	field := "buyerId"
	if role == "seller" {
		field = "sellerId"
	}

	query := r.client.Collection("purchases").Query.Where(field, "==", userID)
	if state != "" {
		query = query.Where("state", "==", string(state))
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count purchases", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var purchases []*entity.Purchase

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list purchases", err)
		}

		var purchase entity.Purchase
		if err := doc.DataTo(&purchase); err != nil {
			return nil, 0, errors.Internal("Failed to parse purchase data", err)
		}
		purchases = append(purchases, &purchase)
	}

	return purchases, total, nil
}

func (r *firestorePurchaseRepository) CreateLog(ctx context.Context, log *entity.PurchaseLog) error {
	if log.ID == "" {
		doc := r.client.Collection("purchase_logs").NewDoc()
		log.ID = doc.ID
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}

	_, err := r.client.Collection("purchase_logs").Doc(log.ID).Set(ctx, log)
	if err != nil {
		return errors.Internal("Failed to create purchase log", err)
	}

	return nil
}

func (r *firestorePurchaseRepository) ListLogsByPurchaseID(ctx context.Context, purchaseID string) ([]*entity.PurchaseLog, error) {
	iter := r.client.Collection("purchase_logs").
		Where("purchaseId", "==", purchaseID).
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx)

	var logs []*entity.PurchaseLog
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list purchase logs", err)
		}

		var log entity.PurchaseLog
		if err := doc.DataTo(&log); err != nil {
			return nil, errors.Internal("Failed to parse purchase log data", err)
		}
		logs = append(logs, &log)
	}

	return logs, nil
}
