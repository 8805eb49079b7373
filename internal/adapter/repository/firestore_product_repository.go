package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"renaix/internal/domain/entity"
	"renaix/internal/domain/repository"
	"renaix/pkg/errors"
)

type firestoreProductRepository struct {
	client *firestore.Client
}

func NewFirestoreProductRepository(client *firestore.Client) repository.ProductRepository {
	return &firestoreProductRepository{
		client: client,
	}
}

func (r *firestoreProductRepository) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == "" {
		doc := r.client.Collection("products").NewDoc()
		product.ID = doc.ID
	}

	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	_, err := r.client.Collection("products").Doc(product.ID).Set(ctx, product)
	if err != nil {
		return errors.Internal("Failed to create product", err)
	}

	return nil
}

func (r *firestoreProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	doc, err := r.client.Collection("products").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Product", err)
		}
		return nil, errors.Internal("Failed to get product", err)
	}

	var product entity.Product
	if err := doc.DataTo(&product); err != nil {
		return nil, errors.Internal("Failed to parse product data", err)
	}

	return &product, nil
}

func (r *firestoreProductRepository) Update(ctx context.Context, product *entity.Product) error {
	product.UpdatedAt = time.Now()

	_, err := r.client.Collection("products").Doc(product.ID).Set(ctx, product)
	if err != nil {
		return errors.Internal("Failed to update product", err)
	}

	return nil
}

func (r *firestoreProductRepository) List(ctx context.Context, filter map[string]interface{}, sort string, limit, offset int) ([]*entity.Product, int64, error) {
	query := r.buildQuery(filter)

	if sort != "" {
		parts := strings.Split(sort, "_")
		field := parts[0]
		order := firestore.Asc
		if len(parts) > 1 && parts[1] == "desc" {
			order = firestore.Desc
		}
		query = query.OrderBy(field, order)
	} else {
		query = query.OrderBy("createdAt", firestore.Desc)
	}

	return r.collect(ctx, query, limit, offset)
}

func (r *firestoreProductRepository) ListBySellerID(ctx context.Context, sellerID string, state entity.SaleState, limit, offset int) ([]*entity.Product, int64, error) {
	query := r.client.Collection("products").Query.Where("sellerId", "==", sellerID)
	if state != "" {
		query = query.Where("saleState", "==", string(state))
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	return r.collect(ctx, query, limit, offset)
}

// SearchByTitle matches title substrings client side; Firestore has no
// full-text search without an external index.
func (r *firestoreProductRepository) SearchByTitle(ctx context.Context, queryText string, filter map[string]interface{}, limit, offset int) ([]*entity.Product, int64, error) {
	query := r.buildQuery(filter)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to search products", err)
	}

	needle := strings.ToLower(queryText)
	var matched []*entity.Product
	for _, doc := range docs {
		var product entity.Product
		if err := doc.DataTo(&product); err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(product.Title), needle) {
			matched = append(matched, &product)
		}
	}

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	return matched, total, nil
}

func (r *firestoreProductRepository) UpdateSaleState(ctx context.Context, id string, from []entity.SaleState, to entity.SaleState, extra func(*entity.Product)) (*entity.Product, error) {
	var updated entity.Product

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docRef := r.client.Collection("products").Doc(id)
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Product", err)
			}
			return err
		}

		var product entity.Product
		if err := doc.DataTo(&product); err != nil {
			return err
		}

		allowed := false
		for _, state := range from {
			if product.SaleState == state {
				allowed = true
				break
			}
		}
		if !allowed {
			return errors.InvalidTransition(fmt.Sprintf("Cannot move product from %s to %s", product.SaleState, to))
		}

		product.SaleState = to
		product.UpdatedAt = time.Now()
		if extra != nil {
			extra(&product)
		}

		updated = product
		return tx.Set(docRef, &product)
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.Internal("Failed to update product sale state", err)
	}

	return &updated, nil
}

func (r *firestoreProductRepository) buildQuery(filter map[string]interface{}) firestore.Query {
	query := r.client.Collection("products").Query

	for key, value := range filter {
		switch key {
		case "saleStates":
			states := value.([]entity.SaleState)
			raw := make([]string, len(states))
			for i, state := range states {
				raw[i] = string(state)
			}
			query = query.Where("saleState", "in", raw)
		case "minPrice":
			query = query.Where("price", ">=", value)
		case "maxPrice":
			query = query.Where("price", "<=", value)
		default:
			query = query.Where(key, "==", value)
		}
	}

	return query
}

func (r *firestoreProductRepository) collect(ctx context.Context, query firestore.Query, limit, offset int) ([]*entity.Product, int64, error) {
	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count products", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var products []*entity.Product

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list products", err)
		}

		var product entity.Product
		if err := doc.DataTo(&product); err != nil {
			return nil, 0, errors.Internal("Failed to parse product data", err)
		}
		products = append(products, &product)
	}

	return products, total, nil
}
