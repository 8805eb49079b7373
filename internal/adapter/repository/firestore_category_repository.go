package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"renaix/internal/domain/entity"
	"renaix/internal/domain/repository"
	"renaix/pkg/errors"
)

type firestoreCategoryRepository struct {
	client *firestore.Client
}

func NewFirestoreCategoryRepository(client *firestore.Client) repository.CategoryRepository {
	return &firestoreCategoryRepository{
		client: client,
	}
}

func (r *firestoreCategoryRepository) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	doc, err := r.client.Collection("categories").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Category", err)
		}
		return nil, errors.Internal("Failed to get category", err)
	}

	var category entity.Category
	if err := doc.DataTo(&category); err != nil {
		return nil, errors.Internal("Failed to parse category data", err)
	}

	return &category, nil
}

func (r *firestoreCategoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	iter := r.client.Collection("categories").
		Where("active", "==", true).
		OrderBy("sequence", firestore.Asc).
		Documents(ctx)

	var categories []*entity.Category
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list categories", err)
		}

		var category entity.Category
		if err := doc.DataTo(&category); err != nil {
			return nil, errors.Internal("Failed to parse category data", err)
		}
		categories = append(categories, &category)
	}

	return categories, nil
}

type firestoreTagRepository struct {
	client *firestore.Client
}

func NewFirestoreTagRepository(client *firestore.Client) repository.TagRepository {
	return &firestoreTagRepository{
		client: client,
	}
}

func (r *firestoreTagRepository) Create(ctx context.Context, tag *entity.Tag) error {
	if tag.ID == "" {
		doc := r.client.Collection("tags").NewDoc()
		tag.ID = doc.ID
	}
	if tag.CreatedAt.IsZero() {
		tag.CreatedAt = time.Now()
	}

	_, err := r.client.Collection("tags").Doc(tag.ID).Set(ctx, tag)
	if err != nil {
		return errors.Internal("Failed to create tag", err)
	}

	return nil
}

func (r *firestoreTagRepository) GetByID(ctx context.Context, id string) (*entity.Tag, error) {
	doc, err := r.client.Collection("tags").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Tag", err)
		}
		return nil, errors.Internal("Failed to get tag", err)
	}

	var tag entity.Tag
	if err := doc.DataTo(&tag); err != nil {
		return nil, errors.Internal("Failed to parse tag data", err)
	}

	return &tag, nil
}

func (r *firestoreTagRepository) GetByName(ctx context.Context, name string) (*entity.Tag, error) {
	iter := r.client.Collection("tags").Where("name", "==", name).Limit(1).Documents(ctx)

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Tag", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to query tag by name", err)
	}

	var tag entity.Tag
	if err := doc.DataTo(&tag); err != nil {
		return nil, errors.Internal("Failed to parse tag data", err)
	}

	return &tag, nil
}

func (r *firestoreTagRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Tag, error) {
	var tags []*entity.Tag
	for _, id := range ids {
		tag, err := r.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, "NOT_FOUND") {
				continue
			}
			return nil, err
		}
		tags = append(tags, tag)
	}

	return tags, nil
}

func (r *firestoreTagRepository) List(ctx context.Context, limit, offset int) ([]*entity.Tag, int64, error) {
	query := r.client.Collection("tags").Query.
		Where("active", "==", true).
		OrderBy("name", firestore.Asc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count tags", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var tags []*entity.Tag

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list tags", err)
		}

		var tag entity.Tag
		if err := doc.DataTo(&tag); err != nil {
			return nil, 0, errors.Internal("Failed to parse tag data", err)
		}
		tags = append(tags, &tag)
	}

	return tags, total, nil
}
