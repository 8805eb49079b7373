package repository

import (
	"context"

	"renaix/internal/domain/entity"
)

type CategoryRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	List(ctx context.Context) ([]*entity.Category, error)
}

type TagRepository interface {
	Create(ctx context.Context, tag *entity.Tag) error
	GetByID(ctx context.Context, id string) (*entity.Tag, error)
	GetByName(ctx context.Context, name string) (*entity.Tag, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Tag, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Tag, int64, error)
}
