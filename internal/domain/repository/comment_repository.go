package repository

import (
	"context"

	"renaix/internal/domain/entity"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	GetByID(ctx context.Context, id string) (*entity.Comment, error)
	ListByProductID(ctx context.Context, productID string, limit, offset int) ([]*entity.Comment, int64, error)
	Update(ctx context.Context, comment *entity.Comment) error
}
