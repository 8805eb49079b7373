package usecase

import (
	"context"

	"renaix/internal/domain/entity"
	"renaix/internal/domain/repository"
	"renaix/pkg/utils"
)

type CategoryUseCase struct {
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
}

func NewCategoryUseCase(categoryRepo repository.CategoryRepository, tagRepo repository.TagRepository) *CategoryUseCase {
	return &CategoryUseCase{
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
	}
}

func (uc *CategoryUseCase) List(ctx context.Context) ([]*entity.Category, error) {
	return uc.categoryRepo.List(ctx)
}

func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return uc.categoryRepo.GetByID(ctx, id)
}

func (uc *CategoryUseCase) ListTags(ctx context.Context, page, limit int) ([]*entity.Tag, int64, error) {
	pagination := utils.NewPaginationParams(page, limit)

	return uc.tagRepo.List(ctx, pagination.PageSize, pagination.Offset)
}
