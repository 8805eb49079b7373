package usecase

import (
	"context"
	"strings"
	"time"

	"renaix/internal/domain/entity"
	"renaix/internal/domain/repository"
	"renaix/pkg/errors"
	"renaix/pkg/utils"
)

const maxCommentLength = 1000

type CommentUseCase struct {
	commentRepo repository.CommentRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

func NewCommentUseCase(
	commentRepo repository.CommentRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) *CommentUseCase {
	return &CommentUseCase{
		commentRepo: commentRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

func (uc *CommentUseCase) Create(ctx context.Context, authorID, productID, body string) (*entity.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errors.BadRequest("Comment cannot be empty", nil)
	}
	if len(body) > maxCommentLength {
		return nil, errors.BadRequest("Comment is too long", nil)
	}

	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.SaleState == entity.SaleStateDraft || product.SaleState == entity.SaleStateRemoved {
		return nil, errors.NotFound("Product", nil)
	}

	comment := &entity.Comment{
		ProductID: productID,
		AuthorID:  authorID,
		Body:      body,
		Active:    true,
		CreatedAt: time.Now(),
	}

	if err := uc.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func (uc *CommentUseCase) ListByProduct(ctx context.Context, productID string, page, limit int) ([]*entity.Comment, int64, error) {
	pagination := utils.NewPaginationParams(page, limit)

	return uc.commentRepo.ListByProductID(ctx, productID, pagination.PageSize, pagination.Offset)
}

// Delete soft-deletes a comment. The author or a moderator may remove it; the
// record stays so reports against it keep a target.
func (uc *CommentUseCase) Delete(ctx context.Context, callerID, commentID string) error {
	comment, err := uc.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.AuthorID != callerID {
		caller, err := uc.userRepo.GetByID(ctx, callerID)
		if err != nil {
			return err
		}
		if caller.Role != "moderator" {
			return errors.Forbidden("You cannot delete this comment", nil)
		}
	}

	if !comment.Active {
		return nil
	}

	now := time.Now()
	comment.Active = false
	comment.DeletedAt = &now

	return uc.commentRepo.Update(ctx, comment)
}
