package usecase

import (
	"context"
	"time"

	"renaix/internal/domain/entity"
	"renaix/internal/domain/repository"
	"renaix/pkg/errors"
	"renaix/pkg/utils"
)

type RatingUseCase struct {
	ratingRepo   repository.RatingRepository
	purchaseRepo repository.PurchaseRepository
}

func NewRatingUseCase(ratingRepo repository.RatingRepository, purchaseRepo repository.PurchaseRepository) *RatingUseCase {
	return &RatingUseCase{
		ratingRepo:   ratingRepo,
		purchaseRepo: purchaseRepo,
	}
}

type SubmitRatingInput struct {
	PurchaseID string
	Direction  entity.RatingDirection
	Score      int
	Comment    string
}

type RatingResult struct {
	Rating *entity.Rating
	Events []entity.Event
}

// SubmitRating records the rater's score for the counterparty of a completed
// purchase. Each direction can be rated once; the repository enforces the
// uniqueness atomically so two concurrent submissions cannot both land.
func (uc *RatingUseCase) SubmitRating(ctx context.Context, raterID string, input SubmitRatingInput) (*RatingResult, error) {
	purchase, err := uc.purchaseRepo.GetByID(ctx, input.PurchaseID)
	if err != nil {
		return nil, err
	}

	if purchase.State != entity.PurchaseStateCompleted {
		return nil, errors.PurchaseNotCompleted()
	}

	if input.Score < 1 || input.Score > 5 {
		return nil, errors.ScoreOutOfRange()
	}

	var rateeID string
	switch input.Direction {
	case entity.RatingBuyerToSeller:
		if purchase.BuyerID != raterID {
			return nil, errors.Unauthorized("Only the buyer can rate the seller", nil)
		}
		rateeID = purchase.SellerID
	case entity.RatingSellerToBuyer:
		if purchase.SellerID != raterID {
			return nil, errors.Unauthorized("Only the seller can rate the buyer", nil)
		}
		rateeID = purchase.BuyerID
	default:
		return nil, errors.BadRequest("Invalid rating direction", nil)
	}

	rating := &entity.Rating{
		PurchaseID: input.PurchaseID,
		Direction:  input.Direction,
		RaterID:    raterID,
		RateeID:    rateeID,
		Score:      input.Score,
		Comment:    input.Comment,
		CreatedAt:  time.Now(),
	}

	if err := uc.ratingRepo.Create(ctx, rating); err != nil {
		return nil, err
	}

	events := []entity.Event{
		entity.NewEvent(entity.EventRatingReceived, rateeID, map[string]interface{}{
			"rating_id":   rating.ID,
			"purchase_id": rating.PurchaseID,
			"score":       rating.Score,
		}),
	}

	return &RatingResult{Rating: rating, Events: events}, nil
}

// Status reports which directions of a purchase have been rated. The flags
// are derived from stored ratings, never written directly.
func (uc *RatingUseCase) Status(ctx context.Context, callerID, purchaseID string) (*entity.RatingStatus, error) {
	purchase, err := uc.purchaseRepo.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}

	if purchase.BuyerID != callerID && purchase.SellerID != callerID {
		return nil, errors.Forbidden("You don't have permission to view this purchase", nil)
	}

	ratings, err := uc.ratingRepo.ListByPurchaseID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}

	status := &entity.RatingStatus{PurchaseID: purchaseID}
	for _, rating := range ratings {
		switch rating.Direction {
		case entity.RatingBuyerToSeller:
			status.BuyerRated = true
		case entity.RatingSellerToBuyer:
			status.SellerRated = true
		}
	}

	return status, nil
}

// ListForUser returns the ratings received by a user, newest first. Ratings
// are public once written.
func (uc *RatingUseCase) ListForUser(ctx context.Context, userID string, page, limit int) ([]*entity.Rating, int64, error) {
	pagination := utils.NewPaginationParams(page, limit)

	return uc.ratingRepo.ListByRateeID(ctx, userID, pagination.PageSize, pagination.Offset)
}

// Summary aggregates a user's received ratings into count and average.
func (uc *RatingUseCase) Summary(ctx context.Context, userID string) (int, float64, error) {
	ratings, _, err := uc.ratingRepo.ListByRateeID(ctx, userID, 0, 0)
	if err != nil {
		return 0, 0, err
	}

	if len(ratings) == 0 {
		return 0, 0, nil
	}

	total := 0
	for _, rating := range ratings {
		total += rating.Score
	}

	return len(ratings), float64(total) / float64(len(ratings)), nil
}
