package usecase

import (
	"context"
	"time"

	"renaix/internal/domain/entity"
	"renaix/internal/domain/repository"
)

type UserUseCase struct {
	userRepo     repository.UserRepository
	productRepo  repository.ProductRepository
	purchaseRepo repository.PurchaseRepository
	ratingRepo   repository.RatingRepository
}

func NewUserUseCase(
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseRepository,
	ratingRepo repository.RatingRepository,
) *UserUseCase {
	return &UserUseCase{
		userRepo:     userRepo,
		productRepo:  productRepo,
		purchaseRepo: purchaseRepo,
		ratingRepo:   ratingRepo,
	}
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

type UpdateProfileInput struct {
	DisplayName string
	Phone       string
	Location    string
	Bio         string
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != "" {
		user.DisplayName = input.DisplayName
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.Location != "" {
		user.Location = input.Location
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Stats recomputes the public counters for a user from products, purchases
// and ratings. Nothing here is stored; the numbers always reflect the source
// records.
func (uc *UserUseCase) Stats(ctx context.Context, userID string) (*entity.UserStats, error) {
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	stats := &entity.UserStats{UserID: userID}

	_, selling, err := uc.productRepo.ListBySellerID(ctx, userID, entity.SaleStateAvailable, 1, 0)
	if err != nil {
		return nil, err
	}
	stats.Selling = int(selling)

	_, sold, err := uc.purchaseRepo.ListByUserID(ctx, userID, "seller", entity.PurchaseStateCompleted, 1, 0)
	if err != nil {
		return nil, err
	}
	stats.Sold = int(sold)

	_, bought, err := uc.purchaseRepo.ListByUserID(ctx, userID, "buyer", entity.PurchaseStateCompleted, 1, 0)
	if err != nil {
		return nil, err
	}
	stats.Bought = int(bought)

	ratings, _, err := uc.ratingRepo.ListByRateeID(ctx, userID, 0, 0)
	if err != nil {
		return nil, err
	}
	stats.RatingCount = len(ratings)
	if len(ratings) > 0 {
		total := 0
		for _, rating := range ratings {
			total += rating.Score
		}
		stats.AverageRating = float64(total) / float64(len(ratings))
	}

	return stats, nil
}

// PublicProfile strips the private fields from a profile for display to other
// users.
func (uc *UserUseCase) PublicProfile(ctx context.Context, userID string) (*entity.User, *entity.UserStats, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	stats, err := uc.Stats(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	user.Email = ""
	user.Phone = ""

	return user, stats, nil
}
