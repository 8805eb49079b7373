package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renaix/internal/domain/entity"
	"renaix/pkg/errors"
)

func completedPurchase(t *testing.T, env *testEnv) *entity.Purchase {
	t.Helper()
	ctx := context.Background()

	product := env.seedProduct("seller", entity.SaleStateAvailable, 100)
	opened, err := env.txn.OpenPurchase(ctx, "buyer", OpenPurchaseInput{ProductID: product.ID})
	require.NoError(t, err)
	_, err = env.txn.Confirm(ctx, "seller", opened.Purchase.ID)
	require.NoError(t, err)
	completed, err := env.txn.Complete(ctx, "buyer", opened.Purchase.ID)
	require.NoError(t, err)
	return completed.Purchase
}

func TestSubmitRating(t *testing.T) {
	env := newTestEnv()
	env.seedUser("seller", "user")
	env.seedUser("buyer", "user")
	ctx := context.Background()

	purchase := completedPurchase(t, env)

	result, err := env.rating.SubmitRating(ctx, "buyer", SubmitRatingInput{
		PurchaseID: purchase.ID,
		Direction:  entity.RatingBuyerToSeller,
		Score:      5,
		Comment:    "great seller",
	})
	require.NoError(t, err)
	assert.Equal(t, "seller", result.Rating.RateeID)

	require.Len(t, result.Events, 1)
	assert.Equal(t, entity.EventRatingReceived, result.Events[0].Type)
	assert.Equal(t, "seller", result.Events[0].RecipientID)
}

func TestSubmitRatingGating(t *testing.T) {
	env := newTestEnv()
	env.seedUser("seller", "user")
	env.seedUser("buyer", "user")
	ctx := context.Background()

	product := env.seedProduct("seller", entity.SaleStateAvailable, 100)
	opened, err := env.txn.OpenPurchase(ctx, "buyer", OpenPurchaseInput{ProductID: product.ID})
	require.NoError(t, err)

	// Pending and confirmed purchases cannot be rated.
	_, err = env.rating.SubmitRating(ctx, "buyer", SubmitRatingInput{
		PurchaseID: opened.Purchase.ID,
		Direction:  entity.RatingBuyerToSeller,
		Score:      5,
	})
	assert.True(t, errors.Is(err, "PURCHASE_NOT_COMPLETED"))

	_, err = env.txn.Confirm(ctx, "seller", opened.Purchase.ID)
	require.NoError(t, err)

	_, err = env.rating.SubmitRating(ctx, "buyer", SubmitRatingInput{
		PurchaseID: opened.Purchase.ID,
		Direction:  entity.RatingBuyerToSeller,
		Score:      5,
	})
	assert.True(t, errors.Is(err, "PURCHASE_NOT_COMPLETED"))
}

func TestSubmitRatingScoreRange(t *testing.T) {
	env := newTestEnv()
	env.seedUser("seller", "user")
	env.seedUser("buyer", "user")
	ctx := context.Background()

	purchase := completedPurchase(t, env)

	for _, score := range []int{0, -1, 6, 100} {
		_, err := env.rating.SubmitRating(ctx, "buyer", SubmitRatingInput{
			PurchaseID: purchase.ID,
			Direction:  entity.RatingBuyerToSeller,
			Score:      score,
		})
		assert.True(t, errors.Is(err, "SCORE_OUT_OF_RANGE"), "score %d", score)
	}
}

func TestSubmitRatingDirectionAuth(t *testing.T) {
	env := newTestEnv()
	env.seedUser("seller", "user")
	env.seedUser("buyer", "user")
	env.seedUser("stranger", "user")
	ctx := context.Background()

	purchase := completedPurchase(t, env)

	// The seller cannot use the buyer's direction, nor vice versa.
	_, err := env.rating.SubmitRating(ctx, "seller", SubmitRatingInput{
		PurchaseID: purchase.ID,
		Direction:  entity.RatingBuyerToSeller,
		Score:      5,
	})
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))

	_, err = env.rating.SubmitRating(ctx, "buyer", SubmitRatingInput{
		PurchaseID: purchase.ID,
		Direction:  entity.RatingSellerToBuyer,
		Score:      5,
	})
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))

	_, err = env.rating.SubmitRating(ctx, "stranger", SubmitRatingInput{
		PurchaseID: purchase.ID,
		Direction:  entity.RatingBuyerToSeller,
		Score:      5,
	})
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))
}

func TestSubmitRatingDuplicate(t *testing.T) {
	env := newTestEnv()
	env.seedUser("seller", "user")
	env.seedUser("buyer", "user")
	ctx := context.Background()

	purchase := completedPurchase(t, env)

	_, err := env.rating.SubmitRating(ctx, "buyer", SubmitRatingInput{
		PurchaseID: purchase.ID,
		Direction:  entity.RatingBuyerToSeller,
		Score:      4,
	})
	require.NoError(t, err)

	_, err = env.rating.SubmitRating(ctx, "buyer", SubmitRatingInput{
		PurchaseID: purchase.ID,
		Direction:  entity.RatingBuyerToSeller,
		Score:      5,
	})
	assert.True(t, errors.Is(err, "DUPLICATE_RATING"))

	// The opposite direction is still open.
	_, err = env.rating.SubmitRating(ctx, "seller", SubmitRatingInput{
		PurchaseID: purchase.ID,
		Direction:  entity.RatingSellerToBuyer,
		Score:      5,
	})
	require.NoError(t, err)
}

func TestRatingStatusDerived(t *testing.T) {
	env := newTestEnv()
	env.seedUser("seller", "user")
	env.seedUser("buyer", "user")
	ctx := context.Background()

	purchase := completedPurchase(t, env)

	status, err := env.rating.Status(ctx, "buyer", purchase.ID)
	require.NoError(t, err)
	assert.False(t, status.BuyerRated)
	assert.False(t, status.SellerRated)

	_, err = env.rating.SubmitRating(ctx, "buyer", SubmitRatingInput{
		PurchaseID: purchase.ID,
		Direction:  entity.RatingBuyerToSeller,
		Score:      5,
	})
	require.NoError(t, err)

	status, err = env.rating.Status(ctx, "buyer", purchase.ID)
	require.NoError(t, err)
	assert.True(t, status.BuyerRated)
	assert.False(t, status.SellerRated)

	_, err = env.rating.SubmitRating(ctx, "seller", SubmitRatingInput{
		PurchaseID: purchase.ID,
		Direction:  entity.RatingSellerToBuyer,
		Score:      3,
	})
	require.NoError(t, err)

	status, err = env.rating.Status(ctx, "seller", purchase.ID)
	require.NoError(t, err)
	assert.True(t, status.BuyerRated)
	assert.True(t, status.SellerRated)
}

func TestRatingSummary(t *testing.T) {
	env := newTestEnv()
	env.seedUser("seller", "user")
	env.seedUser("buyer", "user")
	env.seedUser("buyer2", "user")
	ctx := context.Background()

	first := completedPurchase(t, env)

	product := env.seedProduct("seller", entity.SaleStateAvailable, 80)
	opened, err := env.txn.OpenPurchase(ctx, "buyer2", OpenPurchaseInput{ProductID: product.ID})
	require.NoError(t, err)
	_, err = env.txn.Confirm(ctx, "seller", opened.Purchase.ID)
	require.NoError(t, err)
	second, err := env.txn.Complete(ctx, "buyer2", opened.Purchase.ID)
	require.NoError(t, err)

	_, err = env.rating.SubmitRating(ctx, "buyer", SubmitRatingInput{
		PurchaseID: first.ID, Direction: entity.RatingBuyerToSeller, Score: 5,
	})
	require.NoError(t, err)
	_, err = env.rating.SubmitRating(ctx, "buyer2", SubmitRatingInput{
		PurchaseID: second.Purchase.ID, Direction: entity.RatingBuyerToSeller, Score: 3,
	})
	require.NoError(t, err)

	count, average, err := env.rating.Summary(ctx, "seller")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.InDelta(t, 4.0, average, 0.001)
}
