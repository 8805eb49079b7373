package usecase

import (
	"context"
	"time"

	"renaix/internal/domain/entity"
)

// testEnv wires the usecases against the in-memory repositories.
type testEnv struct {
	users      *memUserRepo
	products   *memProductRepo
	purchases  *memPurchaseRepo
	messages   *memMessageRepo
	ratings    *memRatingRepo
	reports    *memReportRepo
	comments   *memCommentRepo
	categories *memCategoryRepo
	tags       *memTagRepo

	ledger     *ProductLedger
	txn        *TransactionUseCase
	messaging  *MessagingUseCase
	rating     *RatingUseCase
	moderation *ModerationUseCase
	product    *ProductUseCase
	comment    *CommentUseCase
	user       *UserUseCase
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:      newMemUserRepo(),
		products:   newMemProductRepo(),
		purchases:  newMemPurchaseRepo(),
		messages:   newMemMessageRepo(),
		ratings:    newMemRatingRepo(),
		reports:    newMemReportRepo(),
		comments:   newMemCommentRepo(),
		categories: newMemCategoryRepo(),
		tags:       newMemTagRepo(),
	}

	env.ledger = NewProductLedger(env.products)
	env.txn = NewTransactionUseCase(env.purchases, env.products, env.users, env.ledger, &seqCodes{})
	env.messaging = NewMessagingUseCase(env.messages, env.products, env.users, allowAllLimiter{})
	env.rating = NewRatingUseCase(env.ratings, env.purchases)
	env.moderation = NewModerationUseCase(env.reports, env.products, env.comments, env.users, allowAllLimiter{})
	env.product = NewProductUseCase(env.products, env.categories, env.tags, env.purchases, env.ledger, memStorage{})
	env.comment = NewCommentUseCase(env.comments, env.products, env.users)
	env.user = NewUserUseCase(env.users, env.products, env.purchases, env.ratings)

	return env
}

func (env *testEnv) seedUser(id, role string) *entity.User {
	user := &entity.User{
		ID:          id,
		Email:       id + "@example.com",
		DisplayName: id,
		Role:        role,
		Active:      true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	env.users.Create(context.Background(), user)
	return user
}

func (env *testEnv) seedCategory(id string) *entity.Category {
	category := &entity.Category{ID: id, Name: id, Active: true, CreatedAt: time.Now()}
	env.categories.mu.Lock()
	env.categories.categories[id] = category
	env.categories.mu.Unlock()
	return category
}

func (env *testEnv) seedProduct(sellerID string, state entity.SaleState, price float64) *entity.Product {
	product := &entity.Product{
		SellerID:   sellerID,
		Title:      "Vintage bike",
		Price:      price,
		Condition:  entity.ConditionGood,
		SaleState:  state,
		CategoryID: "cat-1",
		Images: []entity.ProductImage{
			{ID: "img-1", URL: "https://storage.example.com/img-1.jpg", Primary: true},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	env.products.Create(context.Background(), product)
	return product
}
