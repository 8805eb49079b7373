package handler

import (
	"renaix/internal/infrastructure/websocket"
	"renaix/internal/usecase"
)

var (
	authHandler     *AuthHandler
	userHandler     *UserHandler
	productHandler  *ProductHandler
	purchaseHandler *PurchaseHandler
	messageHandler  *MessageHandler
	ratingHandler   *RatingHandler
	reportHandler   *ReportHandler
	commentHandler  *CommentHandler
	categoryHandler *CategoryHandler
)

// Setup wires the handler singletons. Called once from main before the
// routers ask for them.
func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	productUseCase *usecase.ProductUseCase,
	transactionUseCase *usecase.TransactionUseCase,
	messagingUseCase *usecase.MessagingUseCase,
	ratingUseCase *usecase.RatingUseCase,
	moderationUseCase *usecase.ModerationUseCase,
	commentUseCase *usecase.CommentUseCase,
	categoryUseCase *usecase.CategoryUseCase,
	wsManager *websocket.Manager,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	productHandler = NewProductHandler(productUseCase)
	purchaseHandler = NewPurchaseHandler(transactionUseCase, wsManager)
	messageHandler = NewMessageHandler(messagingUseCase, wsManager)
	ratingHandler = NewRatingHandler(ratingUseCase, wsManager)
	reportHandler = NewReportHandler(moderationUseCase, wsManager)
	commentHandler = NewCommentHandler(commentUseCase)
	categoryHandler = NewCategoryHandler(categoryUseCase)
}

func GetAuthHandler() *AuthHandler { return authHandler }

func GetUserHandler() *UserHandler { return userHandler }

func GetProductHandler() *ProductHandler { return productHandler }

func GetPurchaseHandler() *PurchaseHandler { return purchaseHandler }

func GetMessageHandler() *MessageHandler { return messageHandler }

func GetRatingHandler() *RatingHandler { return ratingHandler }

func GetReportHandler() *ReportHandler { return reportHandler }

func GetCommentHandler() *CommentHandler { return commentHandler }

func GetCategoryHandler() *CategoryHandler { return categoryHandler }
