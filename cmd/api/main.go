package main

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"renaix/internal/adapter/api"
	"renaix/internal/adapter/api/handler"
	apimiddleware "renaix/internal/adapter/api/middleware"
	"renaix/internal/adapter/api/router"
	"renaix/internal/adapter/repository"
	"renaix/internal/infrastructure/codegen"
	"renaix/internal/infrastructure/firebase"
	"renaix/internal/infrastructure/ratelimit"
	"renaix/internal/infrastructure/storage"
	"renaix/internal/infrastructure/websocket"
	"renaix/internal/usecase"
	"renaix/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, cfg.CredentialsFile)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	productRepo := repository.NewFirestoreProductRepository(firestoreClient)
	purchaseRepo := repository.NewFirestorePurchaseRepository(firestoreClient)
	messageRepo := repository.NewFirestoreMessageRepository(firestoreClient)
	ratingRepo := repository.NewFirestoreRatingRepository(firestoreClient)
	reportRepo := repository.NewFirestoreReportRepository(firestoreClient)
	commentRepo := repository.NewFirestoreCommentRepository(firestoreClient)
	categoryRepo := repository.NewFirestoreCategoryRepository(firestoreClient)
	tagRepo := repository.NewFirestoreTagRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseAPIKey)

	limiter := ratelimit.NewRateLimiter()
	limiter.StartCleanupRoutine()

	codes := codegen.NewPurchaseCodeGenerator()

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	ledger := usecase.NewProductLedger(productRepo)

	authUseCase := usecase.NewAuthUseCase(userRepo, firebaseAuthClient)
	userUseCase := usecase.NewUserUseCase(userRepo, productRepo, purchaseRepo, ratingRepo)
	productUseCase := usecase.NewProductUseCase(productRepo, categoryRepo, tagRepo, purchaseRepo, ledger, storageClient)
	transactionUseCase := usecase.NewTransactionUseCase(purchaseRepo, productRepo, userRepo, ledger, codes)
	messagingUseCase := usecase.NewMessagingUseCase(messageRepo, productRepo, userRepo, limiter)
	ratingUseCase := usecase.NewRatingUseCase(ratingRepo, purchaseRepo)
	moderationUseCase := usecase.NewModerationUseCase(reportRepo, productRepo, commentRepo, userRepo, limiter)
	commentUseCase := usecase.NewCommentUseCase(commentRepo, productRepo, userRepo)
	categoryUseCase := usecase.NewCategoryUseCase(categoryRepo, tagRepo)

	handler.Setup(
		authUseCase,
		userUseCase,
		productUseCase,
		transactionUseCase,
		messagingUseCase,
		ratingUseCase,
		moderationUseCase,
		commentUseCase,
		categoryUseCase,
		wsManager,
	)
	handler.SetupHealthHandler(firestoreClient)

	e := echo.New()

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	ipLimiter := apimiddleware.NewIPRateLimiter(300, time.Minute)
	e.Use(ipLimiter.Middleware())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	moderatorMiddleware := apimiddleware.NewModeratorMiddleware(userRepo)

	wsHandler := handler.NewWebSocketHandler(wsManager, authClient, userRepo)

	router.Setup(e, authMiddleware, moderatorMiddleware, authClient, wsHandler)

	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
