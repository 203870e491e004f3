package main

import (
	"context"
	"log"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"lexvault/internal/adapter/api"
	"lexvault/internal/adapter/api/handler"
	apimiddleware "lexvault/internal/adapter/api/middleware"
	"lexvault/internal/adapter/api/router"
	"lexvault/internal/adapter/repository"
	"lexvault/internal/domain/service"
	"lexvault/internal/infrastructure/scanner"
	"lexvault/internal/infrastructure/storage"
	"lexvault/internal/usecase"
	"lexvault/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption
	serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
	if serviceAccountJSON != "" {
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else if serviceAccountPath != "" {
		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}
		opt = option.WithCredentialsFile(serviceAccountPath)
	}

	var firebaseOpts []option.ClientOption
	if opt != nil {
		firebaseOpts = append(firebaseOpts, opt)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, firebaseOpts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, firebaseOpts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	var fileStorage service.FileStorage
	switch cfg.StorageDriver {
	case "s3":
		fileStorage, err = storage.NewS3StorageClient(ctx, cfg.StorageBucket, cfg.AWSRegion)
	default:
		fileStorage, err = storage.NewCloudStorageClient(ctx, cfg.StorageBucket, serviceAccountPath)
	}
	if err != nil {
		log.Fatalf("Failed to initialize storage client (%s): %v", cfg.StorageDriver, err)
	}
	defer fileStorage.Close()

	scanChain := scanner.NewChain(
		scanner.NewClamAVClient(),
		scanner.NewVirusTotalClient(cfg.ScanPollAttempts),
		time.Duration(cfg.ScanTimeoutSeconds)*time.Second,
		config.ScannerUnavailablePolicy(),
	)

	documentRepo := repository.NewFirestoreDocumentRepository(firestoreClient)
	auditRepo := repository.NewFirestoreAuditLogRepository(firestoreClient)
	userRepo := repository.NewFirestoreUserRepository(firestoreClient)

	documentUseCase := usecase.NewDocumentUseCase(documentRepo, auditRepo, userRepo, fileStorage, scanChain, cfg)
	auditUseCase := usecase.NewAuditUseCase(auditRepo)

	handler.Setup(documentUseCase, auditUseCase)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)

	router.Setup(e, authMiddleware, adminMiddleware)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
