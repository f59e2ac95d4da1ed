package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nano-banana/admin-api/internal/config"
	"github.com/nano-banana/admin-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/nano-banana/admin-api/internal/infrastructure/jwt"
	s3infra "github.com/nano-banana/admin-api/internal/infrastructure/s3"
	"github.com/nano-banana/admin-api/internal/infrastructure/smtp"
	"github.com/nano-banana/admin-api/internal/infrastructure/sns"
	transporthttp "github.com/nano-banana/admin-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider is mandatory: without it no session can be issued or
	// validated, so there is nothing useful to serve.
	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("JWT provider: %v", err)
	}

	// S3 store.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS feedback topic (optional — creation just skips publishing).
	var publisher sns.EventPublisher
	if p, err := sns.NewPublisher(cfg); err == nil {
		publisher = p
	} else {
		log.Printf("WARN: SNS publisher not available: %v", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:         dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		SessionRepo:      dynamo.NewSessionRepo(dynamoClient, cfg.DynamoTables.Sessions),
		DeviceRepo:       dynamo.NewDeviceRepo(dynamoClient, cfg.DynamoTables.Devices),
		CategoryRepo:     dynamo.NewCategoryRepo(dynamoClient, cfg.DynamoTables.Categories),
		SubcategoryRepo:  dynamo.NewSubcategoryRepo(dynamoClient, cfg.DynamoTables.Subcategories),
		CountryRepo:      dynamo.NewCountryRepo(dynamoClient, cfg.DynamoTables.Countries),
		PromptRepo:       dynamo.NewPromptRepo(dynamoClient, cfg.DynamoTables.Prompts),
		FeedbackRepo:     dynamo.NewFeedbackRepo(dynamoClient, cfg.DynamoTables.Feedback),
		PlanRepo:         dynamo.NewPlanRepo(dynamoClient, cfg.DynamoTables.Plans),
		SubscriptionRepo: dynamo.NewSubscriptionRepo(dynamoClient, cfg.DynamoTables.Subscriptions),
		FileRepo:         dynamo.NewFileRepo(dynamoClient, cfg.DynamoTables.Files),
		VerificationRepo: dynamo.NewVerificationRepo(dynamoClient, cfg.DynamoTables.Verifications),
		S3Store:          s3Store,
		Mailer:           mailer,
		EventPublisher:   publisher,
		JWTProvider:      jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
