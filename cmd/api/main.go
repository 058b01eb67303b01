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

	"github.com/authcheck-api/internal/config"
	"github.com/authcheck-api/internal/infrastructure/discord"
	"github.com/authcheck-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/authcheck-api/internal/infrastructure/jwt"
	"github.com/authcheck-api/internal/infrastructure/roblox"
	s3infra "github.com/authcheck-api/internal/infrastructure/s3"
	"github.com/authcheck-api/internal/infrastructure/sns"
	transporthttp "github.com/authcheck-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider (optional — the admin dashboard is disabled without keys).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// Report archive.
	s3Client := s3infra.NewClient(cfg)
	archive := s3infra.NewArchive(s3Client, cfg.S3BucketName)

	// Flagged-report alerts (optional — graceful fallback).
	var alerts sns.AlertPublisher
	if cfg.SNSTopicARN != "" {
		if p, err := sns.NewPublisher(cfg); err == nil {
			alerts = p
		} else {
			log.Printf("WARN: SNS publisher not available: %v", err)
		}
	}

	// Chat-platform client (optional — role grants and report embeds are
	// skipped without a bot token).
	var discordClient *discord.Client
	if cfg.BotToken != "" {
		discordClient = discord.New(cfg.BotToken)
	} else {
		log.Println("WARN: BOT_TOKEN not set; role grants and report routing disabled")
	}

	deps := &transporthttp.Deps{
		PendingRepo:     dynamo.NewPendingRepo(dynamoClient, cfg.DynamoTables.PendingVerifications),
		LinkRepo:        dynamo.NewLinkRepo(dynamoClient, cfg.DynamoTables.VerifiedLinks, cfg.DynamoTables.ProviderClaims),
		GuildConfigRepo: dynamo.NewGuildConfigRepo(dynamoClient, cfg.DynamoTables.GuildConfigs),
		CredentialsRepo: dynamo.NewCredentialsRepo(dynamoClient, cfg.DynamoTables.BotCredentials),
		ProviderClient:  roblox.New(),
		DiscordClient:   discordClient,
		ReportArchive:   archive,
		AlertPublisher:  alerts,
		JWTProvider:     jwtProvider,
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
