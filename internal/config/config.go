package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string
	SNSTopicARN    string
	SNSRegion      string

	// Identity-provider OAuth credentials. Environment values are the
	// fallback when no credentials row exists in the store.
	ProviderClientID     string
	ProviderClientSecret string
	ProviderRedirectURI  string

	// Platform (chat) collaborator.
	BotToken string

	// Shared key the gateway sidecar presents on the internal command endpoints.
	GatewayAPIKey string

	// Admin dashboard auth.
	AdminPasswordHash string
	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each record kind.
type DynamoTables struct {
	PendingVerifications string
	VerifiedLinks        string
	ProviderClaims       string
	GuildConfigs         string
	BotCredentials       string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			PendingVerifications: getEnv("DYNAMO_TABLE_PENDING_VERIFICATIONS", "pending_verifications"),
			VerifiedLinks:        getEnv("DYNAMO_TABLE_VERIFIED_LINKS", "verified_links"),
			ProviderClaims:       getEnv("DYNAMO_TABLE_PROVIDER_CLAIMS", "provider_claims"),
			GuildConfigs:         getEnv("DYNAMO_TABLE_GUILD_CONFIGS", "guild_configs"),
			BotCredentials:       getEnv("DYNAMO_TABLE_BOT_CREDENTIALS", "bot_credentials"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "authcheck-reports"),
		SNSTopicARN:  getEnv("SNS_TOPIC_ARN", ""),
		SNSRegion:    getEnv("SNS_REGION", "us-east-1"),

		ProviderClientID:     getEnv("PROVIDER_CLIENT_ID", ""),
		ProviderClientSecret: getEnv("PROVIDER_CLIENT_SECRET", ""),
		ProviderRedirectURI:  getEnv("PROVIDER_REDIRECT_URI", ""),

		BotToken: getEnv("BOT_TOKEN", ""),

		GatewayAPIKey: getEnv("GATEWAY_API_KEY", ""),

		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 12)) * time.Hour,

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
