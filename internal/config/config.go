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

	DynamoTables DynamoTables
	S3BucketName string

	SNSTopicARN string // feedback event topic; empty disables publishing
	SNSRegion   string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string

	// SessionTTL is the server-validated token lifetime (T1). MarkerTTL is
	// the client-readable marker lifetime (T2); Load clamps it to >= T1.
	SessionTTL time.Duration
	MarkerTTL  time.Duration

	// DeviceAccountLimit is the maximum number of accounts that may be bound
	// to one device fingerprint.
	DeviceAccountLimit int

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	CookieDomain string
	CookieSecure bool

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each collection.
type DynamoTables struct {
	Users         string
	Sessions      string
	Devices       string
	Categories    string
	Subcategories string
	Countries     string
	Prompts       string
	Feedback      string
	Plans         string
	Subscriptions string
	Files         string
	Verifications string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	sessionTTL := time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)) * time.Minute
	markerTTL := time.Duration(getEnvInt("MARKER_TTL_MINUTES", 1440)) * time.Minute
	if markerTTL < sessionTTL {
		markerTTL = sessionTTL
	}

	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		DynamoTables: DynamoTables{
			Users:         getEnv("DYNAMO_TABLE_USERS", "users"),
			Sessions:      getEnv("DYNAMO_TABLE_SESSIONS", "sessions"),
			Devices:       getEnv("DYNAMO_TABLE_DEVICES", "devices"),
			Categories:    getEnv("DYNAMO_TABLE_CATEGORIES", "categories"),
			Subcategories: getEnv("DYNAMO_TABLE_SUBCATEGORIES", "subcategories"),
			Countries:     getEnv("DYNAMO_TABLE_COUNTRIES", "countries"),
			Prompts:       getEnv("DYNAMO_TABLE_PROMPTS", "prompts"),
			Feedback:      getEnv("DYNAMO_TABLE_FEEDBACK", "feedback"),
			Plans:         getEnv("DYNAMO_TABLE_PLANS", "plans"),
			Subscriptions: getEnv("DYNAMO_TABLE_SUBSCRIPTIONS", "subscriptions"),
			Files:         getEnv("DYNAMO_TABLE_FILES", "files"),
			Verifications: getEnv("DYNAMO_TABLE_VERIFICATIONS", "user_verifications"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "nano-banana-images"),

		SNSTopicARN: getEnv("SNS_FEEDBACK_TOPIC_ARN", ""),
		SNSRegion:   getEnv("SNS_REGION", "us-east-1"),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),

		SessionTTL: sessionTTL,
		MarkerTTL:  markerTTL,

		DeviceAccountLimit: getEnvInt("DEVICE_ACCOUNT_LIMIT", 3),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@nanobanana.app"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		CookieDomain: getEnv("COOKIE_DOMAIN", ""),
		CookieSecure: getEnv("COOKIE_SECURE", "true") == "true",

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
