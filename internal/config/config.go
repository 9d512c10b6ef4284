package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	JWTSecret   string
	TokenTTLMin int
	CookieName  string
}

// CompletionConfig holds the text-completion endpoint settings.
type CompletionConfig struct {
	URL        string
	TimeoutSec int
}

// ESignConfig holds e-signature provider settings (DocuSign-compatible).
type ESignConfig struct {
	BasePath       string
	AuthServer     string
	IntegrationKey string
	Secret         string
	UserID         string
	AccountID      string
	PrivateKeyPEM  string
	RedirectURL    string
	ReturnURL      string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost    string
	Port       string
	Database   DatabaseConfig
	MinIO      MinIOConfig
	Auth       AuthConfig
	Completion CompletionConfig
	ESign      ESignConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "contracts"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Auth: AuthConfig{
			JWTSecret:   getEnv("AUTH_JWT_SECRET", ""),
			TokenTTLMin: getEnvInt("AUTH_TOKEN_TTL_MIN", 60),
			CookieName:  getEnv("AUTH_COOKIE_NAME", "session"),
		},
		Completion: CompletionConfig{
			URL:        getEnv("COMPLETION_URL", "http://localhost:5000/chat"),
			TimeoutSec: getEnvInt("COMPLETION_TIMEOUT_SEC", 120),
		},
		ESign: ESignConfig{
			BasePath:       getEnv("ESIGN_BASE_PATH", "https://demo.docusign.net/restapi"),
			AuthServer:     getEnv("ESIGN_AUTH_SERVER", "account-d.docusign.com"),
			IntegrationKey: getEnv("ESIGN_INTEGRATION_KEY", ""),
			Secret:         getEnv("ESIGN_SECRET", ""),
			UserID:         getEnv("ESIGN_USER_ID", ""),
			AccountID:      getEnv("ESIGN_ACCOUNT_ID", ""),
			PrivateKeyPEM:  getEnv("ESIGN_PRIVATE_KEY_PEM", ""),
			RedirectURL:    getEnv("ESIGN_REDIRECT_URL", ""),
			ReturnURL:      getEnv("ESIGN_RETURN_URL", ""),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
