package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Catalog CatalogConfig
	Assets  AssetsConfig
	Auth    AuthConfig
	Ai      AIConfig
	Retry   RetryConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type CatalogConfig struct {
	Path string
}

type AssetsConfig struct {
	Dir string
}

type AuthConfig struct {
	// SharedPassword gates session entry. No default: an empty value is a
	// configuration error checked at startup.
	SharedPassword  string
	SessionTTLHours int
}

type AIConfig struct {
	BaseURL     string // OpenAI-compatible endpoint
	APIKey      string
	Model       string
	ImageDetail string // "low", "high" or "auto"
}

type RetryConfig struct {
	MaxAttempts    int
	InitialDelayMs int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Catalog: CatalogConfig{
			Path: getEnv("CATALOG_PATH", "data/subtasks.csv"),
		},
		Assets: AssetsConfig{
			Dir: getEnv("ASSETS_DIR", "assets"),
		},
		Auth: AuthConfig{
			SharedPassword:  getEnv("SESSION_PASSWORD", ""),
			SessionTTLHours: getEnvAsInt("SESSION_TTL_HOURS", 12),
		},
		Ai: AIConfig{
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			ImageDetail: getEnv("OPENAI_IMAGE_DETAIL", "low"),
		},
		Retry: RetryConfig{
			MaxAttempts:    getEnvAsInt("AI_RETRY_MAX_ATTEMPTS", 5),
			InitialDelayMs: getEnvAsInt("AI_RETRY_INITIAL_DELAY_MS", 1000),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
