package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MaxModelTimeout caps a single model call so a chat turn's classify, summary and
// rewrite calls plus store work fit inside the 10s request budget.
const MaxModelTimeout = 3 * time.Second

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	OpenAI   OpenAIConfig
	Seed     SeedConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Enabled         bool
	RedisHost       string
	RedisPort       string
	RedisPassword   string
	RedisDB         int
	SummaryCacheTTL time.Duration
}

// OpenAIConfig is optional. An empty APIKey disables every model-assisted path.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type SeedConfig struct {
	AutoSeed bool
	DataDir  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Smart Shop API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8000"),
			AllowedOrigins: splitCSV(getEnv("CORS_ALLOW_ORIGINS", "*")),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "smart_shop"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:         getBool("REDIS_ENABLED", false),
			RedisHost:       getEnv("REDIS_HOST", "localhost"),
			RedisPort:       getEnv("REDIS_PORT", "6379"),
			RedisPassword:   getEnv("REDIS_PASSWORD", ""),
			RedisDB:         redisDB,
			SummaryCacheTTL: getSeconds("REVIEW_SUMMARY_CACHE_SECONDS", 300),
		},
		OpenAI: OpenAIConfig{
			APIKey:  strings.TrimSpace(getEnv("OPENAI_API_KEY", "")),
			BaseURL: strings.TrimRight(getEnv("OPENAI_BASE_URL", "https://api.openai.com"), "/"),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout: getSeconds("OPENAI_TIMEOUT_SECONDS", 2),
		},
		Seed: SeedConfig{
			AutoSeed: getBool("AUTO_SEED", true),
			DataDir:  getEnv("SMART_SHOP_DATA_DIR", "./data"),
		},
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.OpenAI.Timeout <= 0 {
		return nil, errors.New("openai timeout must be positive")
	}
	if cfg.OpenAI.Timeout > MaxModelTimeout {
		return nil, fmt.Errorf("openai timeout must not exceed %s", MaxModelTimeout)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	val := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch val {
	case "":
		return defaultVal
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func getSeconds(key string, defaultVal int) time.Duration {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n <= 0 {
		n = defaultVal
	}
	return time.Duration(n) * time.Second
}

func splitCSV(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
