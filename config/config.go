package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Parser strategy names accepted in PARSER_STRATEGY.
const (
	StrategyPattern = "pattern"
	StrategyModel   = "model"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	SourceURL string
	ChromeBin string

	NavTimeoutSeconds int
	TooltipWaitMs     int

	ParserStrategy string
	LLMEndpoint    string
	LLMModel       string
	MemcacheAddr   string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	RedisAddr    string
	RedisDB      int
	RedisChannel string

	OutputDir       string
	DownloadImages  bool
	DebugScreenshot bool

	MaxConcurrency int
	RateLimitMs    int
	MaxRetries     int
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		SourceURL: getEnv("SOURCE_URL", "https://www.forbes.com/advisor/credit-cards/best/"),
		ChromeBin: getEnv("CHROME_BIN", ""),

		NavTimeoutSeconds: getEnvInt("NAV_TIMEOUT_SECONDS", 45),
		TooltipWaitMs:     getEnvInt("TOOLTIP_WAIT_MS", 800),

		ParserStrategy: getEnv("PARSER_STRATEGY", StrategyPattern),
		LLMEndpoint:    getEnv("LLM_ENDPOINT", "http://localhost:11434/api/chat"),
		LLMModel:       getEnv("LLM_MODEL", "llama3.1"),
		MemcacheAddr:   getEnv("MEMCACHE_ADDR", ""),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "cards_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisAddr:    getEnv("REDIS_ADDR", ""),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		RedisChannel: getEnv("REDIS_CHANNEL", "card-reports"),

		OutputDir:       getEnv("OUTPUT_DIR", "./output"),
		DownloadImages:  getEnvBool("DOWNLOAD_IMAGES", false),
		DebugScreenshot: getEnvBool("DEBUG_SCREENSHOT", false),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 3),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 500),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
