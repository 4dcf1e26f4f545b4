package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Драйверы хранилища анализов.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

// Хранилища исходных файлов резюме.
const (
	FileStoreLocal = "local"
	FileStoreS3    = "s3"
)

const defaultUploadMaxBytes int64 = 5 << 20

type Config struct {
	Port          string
	DatabaseURL   string
	StoreDriver   string
	SQLitePath    string
	JWTSecret     string
	JWTIssuer     string
	JWTTTLMinutes int

	UploadDir      string
	UploadMaxBytes int64
	FileStore      string
	AWSRegion      string
	AWSS3Bucket    string

	LogLevel slog.Level
}

// Load reads environment variables, optionally from a .env file if present.
func Load() Config {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SQLitePath:     getEnv("SQLITE_PATH", "data/skillverge.db"),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change"),
		JWTIssuer:      getEnv("JWT_ISSUER", "skillverge"),
		JWTTTLMinutes:  getEnvInt("JWT_TTL_MINUTES", 60),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		UploadMaxBytes: getEnvInt64("UPLOAD_MAX_BYTES", defaultUploadMaxBytes),
		FileStore:      strings.ToLower(getEnv("FILE_STORE", FileStoreLocal)),
		AWSRegion:      os.Getenv("AWS_REGION"),
		AWSS3Bucket:    os.Getenv("AWS_S3_BUCKET"),
		LogLevel:       parseLevel(os.Getenv("LOG_LEVEL")),
	}
	// Без DATABASE_URL по умолчанию работаем на локальном SQLite.
	def := StoreDriverSQLite
	if cfg.DatabaseURL != "" {
		def = StoreDriverPostgres
	}
	cfg.StoreDriver = strings.ToLower(getEnv("STORE_DRIVER", def))
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
