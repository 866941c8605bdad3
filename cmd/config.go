package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"fulfillment/internal/adapters/out/redis/countscache"
	"fulfillment/internal/jobs"

	"github.com/joho/godotenv"
)

// Config holds every setting read from the environment (and .env, if present).
type Config struct {
	HTTPPort        string
	ShutdownTimeout time.Duration
	LogLevel        slog.Level

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	JWTSecret string
	TokenTTL  time.Duration

	// RedisAddr empty keeps the board in process memory.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	BoardCacheTTL time.Duration

	BoardRefreshSpec string

	// ExtractorEndpoint empty disables draft extraction.
	ExtractorEndpoint string
	ExtractorAPIKey   string
	ExtractorCatalog  []string
	ExtractorTimeout  time.Duration
}

// LoadConfig loads envFile into the process environment without overriding
// variables that are already set, then reads Config. A missing envFile is
// not an error.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	var errList []error
	cfg := Config{
		HTTPPort:          getEnvOrDefault("HTTP_PORT", "8080"),
		ShutdownTimeout:   getDuration("SHUTDOWN_TIMEOUT", 10*time.Second, &errList),
		LogLevel:          getLogLevel("LOG_LEVEL", &errList),
		DBHost:            getEnvOrDefault("DB_HOST", "localhost"),
		DBPort:            getEnvOrDefault("DB_PORT", "5432"),
		DBUser:            getEnvOrDefault("DB_USER", "postgres"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            getEnvOrDefault("DB_NAME", "fulfillment"),
		DBSslMode:         getEnvOrDefault("DB_SSLMODE", "disable"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		TokenTTL:          getDuration("TOKEN_TTL", 12*time.Hour, &errList),
		RedisAddr:         strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getInt("REDIS_DB", 0, &errList),
		BoardCacheTTL:     getDuration("BOARD_CACHE_TTL", countscache.DefaultTTL, &errList),
		BoardRefreshSpec:  getEnvOrDefault("BOARD_REFRESH_SPEC", jobs.DefaultBoardRefreshSpec),
		ExtractorEndpoint: strings.TrimSpace(os.Getenv("EXTRACTOR_ENDPOINT")),
		ExtractorAPIKey:   os.Getenv("EXTRACTOR_API_KEY"),
		ExtractorCatalog:  getList("EXTRACTOR_CATALOG"),
		ExtractorTimeout:  getDuration("EXTRACTOR_TIMEOUT", 20*time.Second, &errList),
	}
	if err := errors.Join(errList...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DSN returns the connection string for database name.
func (c Config) DSN(name string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, name, c.DBSslMode)
}

func (c Config) requireJWTSecret() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration, errList *[]error) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		*errList = append(*errList, fmt.Errorf("%s: %q is not a positive duration", key, value))
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int, errList *[]error) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		*errList = append(*errList, fmt.Errorf("%s: %q is not a non-negative integer", key, value))
		return defaultValue
	}
	return n
}

func getLogLevel(key string, errList *[]error) slog.Level {
	var level slog.Level
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return slog.LevelInfo
	}
	if err := level.UnmarshalText([]byte(value)); err != nil {
		*errList = append(*errList, fmt.Errorf("%s: %w", key, err))
		return slog.LevelInfo
	}
	return level
}

// getList splits a comma separated variable, dropping blanks.
func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
