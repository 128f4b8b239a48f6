package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cleberrangel/time-perception-api/internal/database"
	"github.com/joho/godotenv"
)

// Config armazena as configurações da aplicação
type Config struct {
	Port     string
	GinMode  string
	LogLevel string
	LogJSON  bool

	Database database.Config

	// Janela padrão das tendências em dias
	TrendWindowDays int
	// Tempo de vida do cache de insights
	InsightsCacheTTL time.Duration

	CORSAllowedOrigins []string
	RateLimitPerMinute int
}

// ErrMissingDatabase indica que o banco de dados não foi configurado
var ErrMissingDatabase = errors.New("DB_NAME não configurado")

// Load carrega as configurações do ambiente
func Load() (*Config, error) {
	// Tenta carregar .env de múltiplos locais
	_ = godotenv.Load()          // ./.env
	_ = godotenv.Load("../.env") // diretório pai

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", "debug"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Database: database.Config{
			Host:     getEnv("DB_HOST", "127.0.0.1"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   os.Getenv("DB_NAME"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	// Validações obrigatórias
	if cfg.Database.DBName == "" {
		return nil, ErrMissingDatabase
	}

	var err error
	if cfg.LogJSON, err = getBool("LOG_JSON", false); err != nil {
		return nil, err
	}
	if cfg.TrendWindowDays, err = getInt("TREND_WINDOW_DAYS", 30); err != nil {
		return nil, err
	}
	if cfg.TrendWindowDays < 1 {
		return nil, fmt.Errorf("TREND_WINDOW_DAYS deve ser positivo, recebido: %d", cfg.TrendWindowDays)
	}

	ttlSeconds, err := getInt("INSIGHTS_CACHE_TTL", 30)
	if err != nil {
		return nil, err
	}
	cfg.InsightsCacheTTL = time.Duration(ttlSeconds) * time.Second

	if cfg.RateLimitPerMinute, err = getInt("RATE_LIMIT_PER_MINUTE", 600); err != nil {
		return nil, err
	}

	if cfg.Database.MaxOpenConns, err = getInt("DB_MAX_OPEN_CONNS", 0); err != nil {
		return nil, err
	}
	if cfg.Database.MaxIdleConns, err = getInt("DB_MAX_IDLE_CONNS", 0); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s inválido: %w", key, err)
	}
	return n, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s inválido: %w", key, err)
	}
	return b, nil
}

// splitList separa uma lista por vírgulas, ignorando itens vazios
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
