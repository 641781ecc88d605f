// Package config builds server configuration from the environment so main
// stays lean.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"chronicle/internal/timeline/models"
)

// Server captures process level configuration.
type Server struct {
	Addr      string
	LogFormat string

	PostgresDSN string
	Redis       RedisConfig
	Kafka       KafkaConfig

	ArticleBatchSize int
	SearchDebounce   time.Duration
	SessionTTL       time.Duration

	// OrderingFile optionally overrides the compiled-in category ordering
	// tables with a YAML file.
	OrderingFile string
}

// RedisConfig configures the optional article cache. An empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CacheTTL     time.Duration
}

// KafkaConfig configures the optional analytics sink. Empty brokers disable it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	cfg := Server{
		Addr:             getEnv("CHRONICLE_ADDR", ":8080"),
		LogFormat:        getEnv("CHRONICLE_LOG_FORMAT", "json"),
		PostgresDSN:      os.Getenv("CHRONICLE_POSTGRES_DSN"),
		ArticleBatchSize: getEnvInt("CHRONICLE_ARTICLE_BATCH_SIZE", 50),
		SearchDebounce:   getEnvDuration("CHRONICLE_SEARCH_DEBOUNCE", 300*time.Millisecond),
		SessionTTL:       getEnvDuration("CHRONICLE_SESSION_TTL", 30*time.Minute),
		OrderingFile:     os.Getenv("CHRONICLE_ORDERING_FILE"),
		Redis: RedisConfig{
			URL:          os.Getenv("CHRONICLE_REDIS_URL"),
			PoolSize:     getEnvInt("CHRONICLE_REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("CHRONICLE_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("CHRONICLE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("CHRONICLE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("CHRONICLE_REDIS_WRITE_TIMEOUT", 3*time.Second),
			CacheTTL:     getEnvDuration("CHRONICLE_REDIS_CACHE_TTL", time.Hour),
		},
		Kafka: KafkaConfig{
			Topic: getEnv("CHRONICLE_KAFKA_TOPIC", "chronicle.analytics"),
		},
	}
	if brokers := os.Getenv("CHRONICLE_KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = splitCSV(brokers)
	}
	return cfg
}

// orderingFile is the YAML shape of an ordering override.
type orderingFile struct {
	Categories []struct {
		Name          string   `yaml:"name"`
		Description   string   `yaml:"description"`
		Subcategories []string `yaml:"subcategories"`
	} `yaml:"categories"`
}

// LoadOrdering reads the ordering override file, falling back to the
// compiled-in tables when no path is configured.
func LoadOrdering(path string) (models.Ordering, error) {
	if path == "" {
		return models.DefaultOrdering(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.Ordering{}, fmt.Errorf("read ordering file: %w", err)
	}
	var file orderingFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return models.Ordering{}, fmt.Errorf("parse ordering file: %w", err)
	}
	if len(file.Categories) == 0 {
		return models.Ordering{}, fmt.Errorf("ordering file %s lists no categories", path)
	}
	ordering := models.Ordering{}
	for _, c := range file.Categories {
		ordering.Categories = append(ordering.Categories, models.CategoryOrder{
			Name:          c.Name,
			Description:   c.Description,
			Subcategories: c.Subcategories,
		})
	}
	return ordering, nil
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

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
