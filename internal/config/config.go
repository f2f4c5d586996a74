package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is assembled from environment variables. Load a .env file first
// (godotenv) if one exists; the environment always wins.
type Config struct {
	AppHost  string
	HTTPPort string
	LogLevel string

	Docstore struct {
		Host        string // e.g. http://localhost:9200
		SSLCertfile string // CA cert path; enables TLS mode when set
		Username    string // enables HTTP basic auth when set
		Password    string
		IndexPrefix string // e.g. "ddr" -> index "ddrcollection"
		Clusters    string // JSON: {"green":["192.168.0.19"],"blue":[...]}
	}

	KafkaBrokers []string
	KafkaGroupID string
	KafkaTopics  []string

	CacheAddrs []string
	CacheTTL   time.Duration

	ResultsPerPage int
}

func Load() (*Config, error) {
	cfg := &Config{
		AppHost:  getEnv("APP_HOST", "0.0.0.0"),
		HTTPPort: firstEnv("APP_PORT", "HTTP_PORT", "8096"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
	cfg.Docstore.Host = getEnv("DOCSTORE_HOST", "http://localhost:9200")
	cfg.Docstore.SSLCertfile = getEnv("DOCSTORE_SSL_CERTFILE", "")
	cfg.Docstore.Username = getEnv("DOCSTORE_USERNAME", "")
	cfg.Docstore.Password = getEnv("DOCSTORE_PASSWORD", "")
	cfg.Docstore.IndexPrefix = getEnv("DOCSTORE_INDEX_PREFIX", "ddr")
	cfg.Docstore.Clusters = getEnv("DOCSTORE_CLUSTERS", "")

	cfg.KafkaBrokers = splitEnv("KAFKA_BROKERS")
	cfg.KafkaGroupID = getEnv("KAFKA_GROUP_ID", "elastictools-indexer")
	cfg.KafkaTopics = splitEnv("KAFKA_TOPICS")

	cfg.CacheAddrs = splitEnv("CACHE_ADDRS")
	cfg.CacheTTL = durationEnv("CACHE_TTL", 5*time.Minute)

	cfg.ResultsPerPage = intEnv("RESULTS_PER_PAGE", 25)
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Docstore.Host == "" {
		return errors.New("config: DOCSTORE_HOST is required")
	}
	if c.Docstore.Username != "" && c.Docstore.Password == "" {
		return errors.New("config: DOCSTORE_PASSWORD is required when DOCSTORE_USERNAME is set")
	}
	if c.ResultsPerPage <= 0 {
		return errors.New("config: RESULTS_PER_PAGE must be positive")
	}
	return nil
}

func (c *Config) AppEnv() string {
	return getEnv("APP_ENV", "development")
}

func firstEnv(keysAndDef ...string) string {
	if len(keysAndDef) == 0 {
		return ""
	}
	def := keysAndDef[len(keysAndDef)-1]
	keys := keysAndDef[:len(keysAndDef)-1]
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// splitEnv reads a comma-separated env var into a slice, dropping empties.
func splitEnv(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func intEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func durationEnv(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
