package events

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvKafkaBrokers        = "KAFKA_BROKERS"
	EnvKafkaMaxAttempts    = "KAFKA_PRODUCER_MAX_ATTEMPTS"
	EnvKafkaBatchTimeout   = "KAFKA_PRODUCER_BATCH_TIMEOUT"
	EnvKafkaCommitInterval = "KAFKA_CONSUMER_COMMIT_INTERVAL"
	EnvKafkaMaxRetries     = "KAFKA_CONSUMER_MAX_RETRIES"

	DefaultKafkaBrokers   = "localhost:9092"
	DefaultMaxAttempts    = 3
	DefaultBatchTimeout   = 10 * time.Millisecond
	DefaultCommitInterval = 1 * time.Second
	DefaultMaxRetries     = 3
)

type Config struct {
	Brokers        []string
	MaxAttempts    int
	BatchTimeout   time.Duration
	CommitInterval time.Duration
	MaxRetries     int
}

func LoadConfig() *Config {
	brokersStr := getEnvStr(EnvKafkaBrokers, DefaultKafkaBrokers)
	brokers := strings.Split(brokersStr, ",")
	for i, broker := range brokers {
		brokers[i] = strings.TrimSpace(broker)
	}

	return &Config{
		Brokers:        brokers,
		MaxAttempts:    getEnvInt(EnvKafkaMaxAttempts, DefaultMaxAttempts),
		BatchTimeout:   getEnvDuration(EnvKafkaBatchTimeout, DefaultBatchTimeout),
		CommitInterval: getEnvDuration(EnvKafkaCommitInterval, DefaultCommitInterval),
		MaxRetries:     getEnvInt(EnvKafkaMaxRetries, DefaultMaxRetries),
	}
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
