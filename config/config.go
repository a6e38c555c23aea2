package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every environment-driven setting the binaries need. One env
// read at startup; nothing reads os.Getenv after LoadConfig returns.
type Config struct {
	// HTTP
	HTTP_ADDR string

	// Database (PostgreSQL)
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string
	DB_HOST     string
	DB_PORT     string

	// Kafka
	KAFKA_BROKER string
	KAFKA_TOPIC  string

	// RabbitMQ
	RABBITMQ_USER     string
	RABBITMQ_PASSWORD string
	RABBITMQ_HOST     string
	RABBITMQ_PORT     string

	// Temporal
	TEMPORAL_HOSTPORT string

	// Auth provider + token verification
	AUTH_BASE_URL         string
	AUTH_API_KEY          string
	JWT_SECRET            string
	JWT_ISSUER            string
	STRIPE_WEBHOOK_SECRET string

	// Tender offer window before an unanswered tender reverts.
	TENDER_WINDOW time.Duration
}

// LoadConfig reads the environment into a Config, applying defaults where a
// setting is optional.
func LoadConfig() *Config {
	return &Config{
		HTTP_ADDR: getEnv("HTTP_ADDR", ":8080"),

		DB_USER:     os.Getenv("DB_USER"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_HOST:     os.Getenv("DB_HOST"),
		DB_PORT:     getEnv("DB_PORT", "5432"),
		DB_NAME:     os.Getenv("DB_NAME"),

		KAFKA_BROKER: getEnv("KAFKA_BROKER", "localhost:9092"),
		KAFKA_TOPIC:  getEnv("KAFKA_TOPIC", "load.events"),

		RABBITMQ_USER:     os.Getenv("RABBITMQ_USER"),
		RABBITMQ_PASSWORD: os.Getenv("RABBITMQ_PASSWORD"),
		RABBITMQ_HOST:     getEnv("RABBITMQ_HOST", "localhost"),
		RABBITMQ_PORT:     getEnv("RABBITMQ_PORT", "5672"),

		TEMPORAL_HOSTPORT: getEnv("TEMPORAL_HOSTPORT", "localhost:7233"),

		AUTH_BASE_URL:         os.Getenv("AUTH_BASE_URL"),
		AUTH_API_KEY:          os.Getenv("AUTH_API_KEY"),
		JWT_SECRET:            os.Getenv("JWT_SECRET"),
		JWT_ISSUER:            getEnv("JWT_ISSUER", "evolvetms"),
		STRIPE_WEBHOOK_SECRET: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		TENDER_WINDOW: getDuration("TENDER_WINDOW_HOURS", 48),
	}
}

// GetDBURL formats the config into a PostgreSQL connection string.
func (c *Config) GetDBURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DB_USER, c.DB_PASSWORD, c.DB_HOST, c.DB_PORT, c.DB_NAME)
}

// GetRabbitMQURL formats the config into an AMQP connection string.
func (c *Config) GetRabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.RABBITMQ_USER, c.RABBITMQ_PASSWORD, c.RABBITMQ_HOST, c.RABBITMQ_PORT)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallbackHours int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h > 0 {
			return time.Duration(h) * time.Hour
		}
	}
	return time.Duration(fallbackHours) * time.Hour
}
