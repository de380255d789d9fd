package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	GinMode          string
	MongoURI         string
	MongoDatabase    string
	RabbitMQURI      string
	RabbitMQExchange string
	RedisAddr        string
	RedisPassword    string
	PoolCacheTTL     time.Duration
	JWTSecret        string
	ResetTokenTTL    time.Duration
	AllowOrigins     []string
}

var AppConfig *Config

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		GinMode:          getEnvOrDefault("GIN_MODE", "debug"),
		MongoURI:         getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:    getEnvOrDefault("MONGO_DATABASE", "mathlearn"),
		RabbitMQURI:      getEnvOrDefault("RABBITMQ_URI", ""),
		RabbitMQExchange: getEnvOrDefault("RABBITMQ_EXCHANGE", ""),
		RedisAddr:        getEnvOrDefault("REDIS_ADDR", ""),
		RedisPassword:    getEnvOrDefault("REDIS_PASSWORD", ""),
		PoolCacheTTL:     getDurationOrDefault("POOL_CACHE_TTL_SECONDS", 300),
		JWTSecret:        getEnvOrDefault("JWT_SECRET", "change-me"),
		ResetTokenTTL:    getDurationOrDefault("RESET_TOKEN_TTL_SECONDS", 3600),
		AllowOrigins:     []string{getEnvOrDefault("ALLOW_ORIGIN", "http://localhost:3000")},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultSeconds int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
		log.Printf("Invalid %s value %q, using default", key, value)
	}
	return time.Duration(defaultSeconds) * time.Second
}
