package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Server ServerConfig

	// MySQL, holds the user directory
	Database DatabaseConfig

	// MongoDB, holds notifications and activities
	MongoDB MongoDBConfig

	Notification NotificationConfig
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	Environment  string // development, staging, production
}

// DatabaseConfig contains the MySQL connection configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	Username     string
	Password     string
	DatabaseName string
	MaxOpenConns int
	MaxIdleConns int
}

// MongoDBConfig contains the MongoDB connection configuration
type MongoDBConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// NotificationConfig contains notification system configuration
type NotificationConfig struct {
	Workers           int // number of activity-event worker goroutines
	ChannelBufferSize int // event channel buffer size
}

func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnvOrDefault("SERVER_PORT", "7004"),
			Host:         getEnvOrDefault("SERVER_HOST", ""),
			ReadTimeout:  getEnvIntOrDefault("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvIntOrDefault("SERVER_WRITE_TIMEOUT", 30),
			Environment:  getEnvOrDefault("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:         getEnvOrDefault("DB_HOST", "localhost"),
			Port:         getEnvOrDefault("DB_PORT", "3306"),
			Username:     getEnvOrDefault("DB_USER", "labtrack"),
			Password:     getEnvOrDefault("DB_PASSWORD", "labtrack123"),
			DatabaseName: getEnvOrDefault("DB_NAME", "labtrack"),
			MaxOpenConns: getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvIntOrDefault("DB_MAX_IDLE_CONNS", 5),
		},
		MongoDB: MongoDBConfig{
			Host:     getEnvOrDefault("MONGO_HOST", "localhost"),
			Port:     getEnvOrDefault("MONGO_PORT", "27017"),
			Username: getEnvOrDefault("MONGO_USER", ""),
			Password: getEnvOrDefault("MONGO_PASSWORD", ""),
			Database: getEnvOrDefault("MONGO_DB", "labtrack"),
		},
		Notification: NotificationConfig{
			Workers:           getEnvIntOrDefault("NOTIF_WORKERS", 5),
			ChannelBufferSize: getEnvIntOrDefault("NOTIF_CHANNEL_BUFFER", 1000),
		},
	}
}

// DSN builds the MySQL connection string.
func (cfg *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

// GetMongoURI builds the MongoDB connection string, with credentials when
// configured.
func (cfg *Config) GetMongoURI() string {
	if cfg.MongoDB.Username != "" && cfg.MongoDB.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=admin",
			cfg.MongoDB.Username,
			cfg.MongoDB.Password,
			cfg.MongoDB.Host,
			cfg.MongoDB.Port,
			cfg.MongoDB.Database,
		)
	}
	return fmt.Sprintf("mongodb://%s:%s/%s",
		cfg.MongoDB.Host,
		cfg.MongoDB.Port,
		cfg.MongoDB.Database,
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
