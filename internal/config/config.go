package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// LocationLogName is the file inside the upload directory that receives one line per capture.
const LocationLogName = "locations.log"

type Config struct {
	UploadDirectory    string   `validate:"required"`
	FrontendDirectory  string   `validate:"required"`
	BindAddress        string   `validate:"required,ip"`
	Port               int      `validate:"min=1,max=65535"`
	LogDirectory       string   `validate:"required"`
	LogLevel           string   `validate:"oneof=debug info warn error"`
	CORSAllowedOrigins []string `validate:"dive,required"`
	MaxUploadMemory    int64    `validate:"min=1"` // Bytes of a multipart body kept in memory before spilling to disk
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	// Missing .env is fine, the defaults below cover a bare checkout.
	_ = godotenv.Load()

	return &Config{
		UploadDirectory:    getEnv("UPLOAD_DIR", "uploads"),
		FrontendDirectory:  getEnv("FRONTEND_DIR", "frontend"),
		BindAddress:        getEnv("BIND_ADDRESS", "0.0.0.0"),
		Port:               getEnvAsInt("PORT", 8000),
		LogDirectory:       getEnv("LOG_DIR", filepath.Join(".", "logs")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsList("CORS_ORIGINS", []string{"*"}),
		MaxUploadMemory:    getEnvAsInt64("MAX_UPLOAD_MEMORY", 32<<20),
	}
}

// Validate checks the loaded values before the server binds anything.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.BindAddress, strconv.Itoa(c.Port))
}

// LocationLogPath returns the location log inside the upload directory.
func (c *Config) LocationLogPath() string {
	return filepath.Join(c.UploadDirectory, LocationLogName)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
