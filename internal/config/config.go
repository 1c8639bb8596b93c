package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvFile is loaded into the process environment when present. Variables
// already set in the environment take precedence over the file.
const EnvFile = "config.env"

type Config struct {
	Port          int
	StrictStartup bool
	DB            DBConfig
}

// DBConfig holds the connection parameters for the bookings store.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	// SSLCAPath points at the PEM bundle used to verify the server certificate.
	SSLCAPath string

	ConnectTimeout  time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Load reads the configuration from the environment, after loading EnvFile
// if it exists.
func Load() (Config, error) {
	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	return Config{
		Port:          getEnvAsIntOrDefault("PORT", 8080),
		StrictStartup: getEnvAsBoolOrDefault("STRICT_STARTUP", true),
		DB: DBConfig{
			Host:            os.Getenv("DB_HOST"),
			Port:            getEnvAsIntOrDefault("DB_PORT", 3306),
			User:            os.Getenv("DB_USER"),
			Password:        os.Getenv("DB_PASSWORD"),
			Name:            os.Getenv("DB_NAME"),
			SSLCAPath:       getEnvOrDefault("SSL_CA_PATH", "ca.pem"),
			ConnectTimeout:  getEnvAsDurationOrDefault("DB_CONNECT_TIMEOUT", 5*time.Second),
			MaxOpenConns:    getEnvAsIntOrDefault("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvAsIntOrDefault("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDurationOrDefault("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s (%q), using default %d", key, value, defaultValue)
		return defaultValue
	}
	return intValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Invalid boolean for %s (%q), using default %t", key, value, defaultValue)
		return defaultValue
	}
	return boolValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration for %s (%q), using default %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
