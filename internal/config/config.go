package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// AttendanceConfig holds attendance policy knobs.
type AttendanceConfig struct {
	// AllowMultipleCycles permits a second check-in cycle on the same date
	// after checkout. Default false: one cycle per person per day.
	AllowMultipleCycles bool

	// MaxOpenSessionHours is how long a session may stay open before the
	// auto-close job stamps it closed.
	MaxOpenSessionHours int

	// MaxRangeDays caps the date range of roster and deployment listings.
	MaxRangeDays int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading environment directly")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "sitepatrol"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance policy configuration
	maxOpenHours, err := strconv.Atoi(getEnv("ATTENDANCE_MAX_OPEN_SESSION_HOURS", "16"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_MAX_OPEN_SESSION_HOURS: %w", err)
	}
	maxRangeDays, err := strconv.Atoi(getEnv("ROSTER_MAX_RANGE_DAYS", "3660"))
	if err != nil {
		return nil, fmt.Errorf("invalid ROSTER_MAX_RANGE_DAYS: %w", err)
	}

	config.Attendance = AttendanceConfig{
		AllowMultipleCycles: getEnv("ATTENDANCE_ALLOW_MULTIPLE_CYCLES", "false") == "true",
		MaxOpenSessionHours: maxOpenHours,
		MaxRangeDays:        maxRangeDays,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Attendance.MaxOpenSessionHours <= 0 {
		return fmt.Errorf("ATTENDANCE_MAX_OPEN_SESSION_HOURS must be positive")
	}
	if c.Attendance.MaxRangeDays <= 0 {
		return fmt.Errorf("ROSTER_MAX_RANGE_DAYS must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
