package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Payroll    PayrollConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	MinConns int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret              string
	DeviceTokenDuration time.Duration
	// EnrollmentKey is the shared secret a time-clock device presents to
	// obtain a device token. Enrollment is disabled when empty.
	EnrollmentKey string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// AttendanceConfig holds the nightly recalculation knobs.
type AttendanceConfig struct {
	RecalcHour     int
	RecalcMinute   int
	RecalcLookback int // days
}

// PayrollConfig holds payroll generation knobs.
type PayrollConfig struct {
	LateDeductionPerMinute string // decimal string, e.g. "0.50"
}

func Load() (*Config, error) {
	// Missing .env is fine in containerized deploys; env vars win anyway.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbMaxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	dbMinConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: dbMaxConns,
		MinConns: dbMinConns,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	deviceTokenDuration, err := time.ParseDuration(getEnv("JWT_DEVICE_TOKEN_DURATION", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_DEVICE_TOKEN_DURATION: %w", err)
	}

	config.JWT = JWTConfig{
		Secret:              getEnv("JWT_SECRET_KEY", ""),
		DeviceTokenDuration: deviceTokenDuration,
		EnrollmentKey:       getEnv("JWT_ENROLLMENT_KEY", ""),
	}

	// Nightly recalculation configuration
	recalcHour, err := strconv.Atoi(getEnv("RECALC_HOUR", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECALC_HOUR: %w", err)
	}
	recalcMinute, err := strconv.Atoi(getEnv("RECALC_MINUTE", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECALC_MINUTE: %w", err)
	}
	recalcLookback, err := strconv.Atoi(getEnv("RECALC_LOOKBACK_DAYS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECALC_LOOKBACK_DAYS: %w", err)
	}

	config.Attendance = AttendanceConfig{
		RecalcHour:     recalcHour,
		RecalcMinute:   recalcMinute,
		RecalcLookback: recalcLookback,
	}

	config.Payroll = PayrollConfig{
		LateDeductionPerMinute: getEnv("PAYROLL_LATE_DEDUCTION_PER_MINUTE", "0"),
	}

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
	if c.Attendance.RecalcHour < 0 || c.Attendance.RecalcHour > 23 {
		return fmt.Errorf("RECALC_HOUR must be between 0 and 23")
	}
	if c.Attendance.RecalcMinute < 0 || c.Attendance.RecalcMinute > 59 {
		return fmt.Errorf("RECALC_MINUTE must be between 0 and 59")
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
