package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Terminal TerminalConfig
	Payroll  PayrollConfig
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
	Port     int
	Env      string
	LogLevel string
}

// TerminalConfig holds biometric terminal polling configuration
type TerminalConfig struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	PollInterval time.Duration
}

// PayrollConfig holds default overtime thresholds used when a
// calculation request does not override them.
type PayrollConfig struct {
	DailyOvertimeThreshold  float64
	WeeklyOvertimeThreshold float64
}

func Load() (*Config, error) {
	// .env is optional outside development
	_ = godotenv.Load()

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
		Name:     getEnv("DB_NAME", "chronohr-attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
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
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Terminal configuration
	terminalTimeout, err := time.ParseDuration(getEnv("TERMINAL_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid TERMINAL_TIMEOUT: %w", err)
	}
	pollInterval, err := time.ParseDuration(getEnv("TERMINAL_POLL_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TERMINAL_POLL_INTERVAL: %w", err)
	}

	config.Terminal = TerminalConfig{
		BaseURL:      getEnv("TERMINAL_BASE_URL", ""),
		APIKey:       getEnv("TERMINAL_API_KEY", ""),
		Timeout:      terminalTimeout,
		PollInterval: pollInterval,
	}

	// Payroll defaults
	dailyThreshold, err := strconv.ParseFloat(getEnv("PAYROLL_DAILY_OT_THRESHOLD", "8"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_DAILY_OT_THRESHOLD: %w", err)
	}
	weeklyThreshold, err := strconv.ParseFloat(getEnv("PAYROLL_WEEKLY_OT_THRESHOLD", "40"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_WEEKLY_OT_THRESHOLD: %w", err)
	}

	config.Payroll = PayrollConfig{
		DailyOvertimeThreshold:  dailyThreshold,
		WeeklyOvertimeThreshold: weeklyThreshold,
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
	if c.Payroll.DailyOvertimeThreshold <= 0 {
		return fmt.Errorf("PAYROLL_DAILY_OT_THRESHOLD must be positive")
	}
	if c.Payroll.WeeklyOvertimeThreshold <= 0 {
		return fmt.Errorf("PAYROLL_WEEKLY_OT_THRESHOLD must be positive")
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
