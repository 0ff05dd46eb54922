package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
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
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// PayrollConfig carries statutory rate overrides. Rates are fractions
// (0.12 means 12%); the defaults match the simplified Indian rules the
// calculator ships with.
type PayrollConfig struct {
	PFRate          decimal.Decimal
	ESIRate         decimal.Decimal
	ESICeilingGross decimal.Decimal
	EmployerPFRate  decimal.Decimal
	EmployerESIRate decimal.Decimal
}

func Load() (*Config, error) {
	// A missing .env file is fine in containerized deployments where the
	// environment is injected directly.
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
		Name:     getEnv("DB_NAME", "payroll"),
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
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Statutory rate overrides
	payrollCfg := PayrollConfig{}
	for _, entry := range []struct {
		key      string
		fallback string
		dest     *decimal.Decimal
	}{
		{"PAYROLL_PF_RATE", "0.12", &payrollCfg.PFRate},
		{"PAYROLL_ESI_RATE", "0.0075", &payrollCfg.ESIRate},
		{"PAYROLL_ESI_CEILING_GROSS", "21000", &payrollCfg.ESICeilingGross},
		{"PAYROLL_EMPLOYER_PF_RATE", "0.12", &payrollCfg.EmployerPFRate},
		{"PAYROLL_EMPLOYER_ESI_RATE", "0.0325", &payrollCfg.EmployerESIRate},
	} {
		value, err := decimal.NewFromString(getEnv(entry.key, entry.fallback))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", entry.key, err)
		}
		*entry.dest = value
	}
	config.Payroll = payrollCfg

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
	if c.Payroll.PFRate.IsNegative() || c.Payroll.ESIRate.IsNegative() ||
		c.Payroll.EmployerPFRate.IsNegative() || c.Payroll.EmployerESIRate.IsNegative() {
		return fmt.Errorf("statutory rates must be non-negative")
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
