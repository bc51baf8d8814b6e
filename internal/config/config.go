// Package config provides centralized configuration management for the
// pipeline. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast
// on misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Database DatabaseConfig
	Input    InputConfig
	Report   ReportConfig
	Logging  LoggingConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// ConnectTimeout is the maximum duration to wait for the initial connection (default: 10s)
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" default:"10s"`
}

// InputConfig holds the location of the three raw CSV extracts.
type InputConfig struct {
	// DataDir is the directory containing the raw extracts (default: ./data)
	DataDir string `env:"ETL_DATA_DIR" default:"./data"`

	// CustomersFile is the customers extract file name (default: customers_raw.csv)
	CustomersFile string `env:"ETL_CUSTOMERS_FILE" default:"customers_raw.csv"`

	// ProductsFile is the products extract file name (default: products_raw.csv)
	ProductsFile string `env:"ETL_PRODUCTS_FILE" default:"products_raw.csv"`

	// SalesFile is the sales extract file name (default: sales_raw.csv)
	SalesFile string `env:"ETL_SALES_FILE" default:"sales_raw.csv"`
}

// ReportConfig holds data quality report output settings.
type ReportConfig struct {
	// Path is where the plain-text report is written (default: data_quality_report.txt)
	Path string `env:"ETL_REPORT_PATH" default:"data_quality_report.txt"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}
