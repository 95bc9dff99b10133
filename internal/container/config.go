// Package container provides dependency injection and lifecycle management
// for the driveway management system following Clean Architecture principles.
package container

import (
	"fmt"
	"time"
)

// Config holds all configuration for the Container.
// It aggregates configurations for all subsystems.
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Allocator configuration
	Allocator AllocatorConfig

	// Report configuration
	Report ReportConfig

	// Server configuration
	Server ServerConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Path to SQLite database file
	Path string

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int

	// ConnMaxLifetime is the maximum connection lifetime
	ConnMaxLifetime time.Duration

	// MigrationsDir is the path to migration files
	MigrationsDir string
}

// AllocatorConfig holds identifier allocation settings.
type AllocatorConfig struct {
	// MinID is the inclusive lower bound of the short numeric id space
	MinID int64

	// MaxID is the inclusive upper bound of the short numeric id space
	MaxID int64

	// MaxAttempts bounds the redraw loop before giving up
	MaxAttempts int
}

// ReportConfig holds reporting settings.
type ReportConfig struct {
	// CompanyName appears on exported workbooks
	CompanyName string

	// OutputDir is the directory for exported reports
	OutputDir string

	// OverdueAfter is how long a bill may stay pending before it counts
	// as overdue
	OverdueAfter time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host to bind to
	Host string

	// Port to listen on
	Port int

	// ReadTimeout for HTTP server
	ReadTimeout time.Duration

	// WriteTimeout for HTTP server
	WriteTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:            "data/driveway.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			MigrationsDir:   "migrations",
		},
		Allocator: AllocatorConfig{
			MinID:       100,
			MaxID:       999,
			MaxAttempts: 32,
		},
		Report: ReportConfig{
			CompanyName:  "Smith Sealing",
			OutputDir:    "generated_reports",
			OverdueAfter: 7 * 24 * time.Hour,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.Allocator.MinID >= c.Allocator.MaxID {
		return fmt.Errorf("allocator.min_id must be below allocator.max_id")
	}
	if c.Allocator.MaxAttempts <= 0 {
		return fmt.Errorf("allocator.max_attempts must be positive")
	}

	if c.Report.CompanyName == "" {
		return fmt.Errorf("report.company_name is required")
	}
	if c.Report.OutputDir == "" {
		return fmt.Errorf("report.output_dir is required")
	}

	return nil
}
