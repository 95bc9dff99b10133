package config

import (
	"github.com/dsmith-sealing/driveway-mgmt/internal/container"
)

// ToContainerConfig converts the application Config to a container.Config.
// This provides a bridge between the file-based config loaded by viper
// and the container's configuration structure.
func (c *Config) ToContainerConfig() *container.Config {
	return &container.Config{
		Database: container.DatabaseConfig{
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
			MigrationsDir:   c.Database.MigrationsDir,
		},
		Allocator: container.AllocatorConfig{
			MinID:       c.Allocator.MinID,
			MaxID:       c.Allocator.MaxID,
			MaxAttempts: c.Allocator.MaxAttempts,
		},
		Report: container.ReportConfig{
			CompanyName:  c.Report.CompanyName,
			OutputDir:    c.Report.OutputDir,
			OverdueAfter: c.Report.OverdueAfter,
		},
		Server: container.ServerConfig{
			Host:         c.Server.Host,
			Port:         c.Server.Port,
			ReadTimeout:  c.Server.ReadTimeout,
			WriteTimeout: c.Server.WriteTimeout,
		},
	}
}
