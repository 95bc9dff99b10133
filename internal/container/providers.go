package container

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/dsmith-sealing/driveway-mgmt/internal/application/port"
	"github.com/dsmith-sealing/driveway-mgmt/internal/application/service"
	"github.com/dsmith-sealing/driveway-mgmt/internal/infrastructure/persistence/repository"
	"github.com/dsmith-sealing/driveway-mgmt/internal/infrastructure/persistence/sqlite"
	"github.com/dsmith-sealing/driveway-mgmt/internal/report/excel"
	"github.com/dsmith-sealing/driveway-mgmt/pkg/database"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	SqlDB          *sql.DB
	TransactionMgr *sqlite.DB
}

// ProvideDatabase creates the database connection and transaction manager.
// Also runs any pending database migrations.
func ProvideDatabase(cfg *DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	if cfg.MigrationsDir != "" {
		migrator := database.NewMigrator(db, logger)
		if err := migrator.RunMigrations(cfg.MigrationsDir); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return &DatabaseBundle{
		SqlDB:          db.DB,
		TransactionMgr: sqlite.NewDB(db.DB, logger),
	}, nil
}

// ProvideRepositories creates all repositories from a database connection.
func ProvideRepositories(sqlDB *sql.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		Client:  repository.NewClientRepository(sqlDB, logger),
		Request: repository.NewRequestRepository(sqlDB, logger),
		Quote:   repository.NewQuoteRepository(sqlDB, logger),
		Order:   repository.NewOrderRepository(sqlDB, logger),
		Bill:    repository.NewBillRepository(sqlDB, logger),
		Report:  repository.NewReportRepository(sqlDB, logger),
	}, nil
}

// ProvideAllocator creates the identifier allocator.
func ProvideAllocator(sqlDB *sql.DB, cfg *AllocatorConfig, logger *zap.Logger) (port.IDAllocator, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("allocator config is required")
	}

	return repository.NewIDAllocator(sqlDB, repository.AllocatorConfig{
		Min:         cfg.MinID,
		Max:         cfg.MaxID,
		MaxAttempts: cfg.MaxAttempts,
	}, logger)
}

// ServiceDeps holds dependencies required for creating services.
type ServiceDeps struct {
	Repos     *RepositoryBundle
	Allocator port.IDAllocator
	TxManager port.TransactionManager
	Report    *ReportConfig
	Logger    *zap.Logger
}

// ProvideServices creates all application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}
	if deps.Repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if deps.Allocator == nil {
		return nil, fmt.Errorf("allocator is required")
	}
	if deps.TxManager == nil {
		return nil, fmt.Errorf("transaction manager is required")
	}
	if deps.Report == nil {
		return nil, fmt.Errorf("report config is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	// Create logger adapter for services
	serviceLogger := &zapLoggerAdapter{logger: deps.Logger}

	exporter := excel.NewRevenueWriter(deps.Report.CompanyName, deps.Logger)

	return &ServiceBundle{
		Client: service.NewClientService(
			deps.Repos.Client,
			deps.Allocator,
			deps.TxManager,
			serviceLogger,
		),
		Request: service.NewRequestService(
			deps.Repos.Request,
			deps.Repos.Quote,
			deps.Repos.Client,
			deps.Allocator,
			deps.TxManager,
			serviceLogger,
		),
		Quote: service.NewQuoteService(
			deps.Repos.Quote,
			deps.Repos.Order,
			deps.Repos.Request,
			deps.Allocator,
			deps.TxManager,
			serviceLogger,
		),
		Billing: service.NewBillingService(
			deps.Repos.Order,
			deps.Repos.Bill,
			deps.Allocator,
			deps.TxManager,
			serviceLogger,
		),
		Report: service.NewReportService(
			deps.Repos.Report,
			exporter,
			deps.Report.OutputDir,
			deps.Report.OverdueAfter,
			serviceLogger,
		),
	}, nil
}
