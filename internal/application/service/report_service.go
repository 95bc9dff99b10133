package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dsmith-sealing/driveway-mgmt/internal/application/port"
	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/entity"
	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/workflow"
)

// RevenueExporter writes a revenue report to a file for the business's
// paper records
type RevenueExporter interface {
	Export(report *port.RevenueReport, outputPath string) error
}

// ReportService is the read-only reporting facade. It performs no
// transitions and takes no locks; dashboards tolerate slightly stale
// aggregates.
type ReportService interface {
	Revenue(ctx context.Context, start, end time.Time) (*port.RevenueReport, error)

	// ExportRevenue writes the report as a workbook under the configured
	// output directory and returns the report and the file path
	ExportRevenue(ctx context.Context, start, end time.Time) (*port.RevenueReport, string, error)
	OverdueBills(ctx context.Context) ([]*entity.Bill, error)
	TopClients(ctx context.Context, limit int) ([]port.ClientVolume, error)
}

type reportServiceImpl struct {
	reportRepo   port.ReportRepository
	exporter     RevenueExporter
	outputDir    string
	overdueAfter time.Duration
	logger       Logger
}

// NewReportService creates a new ReportService. overdueAfter is how long a
// bill may stay pending before it counts as overdue.
func NewReportService(
	reportRepo port.ReportRepository,
	exporter RevenueExporter,
	outputDir string,
	overdueAfter time.Duration,
	logger Logger,
) ReportService {
	return &reportServiceImpl{
		reportRepo:   reportRepo,
		exporter:     exporter,
		outputDir:    outputDir,
		overdueAfter: overdueAfter,
		logger:       logger,
	}
}

// Revenue aggregates paid bills over [start, end]
func (s *reportServiceImpl) Revenue(ctx context.Context, start, end time.Time) (*port.RevenueReport, error) {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return nil, workflow.InvalidInputf("invalid report range [%s, %s]",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return s.reportRepo.Revenue(ctx, start, end)
}

// ExportRevenue aggregates and writes the report to a spreadsheet
func (s *reportServiceImpl) ExportRevenue(ctx context.Context, start, end time.Time) (*port.RevenueReport, string, error) {
	report, err := s.Revenue(ctx, start, end)
	if err != nil {
		return nil, "", err
	}

	fileName := fmt.Sprintf("revenue_%s_%s.xlsx",
		start.Format("20060102"), end.Format("20060102"))
	outputPath := filepath.Join(s.outputDir, fileName)

	if err := s.exporter.Export(report, outputPath); err != nil {
		s.logger.Error("Failed to export revenue report", "error", err, "path", outputPath)
		return nil, "", err
	}

	s.logger.Info("Revenue report exported", "path", outputPath,
		"bills", report.BillCount, "total", report.Total)
	return report, outputPath, nil
}

// OverdueBills lists bills still pending past the overdue window
func (s *reportServiceImpl) OverdueBills(ctx context.Context) ([]*entity.Bill, error) {
	cutoff := time.Now().Add(-s.overdueAfter)
	return s.reportRepo.OverdueBills(ctx, cutoff)
}

// TopClients ranks clients by completed orders
func (s *reportServiceImpl) TopClients(ctx context.Context, limit int) ([]port.ClientVolume, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.reportRepo.TopClients(ctx, limit)
}
