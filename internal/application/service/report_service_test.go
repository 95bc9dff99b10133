package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dsmith-sealing/driveway-mgmt/internal/application/port"
	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/entity"
	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/workflow"
)

type mockReportRepo struct {
	revenueFunc      func(ctx context.Context, start, end time.Time) (*port.RevenueReport, error)
	overdueBillsFunc func(ctx context.Context, createdBefore time.Time) ([]*entity.Bill, error)
	topClientsFunc   func(ctx context.Context, limit int) ([]port.ClientVolume, error)
}

func (m *mockReportRepo) Revenue(ctx context.Context, start, end time.Time) (*port.RevenueReport, error) {
	if m.revenueFunc != nil {
		return m.revenueFunc(ctx, start, end)
	}
	return &port.RevenueReport{Start: start, End: end}, nil
}

func (m *mockReportRepo) OverdueBills(ctx context.Context, createdBefore time.Time) ([]*entity.Bill, error) {
	if m.overdueBillsFunc != nil {
		return m.overdueBillsFunc(ctx, createdBefore)
	}
	return []*entity.Bill{}, nil
}

func (m *mockReportRepo) TopClients(ctx context.Context, limit int) ([]port.ClientVolume, error) {
	if m.topClientsFunc != nil {
		return m.topClientsFunc(ctx, limit)
	}
	return []port.ClientVolume{}, nil
}

type mockExporter struct {
	exportFunc func(report *port.RevenueReport, outputPath string) error
}

func (m *mockExporter) Export(report *port.RevenueReport, outputPath string) error {
	if m.exportFunc != nil {
		return m.exportFunc(report, outputPath)
	}
	return nil
}

func newReportService(repo *mockReportRepo, exporter *mockExporter) ReportService {
	return NewReportService(repo, exporter, "reports", 7*24*time.Hour, &mockLogger{})
}

func TestRevenue_InvalidRange(t *testing.T) {
	svc := newReportService(&mockReportRepo{}, &mockExporter{})

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, -1, 0)

	if _, err := svc.Revenue(context.Background(), start, end); !errors.Is(err, workflow.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Revenue(context.Background(), time.Time{}, end); !errors.Is(err, workflow.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero start, got %v", err)
	}
}

func TestExportRevenue(t *testing.T) {
	var exportedPath string
	exporter := &mockExporter{
		exportFunc: func(report *port.RevenueReport, outputPath string) error {
			exportedPath = outputPath
			return nil
		},
	}
	svc := newReportService(&mockReportRepo{}, exporter)

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	report, path, err := svc.ExportRevenue(context.Background(), start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report == nil {
		t.Fatal("export must return the report")
	}
	if path != exportedPath {
		t.Errorf("returned path %q does not match exported path %q", path, exportedPath)
	}
}

func TestOverdueBills_Cutoff(t *testing.T) {
	var cutoff time.Time
	repo := &mockReportRepo{
		overdueBillsFunc: func(ctx context.Context, createdBefore time.Time) ([]*entity.Bill, error) {
			cutoff = createdBefore
			return []*entity.Bill{}, nil
		},
	}
	svc := newReportService(repo, &mockExporter{})

	if _, err := svc.OverdueBills(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Now().Add(-7 * 24 * time.Hour)
	if cutoff.Before(want.Add(-time.Minute)) || cutoff.After(want.Add(time.Minute)) {
		t.Errorf("cutoff %v not near expected %v", cutoff, want)
	}
}

func TestTopClients_LimitBounds(t *testing.T) {
	var got int
	repo := &mockReportRepo{
		topClientsFunc: func(ctx context.Context, limit int) ([]port.ClientVolume, error) {
			got = limit
			return []port.ClientVolume{}, nil
		},
	}
	svc := newReportService(repo, &mockExporter{})

	for _, limit := range []int{0, -5, 1000} {
		if _, err := svc.TopClients(context.Background(), limit); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 10 {
			t.Errorf("limit %d should normalize to 10, got %d", limit, got)
		}
	}

	if _, err := svc.TopClients(context.Background(), 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 5 {
		t.Errorf("valid limit should pass through, got %d", got)
	}
}
