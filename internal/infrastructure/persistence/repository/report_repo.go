package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/dsmith-sealing/driveway-mgmt/internal/application/port"
	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/entity"
	"go.uber.org/zap"
)

// ReportRepository implements port.ReportRepository. All queries are
// read-only aggregations and run outside any transaction.
type ReportRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *sql.DB, logger *zap.Logger) port.ReportRepository {
	return &ReportRepository{
		db:     db,
		logger: logger,
	}
}

// Revenue aggregates paid bills whose payment fell within [start, end],
// with a per-client breakdown ordered by revenue
func (r *ReportRepository) Revenue(ctx context.Context, start, end time.Time) (*port.RevenueReport, error) {
	report := &port.RevenueReport{Start: start, End: end}

	// datetime() normalizes stored text and bound parameters to UTC before
	// comparing; raw text comparison would order zone suffixes lexically.
	summary := `
		SELECT COUNT(*), COALESCE(SUM(b.amount_due), 0)
		FROM bills b
		WHERE b.status = ? AND datetime(b.paid_at) >= datetime(?) AND datetime(b.paid_at) <= datetime(?)
	`
	err := r.db.QueryRowContext(ctx, summary, entity.BillPaid, start.UTC(), end.UTC()).
		Scan(&report.BillCount, &report.Total)
	if err != nil {
		r.logger.Error("Failed to compute revenue summary", zap.Error(err))
		return nil, mapStoreError(err)
	}

	byClient := `
		SELECT c.id, c.first_name, c.last_name, COUNT(b.id), COALESCE(SUM(b.amount_due), 0)
		FROM bills b
		JOIN orders o ON o.id = b.order_id
		JOIN quotes q ON q.id = o.quote_id
		JOIN requests req ON req.id = q.request_id
		JOIN clients c ON c.id = req.client_id
		WHERE b.status = ? AND datetime(b.paid_at) >= datetime(?) AND datetime(b.paid_at) <= datetime(?)
		GROUP BY c.id, c.first_name, c.last_name
		ORDER BY SUM(b.amount_due) DESC
	`
	rows, err := r.db.QueryContext(ctx, byClient, entity.BillPaid, start.UTC(), end.UTC())
	if err != nil {
		r.logger.Error("Failed to compute per-client revenue", zap.Error(err))
		return nil, mapStoreError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var cr port.ClientRevenue
		if err := rows.Scan(&cr.ClientID, &cr.FirstName, &cr.LastName, &cr.BillCount, &cr.Total); err != nil {
			return nil, mapStoreError(err)
		}
		report.ByClient = append(report.ByClient, cr)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError(err)
	}

	return report, nil
}

// OverdueBills returns bills still pending that were created before the cutoff
func (r *ReportRepository) OverdueBills(ctx context.Context, createdBefore time.Time) ([]*entity.Bill, error) {
	query := `
		SELECT id, order_id, amount_due, status, note, paid_at, created_at
		FROM bills
		WHERE status = ? AND datetime(created_at) < datetime(?)
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, entity.BillPending, createdBefore.UTC())
	if err != nil {
		r.logger.Error("Failed to list overdue bills", zap.Error(err))
		return nil, mapStoreError(err)
	}
	defer rows.Close()

	var bills []*entity.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, mapStoreError(err)
		}
		bills = append(bills, bill)
	}
	return bills, rows.Err()
}

// TopClients ranks clients by billed orders, paid revenue breaking ties
func (r *ReportRepository) TopClients(ctx context.Context, limit int) ([]port.ClientVolume, error) {
	query := `
		SELECT c.id, c.first_name, c.last_name,
			COUNT(o.id),
			COALESCE(SUM(CASE WHEN b.status = ? THEN b.amount_due ELSE 0 END), 0)
		FROM clients c
		JOIN requests req ON req.client_id = c.id
		JOIN quotes q ON q.request_id = req.id
		JOIN orders o ON o.quote_id = q.id
		LEFT JOIN bills b ON b.order_id = o.id
		WHERE o.status = ?
		GROUP BY c.id, c.first_name, c.last_name
		ORDER BY COUNT(o.id) DESC, SUM(CASE WHEN b.status = ? THEN b.amount_due ELSE 0 END) DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, entity.BillPaid, entity.OrderBilled, entity.BillPaid, limit)
	if err != nil {
		r.logger.Error("Failed to rank clients", zap.Error(err))
		return nil, mapStoreError(err)
	}
	defer rows.Close()

	var clients []port.ClientVolume
	for rows.Next() {
		var cv port.ClientVolume
		if err := rows.Scan(&cv.ClientID, &cv.FirstName, &cv.LastName, &cv.OrderCount, &cv.TotalPaid); err != nil {
			return nil, mapStoreError(err)
		}
		clients = append(clients, cv)
	}
	return clients, rows.Err()
}

// Verify interface compliance
var _ port.ReportRepository = (*ReportRepository)(nil)
