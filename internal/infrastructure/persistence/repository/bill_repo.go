package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/dsmith-sealing/driveway-mgmt/internal/application/port"
	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/entity"
	"go.uber.org/zap"
)

// BillRepository implements port.BillRepository
type BillRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *sql.DB, logger *zap.Logger) port.BillRepository {
	return &BillRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a bill under its allocator-assigned id. The unique
// constraint on order_id keeps one bill per order.
func (r *BillRepository) Create(ctx context.Context, bill *entity.Bill) error {
	if bill.CreatedAt.IsZero() {
		bill.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO bills (id, order_id, amount_due, status, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		bill.ID,
		bill.OrderID,
		bill.AmountDue,
		bill.Status,
		bill.Note,
		bill.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create bill", zap.Int64("id", bill.ID), zap.Error(err))
		return mapStoreError(err)
	}
	return nil
}

// GetByID retrieves a bill by id
func (r *BillRepository) GetByID(ctx context.Context, id int64) (*entity.Bill, error) {
	query := `
		SELECT id, order_id, amount_due, status, note, paid_at, created_at
		FROM bills
		WHERE id = ?
	`
	return r.scanOne(ctx, query, id)
}

// Exists reports whether a bill id is in use
func (r *BillRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := getExecutor(ctx, r.db).QueryRowContext(ctx,
		"SELECT 1 FROM bills WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, mapStoreError(err)
	}
	return true, nil
}

// GetByOrderID retrieves the bill created for an order
func (r *BillRepository) GetByOrderID(ctx context.Context, orderID int64) (*entity.Bill, error) {
	query := `
		SELECT id, order_id, amount_due, status, note, paid_at, created_at
		FROM bills
		WHERE order_id = ?
	`
	return r.scanOne(ctx, query, orderID)
}

// UpdateStatusFrom transitions status only from the expected current status
func (r *BillRepository) UpdateStatusFrom(ctx context.Context, id int64, from, to entity.BillStatus, note string) (bool, error) {
	query := `UPDATE bills SET status = ?, note = ? WHERE id = ? AND status = ?`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query, to, note, id, from)
	if err != nil {
		r.logger.Error("Failed to update bill status", zap.Int64("id", id), zap.Error(err))
		return false, mapStoreError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, mapStoreError(err)
	}
	return affected == 1, nil
}

// ReviseAmountFrom updates amount_due and note while moving the bill back to
// the target status, guarded on the current status
func (r *BillRepository) ReviseAmountFrom(ctx context.Context, id int64, from, to entity.BillStatus, amount float64, note string) (bool, error) {
	query := `UPDATE bills SET status = ?, amount_due = ?, note = ? WHERE id = ? AND status = ?`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query, to, amount, note, id, from)
	if err != nil {
		r.logger.Error("Failed to revise bill amount", zap.Int64("id", id), zap.Error(err))
		return false, mapStoreError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, mapStoreError(err)
	}
	return affected == 1, nil
}

// MarkPaid transitions a pending bill to paid and records the payment time
func (r *BillRepository) MarkPaid(ctx context.Context, id int64, paidAt time.Time) (bool, error) {
	query := `UPDATE bills SET status = ?, paid_at = ? WHERE id = ? AND status = ?`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		entity.BillPaid, paidAt.UTC(), id, entity.BillPending)
	if err != nil {
		r.logger.Error("Failed to mark bill paid", zap.Int64("id", id), zap.Error(err))
		return false, mapStoreError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, mapStoreError(err)
	}
	return affected == 1, nil
}

// List retrieves bills filtered by status; an empty status returns all
func (r *BillRepository) List(ctx context.Context, status entity.BillStatus, limit, offset int) ([]*entity.Bill, error) {
	query := `
		SELECT id, order_id, amount_due, status, note, paid_at, created_at
		FROM bills
		WHERE (? = '' OR status = ?)
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, status, status, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list bills", zap.Error(err))
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

func (r *BillRepository) scanOne(ctx context.Context, query string, args ...interface{}) (*entity.Bill, error) {
	var bill entity.Bill
	var paidAt sql.NullTime

	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(
		&bill.ID,
		&bill.OrderID,
		&bill.AmountDue,
		&bill.Status,
		&bill.Note,
		&paidAt,
		&bill.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get bill", zap.Error(err))
		return nil, mapStoreError(err)
	}

	if paidAt.Valid {
		bill.PaidAt = &paidAt.Time
	}
	return &bill, nil
}

func scanBill(rows *sql.Rows) (*entity.Bill, error) {
	var bill entity.Bill
	var paidAt sql.NullTime

	if err := rows.Scan(
		&bill.ID,
		&bill.OrderID,
		&bill.AmountDue,
		&bill.Status,
		&bill.Note,
		&paidAt,
		&bill.CreatedAt,
	); err != nil {
		return nil, err
	}

	if paidAt.Valid {
		bill.PaidAt = &paidAt.Time
	}
	return &bill, nil
}

// Verify interface compliance
var _ port.BillRepository = (*BillRepository)(nil)
