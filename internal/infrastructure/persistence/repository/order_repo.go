package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/dsmith-sealing/driveway-mgmt/internal/application/port"
	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/entity"
	"go.uber.org/zap"
)

// OrderRepository implements port.OrderRepository
type OrderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB, logger *zap.Logger) port.OrderRepository {
	return &OrderRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts an order. The unique constraint on quote_id makes a second
// order for the same quote surface as ErrConflictRetry.
func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO orders (quote_id, work_start, work_end, final_price, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		order.QuoteID,
		order.WorkStart,
		order.WorkEnd,
		order.FinalPrice,
		order.Status,
		order.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create order", zap.Int64("quote_id", order.QuoteID), zap.Error(err))
		return mapStoreError(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return mapStoreError(err)
	}
	order.ID = id
	return nil
}

// GetByID retrieves an order by id
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	query := `
		SELECT id, quote_id, work_start, work_end, final_price, status, created_at
		FROM orders
		WHERE id = ?
	`
	return r.scanOne(ctx, query, id)
}

// GetByQuoteID retrieves the order created for a quote
func (r *OrderRepository) GetByQuoteID(ctx context.Context, quoteID int64) (*entity.Order, error) {
	query := `
		SELECT id, quote_id, work_start, work_end, final_price, status, created_at
		FROM orders
		WHERE quote_id = ?
	`
	return r.scanOne(ctx, query, quoteID)
}

// UpdateStatusFrom transitions status only from the expected current status
func (r *OrderRepository) UpdateStatusFrom(ctx context.Context, id int64, from, to entity.OrderStatus) (bool, error) {
	query := `UPDATE orders SET status = ? WHERE id = ? AND status = ?`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query, to, id, from)
	if err != nil {
		r.logger.Error("Failed to update order status", zap.Int64("id", id), zap.Error(err))
		return false, mapStoreError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, mapStoreError(err)
	}
	return affected == 1, nil
}

// List retrieves orders filtered by status; an empty status returns all
func (r *OrderRepository) List(ctx context.Context, status entity.OrderStatus, limit, offset int) ([]*entity.Order, error) {
	query := `
		SELECT id, quote_id, work_start, work_end, final_price, status, created_at
		FROM orders
		WHERE (? = '' OR status = ?)
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, status, status, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, mapStoreError(err)
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		var order entity.Order
		if err := rows.Scan(
			&order.ID,
			&order.QuoteID,
			&order.WorkStart,
			&order.WorkEnd,
			&order.FinalPrice,
			&order.Status,
			&order.CreatedAt,
		); err != nil {
			return nil, mapStoreError(err)
		}
		orders = append(orders, &order)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) scanOne(ctx context.Context, query string, args ...interface{}) (*entity.Order, error) {
	var order entity.Order
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(
		&order.ID,
		&order.QuoteID,
		&order.WorkStart,
		&order.WorkEnd,
		&order.FinalPrice,
		&order.Status,
		&order.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get order", zap.Error(err))
		return nil, mapStoreError(err)
	}
	return &order, nil
}

// Verify interface compliance
var _ port.OrderRepository = (*OrderRepository)(nil)
