package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dsmith-sealing/driveway-mgmt/internal/application/port"
	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/entity"
	"go.uber.org/zap"
)

// QuoteRepository implements port.QuoteRepository
type QuoteRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *sql.DB, logger *zap.Logger) port.QuoteRepository {
	return &QuoteRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a quote under its allocator-assigned id. The primary key
// constraint turns an id collision into ErrConflictRetry.
func (r *QuoteRepository) Create(ctx context.Context, quote *entity.Quote) error {
	if quote.CreatedAt.IsZero() {
		quote.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO quotes (id, request_id, counter_price, work_start, work_end, status, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		quote.ID,
		quote.RequestID,
		quote.CounterPrice,
		quote.WorkStart,
		quote.WorkEnd,
		quote.Status,
		quote.Note,
		quote.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create quote", zap.Int64("id", quote.ID), zap.Error(err))
		return mapStoreError(err)
	}
	return nil
}

// GetByID retrieves a quote by id
func (r *QuoteRepository) GetByID(ctx context.Context, id int64) (*entity.Quote, error) {
	query := `
		SELECT id, request_id, counter_price, work_start, work_end, status, note, created_at
		FROM quotes
		WHERE id = ?
	`

	var quote entity.Quote
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&quote.ID,
		&quote.RequestID,
		&quote.CounterPrice,
		&quote.WorkStart,
		&quote.WorkEnd,
		&quote.Status,
		&quote.Note,
		&quote.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get quote", zap.Int64("id", id), zap.Error(err))
		return nil, mapStoreError(err)
	}
	return &quote, nil
}

// Exists reports whether a quote id is in use
func (r *QuoteRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := getExecutor(ctx, r.db).QueryRowContext(ctx,
		"SELECT 1 FROM quotes WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, mapStoreError(err)
	}
	return true, nil
}

// CountActiveByRequest counts this request's quotes that are not closed
func (r *QuoteRepository) CountActiveByRequest(ctx context.Context, requestID int64) (int, error) {
	var count int
	err := getExecutor(ctx, r.db).QueryRowContext(ctx,
		"SELECT COUNT(*) FROM quotes WHERE request_id = ? AND status != ?",
		requestID, entity.QuoteClosed).Scan(&count)
	if err != nil {
		return 0, mapStoreError(err)
	}
	return count, nil
}

// UpdateStatusFrom transitions status only when the current status is one of from
func (r *QuoteRepository) UpdateStatusFrom(ctx context.Context, id int64, from []entity.QuoteStatus, to entity.QuoteStatus, note string) (bool, error) {
	query := fmt.Sprintf(
		"UPDATE quotes SET status = ?, note = ? WHERE id = ? AND status IN (%s)",
		placeholders(len(from)))

	args := []interface{}{to, note, id}
	for _, s := range from {
		args = append(args, s)
	}

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update quote status", zap.Int64("id", id), zap.Error(err))
		return false, mapStoreError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, mapStoreError(err)
	}
	return affected == 1, nil
}

// UpdateProposal overwrites the priced proposal together with the status
func (r *QuoteRepository) UpdateProposal(ctx context.Context, id int64, from []entity.QuoteStatus, to entity.QuoteStatus, price float64, start, end time.Time, note string) (bool, error) {
	query := fmt.Sprintf(
		"UPDATE quotes SET status = ?, counter_price = ?, work_start = ?, work_end = ?, note = ? WHERE id = ? AND status IN (%s)",
		placeholders(len(from)))

	args := []interface{}{to, price, start, end, note, id}
	for _, s := range from {
		args = append(args, s)
	}

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update quote proposal", zap.Int64("id", id), zap.Error(err))
		return false, mapStoreError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, mapStoreError(err)
	}
	return affected == 1, nil
}

// List retrieves quotes filtered by status; an empty status returns all
func (r *QuoteRepository) List(ctx context.Context, status entity.QuoteStatus, limit, offset int) ([]*entity.Quote, error) {
	query := `
		SELECT id, request_id, counter_price, work_start, work_end, status, note, created_at
		FROM quotes
		WHERE (? = '' OR status = ?)
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, status, status, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list quotes", zap.Error(err))
		return nil, mapStoreError(err)
	}
	defer rows.Close()

	var quotes []*entity.Quote
	for rows.Next() {
		var quote entity.Quote
		if err := rows.Scan(
			&quote.ID,
			&quote.RequestID,
			&quote.CounterPrice,
			&quote.WorkStart,
			&quote.WorkEnd,
			&quote.Status,
			&quote.Note,
			&quote.CreatedAt,
		); err != nil {
			return nil, mapStoreError(err)
		}
		quotes = append(quotes, &quote)
	}
	return quotes, rows.Err()
}

// placeholders builds "?, ?, ..." for an IN clause
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// Verify interface compliance
var _ port.QuoteRepository = (*QuoteRepository)(nil)
