package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/dsmith-sealing/driveway-mgmt/internal/application/port"
	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/entity"
	"go.uber.org/zap"
)

// RequestRepository implements port.RequestRepository
type RequestRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *sql.DB, logger *zap.Logger) port.RequestRepository {
	return &RequestRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a request and its photo references. created_at is written
// from Go in UTC so window comparisons never mix the store's clock with ours.
func (r *RequestRepository) Create(ctx context.Context, request *entity.Request) error {
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO requests (client_id, property_address, square_feet, proposed_price, note, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	exec := getExecutor(ctx, r.db)
	result, err := exec.ExecContext(ctx, query,
		request.ClientID,
		request.PropertyAddress,
		request.SquareFeet,
		request.ProposedPrice,
		request.Note,
		request.Status,
		request.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create request", zap.Error(err))
		return mapStoreError(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return mapStoreError(err)
	}
	request.ID = id

	for _, ref := range request.PhotoRefs {
		if _, err := exec.ExecContext(ctx,
			"INSERT INTO request_photos (request_id, photo_ref) VALUES (?, ?)",
			id, ref,
		); err != nil {
			r.logger.Error("Failed to attach photo ref", zap.Int64("request_id", id), zap.Error(err))
			return mapStoreError(err)
		}
	}

	return nil
}

// GetByID retrieves a request with its photo references
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*entity.Request, error) {
	query := `
		SELECT id, client_id, property_address, square_feet, proposed_price, note, status, created_at
		FROM requests
		WHERE id = ?
	`

	request, err := r.scanOne(ctx, query, id)
	if err != nil || request == nil {
		return request, err
	}

	refs, err := r.photoRefs(ctx, id)
	if err != nil {
		return nil, err
	}
	request.PhotoRefs = refs
	return request, nil
}

// FindRecentDuplicate returns an identical submission created at or after
// since. Both sides of the comparison go through datetime() so stored text
// and the bound parameter compare as normalized UTC instants, not as raw
// strings whose zone suffixes would order lexicographically.
func (r *RequestRepository) FindRecentDuplicate(ctx context.Context, clientID, address string, squareFeet, proposedPrice float64, since time.Time) (*entity.Request, error) {
	query := `
		SELECT id, client_id, property_address, square_feet, proposed_price, note, status, created_at
		FROM requests
		WHERE client_id = ? AND property_address = ? AND square_feet = ? AND proposed_price = ?
			AND datetime(created_at) >= datetime(?)
		ORDER BY created_at DESC
		LIMIT 1
	`

	return r.scanOne(ctx, query, clientID, address, squareFeet, proposedPrice, since.UTC())
}

// UpdateStatusFrom transitions status only from the expected current status
func (r *RequestRepository) UpdateStatusFrom(ctx context.Context, id int64, from, to entity.RequestStatus, note string) (bool, error) {
	query := `UPDATE requests SET status = ?, note = ? WHERE id = ? AND status = ?`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query, to, note, id, from)
	if err != nil {
		r.logger.Error("Failed to update request status", zap.Int64("id", id), zap.Error(err))
		return false, mapStoreError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, mapStoreError(err)
	}
	return affected == 1, nil
}

// List retrieves requests filtered by status; an empty status returns all
func (r *RequestRepository) List(ctx context.Context, status entity.RequestStatus, limit, offset int) ([]*entity.Request, error) {
	query := `
		SELECT id, client_id, property_address, square_feet, proposed_price, note, status, created_at
		FROM requests
		WHERE (? = '' OR status = ?)
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	return r.scanMany(ctx, query, status, status, limit, offset)
}

// ListByClient retrieves one client's requests, newest first
func (r *RequestRepository) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*entity.Request, error) {
	query := `
		SELECT id, client_id, property_address, square_feet, proposed_price, note, status, created_at
		FROM requests
		WHERE client_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	return r.scanMany(ctx, query, clientID, limit, offset)
}

func (r *RequestRepository) photoRefs(ctx context.Context, requestID int64) ([]string, error) {
	rows, err := getExecutor(ctx, r.db).QueryContext(ctx,
		"SELECT photo_ref FROM request_photos WHERE request_id = ? ORDER BY id", requestID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, mapStoreError(err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (r *RequestRepository) scanOne(ctx context.Context, query string, args ...interface{}) (*entity.Request, error) {
	var request entity.Request
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(
		&request.ID,
		&request.ClientID,
		&request.PropertyAddress,
		&request.SquareFeet,
		&request.ProposedPrice,
		&request.Note,
		&request.Status,
		&request.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get request", zap.Error(err))
		return nil, mapStoreError(err)
	}
	return &request, nil
}

func (r *RequestRepository) scanMany(ctx context.Context, query string, args ...interface{}) ([]*entity.Request, error) {
	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list requests", zap.Error(err))
		return nil, mapStoreError(err)
	}
	defer rows.Close()

	var requests []*entity.Request
	for rows.Next() {
		var request entity.Request
		if err := rows.Scan(
			&request.ID,
			&request.ClientID,
			&request.PropertyAddress,
			&request.SquareFeet,
			&request.ProposedPrice,
			&request.Note,
			&request.Status,
			&request.CreatedAt,
		); err != nil {
			return nil, mapStoreError(err)
		}
		requests = append(requests, &request)
	}
	return requests, rows.Err()
}

// Verify interface compliance
var _ port.RequestRepository = (*RequestRepository)(nil)
