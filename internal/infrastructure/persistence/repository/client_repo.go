package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/dsmith-sealing/driveway-mgmt/internal/application/port"
	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/entity"
	"go.uber.org/zap"
)

// ClientRepository implements port.ClientRepository
type ClientRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *sql.DB, logger *zap.Logger) port.ClientRepository {
	return &ClientRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a client under its allocator-assigned id
func (r *ClientRepository) Create(ctx context.Context, client *entity.Client) error {
	if client.CreatedAt.IsZero() {
		client.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO clients (id, first_name, last_name, address, phone, email, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		client.ID,
		client.FirstName,
		client.LastName,
		client.Address,
		client.Phone,
		client.Email,
		client.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create client", zap.String("id", client.ID), zap.Error(err))
		return mapStoreError(err)
	}
	return nil
}

// GetByID retrieves a client by id
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	query := `
		SELECT id, first_name, last_name, address, phone, email, created_at
		FROM clients
		WHERE id = ?
	`
	return r.scanOne(ctx, query, id)
}

// Exists reports whether a client id is in use
func (r *ClientRepository) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := getExecutor(ctx, r.db).QueryRowContext(ctx,
		"SELECT 1 FROM clients WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, mapStoreError(err)
	}
	return true, nil
}

// GetByEmail retrieves a client by email
func (r *ClientRepository) GetByEmail(ctx context.Context, email string) (*entity.Client, error) {
	query := `
		SELECT id, first_name, last_name, address, phone, email, created_at
		FROM clients
		WHERE email = ?
	`
	return r.scanOne(ctx, query, email)
}

func (r *ClientRepository) scanOne(ctx context.Context, query string, args ...interface{}) (*entity.Client, error) {
	var client entity.Client
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(
		&client.ID,
		&client.FirstName,
		&client.LastName,
		&client.Address,
		&client.Phone,
		&client.Email,
		&client.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get client", zap.Error(err))
		return nil, mapStoreError(err)
	}
	return &client, nil
}

// Verify interface compliance
var _ port.ClientRepository = (*ClientRepository)(nil)
