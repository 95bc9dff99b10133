package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/workflow"
	"github.com/dsmith-sealing/driveway-mgmt/internal/infrastructure/persistence/sqlite"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// executor interface covers both *sql.DB and *sql.Tx
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// getExecutor returns the transaction from the context when one is active,
// otherwise the bare connection
func getExecutor(ctx context.Context, db *sql.DB) executor {
	if tx := sqlite.TxFromContext(ctx); tx != nil {
		return tx
	}
	return db
}

// mapStoreError folds driver errors into the engine's failure taxonomy.
// Unique-constraint violations become ErrConflictRetry (the sole retry
// trigger for id allocation races); foreign-key violations mean the parent
// row does not exist.
func mapStoreError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return workflow.ErrConflictRetry
		case sqlite3.ErrConstraintForeignKey:
			return workflow.ErrNotFound
		}
	}
	return workflow.StorageFailure(err)
}
