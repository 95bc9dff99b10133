package repository

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// openTestDB opens an in-memory database with the full production schema.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// An in-memory database lives and dies with its connection; keep the
	// pool at one so every statement sees the same schema.
	db.SetMaxOpenConns(1)

	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "001_initial_schema.sql"))
	require.NoError(t, err)

	_, err = db.Exec(string(schema))
	require.NoError(t, err)
	return db
}

func seedQuoteRow(t *testing.T, db *sql.DB, id int64) {
	t.Helper()
	start := time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)
	_, err := db.Exec(
		"INSERT INTO quotes (id, request_id, counter_price, work_start, work_end, status) VALUES (?, 1, 450, ?, ?, 'pending')",
		id, start, start.Add(8*time.Hour))
	require.NoError(t, err)
}

func seedBillRow(t *testing.T, db *sql.DB, id, orderID int64) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO bills (id, order_id, amount_due, status) VALUES (?, ?, 520, 'pending')",
		id, orderID)
	require.NoError(t, err)
}

func seedClientRow(t *testing.T, db *sql.DB, id, email string) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO clients (id, first_name, last_name, email) VALUES (?, 'Dana', 'Smith', ?)",
		id, email)
	require.NoError(t, err)
}
