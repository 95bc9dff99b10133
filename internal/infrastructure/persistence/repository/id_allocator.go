package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"

	"github.com/dsmith-sealing/driveway-mgmt/internal/application/port"
	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/workflow"
	"go.uber.org/zap"
)

// clientIDCharset and clientIDLength match the original registration codes
const (
	clientIDCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	clientIDLength  = 5
)

// AllocatorConfig bounds the identifier spaces
type AllocatorConfig struct {
	// Min and Max bound the numeric space for quote and bill ids, inclusive.
	// The space is deliberately small so ids stay readable on paper invoices.
	Min int64
	Max int64

	// MaxAttempts caps redraws per allocation before giving up with
	// ErrConflictRetry
	MaxAttempts int
}

// DefaultAllocatorConfig returns the production identifier space
func DefaultAllocatorConfig() AllocatorConfig {
	return AllocatorConfig{Min: 100, Max: 999, MaxAttempts: 32}
}

// IDAllocator implements port.IDAllocator by rejection sampling against the
// store. It must run on the transaction that performs the subsequent insert:
// the existence check and the insert then share one lock scope, and the
// unique constraint on the id column catches anything that still slips
// through, surfacing as ErrConflictRetry.
type IDAllocator struct {
	db     *sql.DB
	cfg    AllocatorConfig
	logger *zap.Logger

	// draw and drawClient produce candidates; they default to uniform
	// random draws
	draw       func(n int64) int64
	drawClient func() string
}

// NewIDAllocator creates a new id allocator
func NewIDAllocator(db *sql.DB, cfg AllocatorConfig, logger *zap.Logger) (*IDAllocator, error) {
	if cfg.Min <= 0 || cfg.Max < cfg.Min {
		return nil, fmt.Errorf("invalid id space [%d, %d]", cfg.Min, cfg.Max)
	}
	if cfg.MaxAttempts <= 0 {
		return nil, fmt.Errorf("max attempts must be positive: %d", cfg.MaxAttempts)
	}
	return &IDAllocator{
		db:         db,
		cfg:        cfg,
		logger:     logger,
		draw:       rand.Int63n,
		drawClient: randomClientID,
	}, nil
}

// Allocate draws a free id from the kind's numeric space. A full space fails
// with ErrCapacityExhausted rather than looping forever; running out of
// attempts while free ids remain fails with ErrConflictRetry.
func (a *IDAllocator) Allocate(ctx context.Context, kind port.IDKind) (int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	exec := getExecutor(ctx, a.db)
	size := a.cfg.Max - a.cfg.Min + 1

	var used int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE id BETWEEN ? AND ?", table)
	if err := exec.QueryRowContext(ctx, countQuery, a.cfg.Min, a.cfg.Max).Scan(&used); err != nil {
		return 0, mapStoreError(err)
	}
	if used >= size {
		a.logger.Error("Identifier space exhausted",
			zap.String("kind", string(kind)),
			zap.Int64("size", size))
		return 0, fmt.Errorf("%w: %s space [%d, %d] full",
			workflow.ErrCapacityExhausted, kind, a.cfg.Min, a.cfg.Max)
	}

	existsQuery := fmt.Sprintf("SELECT 1 FROM %s WHERE id = ?", table)
	for attempt := 0; attempt < a.cfg.MaxAttempts; attempt++ {
		candidate := a.cfg.Min + a.draw(size)

		var one int
		err := exec.QueryRowContext(ctx, existsQuery, candidate).Scan(&one)
		if err == sql.ErrNoRows {
			return candidate, nil
		}
		if err != nil {
			return 0, mapStoreError(err)
		}
	}

	a.logger.Warn("Exhausted allocation attempts",
		zap.String("kind", string(kind)),
		zap.Int("attempts", a.cfg.MaxAttempts))
	return 0, fmt.Errorf("%w: no free %s id after %d attempts",
		workflow.ErrConflictRetry, kind, a.cfg.MaxAttempts)
}

// AllocateClientID draws a free 5-character alphanumeric client id. The
// space is large enough that a full-space check is pointless; attempts are
// still bounded so a degenerate store cannot hang the caller.
func (a *IDAllocator) AllocateClientID(ctx context.Context) (string, error) {
	exec := getExecutor(ctx, a.db)

	for attempt := 0; attempt < a.cfg.MaxAttempts; attempt++ {
		candidate := a.drawClient()

		var one int
		err := exec.QueryRowContext(ctx, "SELECT 1 FROM clients WHERE id = ?", candidate).Scan(&one)
		if err == sql.ErrNoRows {
			return candidate, nil
		}
		if err != nil {
			return "", mapStoreError(err)
		}
	}

	return "", fmt.Errorf("%w: no free client id after %d attempts",
		workflow.ErrConflictRetry, a.cfg.MaxAttempts)
}

func randomClientID() string {
	b := make([]byte, clientIDLength)
	for i := range b {
		b[i] = clientIDCharset[rand.Intn(len(clientIDCharset))]
	}
	return string(b)
}

func tableFor(kind port.IDKind) (string, error) {
	switch kind {
	case port.IDKindQuote:
		return "quotes", nil
	case port.IDKindBill:
		return "bills", nil
	default:
		return "", workflow.InvalidInputf("unknown id kind %q", kind)
	}
}

// Verify interface compliance
var _ port.IDAllocator = (*IDAllocator)(nil)
