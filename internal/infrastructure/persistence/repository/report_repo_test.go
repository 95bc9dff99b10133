package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/entity"
)

func TestOverdueBills_OffsetZoneCutoff(t *testing.T) {
	db := openTestDB(t)
	billRepo := NewBillRepository(db, zap.NewNop())
	reportRepo := NewReportRepository(db, zap.NewNop())
	ctx := context.Background()

	bill := &entity.Bill{ID: 301, OrderID: 9, AmountDue: 520, Status: entity.BillPending}
	require.NoError(t, billRepo.Create(ctx, bill))

	tokyo := time.FixedZone("UTC+9", 9*60*60)

	overdue, err := reportRepo.OverdueBills(ctx, time.Now().In(tokyo).Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, overdue, 1, "a bill older than the cutoff is overdue regardless of the cutoff's zone")
	assert.Equal(t, int64(301), overdue[0].ID)

	overdue, err = reportRepo.OverdueBills(ctx, time.Now().In(tokyo).Add(-time.Minute))
	require.NoError(t, err)
	assert.Empty(t, overdue, "a bill newer than the cutoff is not overdue")
}

func TestRevenue_OffsetZoneRange(t *testing.T) {
	db := openTestDB(t)
	billRepo := NewBillRepository(db, zap.NewNop())
	reportRepo := NewReportRepository(db, zap.NewNop())
	ctx := context.Background()

	bill := &entity.Bill{ID: 302, OrderID: 9, AmountDue: 520, Status: entity.BillPending}
	require.NoError(t, billRepo.Create(ctx, bill))

	tokyo := time.FixedZone("UTC+9", 9*60*60)
	paid, err := billRepo.MarkPaid(ctx, 302, time.Now().In(tokyo))
	require.NoError(t, err)
	require.True(t, paid)

	report, err := reportRepo.Revenue(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, report.BillCount)
	assert.Equal(t, 520.0, report.Total)

	report, err = reportRepo.Revenue(ctx, time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, report.BillCount, "a payment outside the range contributes nothing")
}
