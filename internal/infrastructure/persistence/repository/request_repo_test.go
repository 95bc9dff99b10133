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

func newPendingRequest() *entity.Request {
	return &entity.Request{
		ClientID:        "AB12c",
		PropertyAddress: "12 Oak Lane",
		SquareFeet:      600,
		ProposedPrice:   450,
		Status:          entity.RequestPending,
	}
}

// A since bound carried in a non-UTC zone must still match rows written
// moments earlier; the comparison goes through datetime(), not raw text.
func TestFindRecentDuplicate_OffsetZoneSince(t *testing.T) {
	db := openTestDB(t)
	repo := NewRequestRepository(db, zap.NewNop())
	ctx := context.Background()

	request := newPendingRequest()
	require.NoError(t, repo.Create(ctx, request))

	tokyo := time.FixedZone("UTC+9", 9*60*60)
	since := time.Now().In(tokyo).Add(-time.Minute)

	dup, err := repo.FindRecentDuplicate(ctx, "AB12c", "12 Oak Lane", 600, 450, since)
	require.NoError(t, err)
	require.NotNil(t, dup, "request created moments ago must fall inside the window")
	assert.Equal(t, request.ID, dup.ID)

	// A window opening after the insert matches nothing, in any zone.
	later := time.Now().In(tokyo).Add(time.Minute)
	dup, err = repo.FindRecentDuplicate(ctx, "AB12c", "12 Oak Lane", 600, 450, later)
	require.NoError(t, err)
	assert.Nil(t, dup)
}

func TestFindRecentDuplicate_RequiresExactMatch(t *testing.T) {
	db := openTestDB(t)
	repo := NewRequestRepository(db, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newPendingRequest()))
	since := time.Now().Add(-time.Minute)

	dup, err := repo.FindRecentDuplicate(ctx, "AB12c", "12 Oak Lane", 600, 475, since)
	require.NoError(t, err)
	assert.Nil(t, dup, "a different proposed price is not a duplicate")
}

func TestCreate_PersistsCreatedAt(t *testing.T) {
	db := openTestDB(t)
	repo := NewRequestRepository(db, zap.NewNop())
	ctx := context.Background()

	request := newPendingRequest()
	require.NoError(t, repo.Create(ctx, request))
	require.False(t, request.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, request.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.CreatedAt.Equal(request.CreatedAt),
		"stored created_at %v differs from the entity's %v", got.CreatedAt, request.CreatedAt)
}
