package repos

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/archboard/archboard-backend/internal/db"
	"github.com/archboard/archboard-backend/internal/logger"
	"github.com/archboard/archboard-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	gdb, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func seedHypothesis(t *testing.T, repo HypothesisRepo) *types.Hypothesis {
	t.Helper()
	now := time.Now()
	h := &types.Hypothesis{
		ID:          uuid.New(),
		Statement:   "The event store will outgrow a single partition",
		Status:      types.StatusOpen,
		SourceType:  types.SourceSolution,
		Uncertainty: types.OrdinalMedium,
		Impact:      types.OrdinalMedium,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := repo.Create(context.Background(), nil, h)
	require.NoError(t, err)
	return h
}

func TestHypothesisRepoDeleteByID(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewHypothesisRepo(gdb, logger.NewNop())
	ctx := context.Background()

	h := seedHypothesis(t, repo)

	rows, err := repo.DeleteByID(ctx, nil, h.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, rows)

	rows, err = repo.DeleteByID(ctx, nil, h.ID)
	require.NoError(t, err)
	require.Zero(t, rows)
}

func TestHypothesisRepoGetByIDMissing(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewHypothesisRepo(gdb, logger.NewNop())

	got, err := repo.GetByID(context.Background(), nil, uuid.New())
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestEventRepoOrdersByTimestamp(t *testing.T) {
	gdb := newTestDB(t)
	log := logger.NewNop()
	hypoRepo := NewHypothesisRepo(gdb, log)
	eventRepo := NewHypothesisEventRepo(gdb, log)
	ctx := context.Background()

	h := seedHypothesis(t, hypoRepo)

	base := time.Now()
	// insert out of order, read back ascending
	for _, offset := range []time.Duration{2 * time.Minute, 0, time.Minute} {
		_, err := eventRepo.Create(ctx, nil, &types.HypothesisEvent{
			ID:           uuid.New(),
			HypothesisID: h.ID,
			EventType:    types.EventUpdate,
			Timestamp:    base.Add(offset),
		})
		require.NoError(t, err)
	}

	events, err := eventRepo.GetByHypothesisID(ctx, nil, h.ID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	for i := 1; i < len(events); i++ {
		require.False(t, events[i].Timestamp.Before(events[i-1].Timestamp))
	}
}
