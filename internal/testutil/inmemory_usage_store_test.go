package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docutask/docutask/internal/domain/usage"
	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/types"
)

func TestInMemoryUsageStore_AddUsage(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryUsageStore()
	periodKey := types.PeriodKey("2026-08")

	t.Run("creates record seeded with deltas", func(t *testing.T) {
		err := store.AddUsage(ctx, "user_1", periodKey, "org_1",
			usage.TaskDelta(1),
			usage.TokenDelta{InputTokens: 100, OutputTokens: 50, Cost: decimal.NewFromFloat(0.01)},
		)
		require.NoError(t, err)

		rec, err := store.Get(ctx, "user_1", periodKey)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rec.TasksUsed)
		assert.Equal(t, int64(100), rec.InputTokens)
		assert.Equal(t, int64(50), rec.OutputTokens)
		assert.True(t, rec.Cost.Equal(decimal.NewFromFloat(0.01)))
		assert.Equal(t, "org_1", rec.OrganizationID)
	})

	t.Run("increments existing record", func(t *testing.T) {
		err := store.AddUsage(ctx, "user_1", periodKey, "org_1", usage.TaskDelta(2))
		require.NoError(t, err)

		rec, err := store.Get(ctx, "user_1", periodKey)
		require.NoError(t, err)
		assert.Equal(t, int64(3), rec.TasksUsed)
	})

	t.Run("periods are isolated", func(t *testing.T) {
		err := store.AddUsage(ctx, "user_1", types.PeriodKey("2026-09"), "org_1", usage.TaskDelta(1))
		require.NoError(t, err)

		rec, err := store.Get(ctx, "user_1", types.PeriodKey("2026-09"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), rec.TasksUsed)

		rec, err = store.Get(ctx, "user_1", periodKey)
		require.NoError(t, err)
		assert.Equal(t, int64(3), rec.TasksUsed)
	})

	t.Run("rejects malformed period key", func(t *testing.T) {
		err := store.AddUsage(ctx, "user_1", types.PeriodKey("Aug 2026"), "", usage.TaskDelta(1))
		assert.Error(t, err)
	})

	t.Run("absent record is not found", func(t *testing.T) {
		_, err := store.Get(ctx, "user_unknown", periodKey)
		assert.True(t, ierr.IsNotFound(err))
	})
}

func TestInMemoryUsageStore_ConcurrentAddUsage(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryUsageStore()
	periodKey := types.PeriodKey("2026-08")

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.AddUsage(ctx, "user_1", periodKey, "",
				usage.TaskDelta(1),
				usage.TokenDelta{InputTokens: 10, OutputTokens: 5, Cost: decimal.NewFromFloat(0.001)},
			)
		}()
	}
	wg.Wait()

	rec, err := store.Get(ctx, "user_1", periodKey)
	require.NoError(t, err)
	assert.Equal(t, int64(workers), rec.TasksUsed)
	assert.Equal(t, int64(workers*10), rec.InputTokens)
	assert.True(t, rec.Cost.Equal(decimal.NewFromFloat(0.001).Mul(decimal.NewFromInt(workers))))
}
