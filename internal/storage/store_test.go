package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStepStoreAccumulates(t *testing.T) {
	store := NewMemoryStepStore()
	ctx := context.Background()

	require.NoError(t, store.AddIncrementalCost(ctx, "task-1", "step-1", "org-1", 1050))
	require.NoError(t, store.AddIncrementalCost(ctx, "task-1", "step-1", "org-1", 300))

	assert.Equal(t, int64(1350), store.Cost("task-1", "step-1", "org-1"))
	assert.Equal(t, 1, store.Updates())
}

func TestMemoryStepStoreStepIsolation(t *testing.T) {
	store := NewMemoryStepStore()
	ctx := context.Background()

	require.NoError(t, store.AddIncrementalCost(ctx, "task-1", "step-1", "org-1", 100))
	require.NoError(t, store.AddIncrementalCost(ctx, "task-1", "step-2", "org-1", 200))
	require.NoError(t, store.AddIncrementalCost(ctx, "task-1", "step-1", "org-2", 400))

	assert.Equal(t, int64(100), store.Cost("task-1", "step-1", "org-1"))
	assert.Equal(t, int64(200), store.Cost("task-1", "step-2", "org-1"))
	assert.Equal(t, int64(400), store.Cost("task-1", "step-1", "org-2"))
	assert.Equal(t, 3, store.Updates())
}

func TestMemoryStepStoreUnknownStepIsZero(t *testing.T) {
	store := NewMemoryStepStore()
	assert.Zero(t, store.Cost("task-x", "step-x", "org-x"))
}
