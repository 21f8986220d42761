package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
)

func TestSequenceStoreMonotonicPerKey(t *testing.T) {
	store := NewInMemorySequenceStore()
	ctx := types.SetTenantID(context.Background(), types.DefaultTenantID)

	for i := int64(1); i <= 3; i++ {
		value, err := store.NextValue(ctx, types.DocumentTypeGST, "2025-26")
		require.NoError(t, err)
		assert.Equal(t, i, value)
	}

	// Other series are untouched
	value, err := store.NextValue(ctx, types.DocumentTypeNonGST, "2025-26")
	require.NoError(t, err)
	assert.Equal(t, int64(1), value)

	value, err = store.NextValue(ctx, types.DocumentTypeGST, "2026-27")
	require.NoError(t, err)
	assert.Equal(t, int64(1), value)
}

func TestSequenceStoreTenantIsolation(t *testing.T) {
	store := NewInMemorySequenceStore()

	ctxA := types.SetTenantID(context.Background(), "tenant-a")
	ctxB := types.SetTenantID(context.Background(), "tenant-b")

	valueA, err := store.NextValue(ctxA, types.DocumentTypeGST, "2025-26")
	require.NoError(t, err)
	valueB, err := store.NextValue(ctxB, types.DocumentTypeGST, "2025-26")
	require.NoError(t, err)

	assert.Equal(t, int64(1), valueA)
	assert.Equal(t, int64(1), valueB)
}

func TestSequenceStoreFailNext(t *testing.T) {
	store := NewInMemorySequenceStore()
	ctx := types.SetTenantID(context.Background(), types.DefaultTenantID)

	store.FailNext(2)

	_, err := store.NextValue(ctx, types.DocumentTypeGST, "2025-26")
	require.Error(t, err)
	assert.True(t, ierr.IsSequenceConflict(err))

	_, err = store.NextValue(ctx, types.DocumentTypeGST, "2025-26")
	require.Error(t, err)

	// Conflicts never consume sequence values
	value, err := store.NextValue(ctx, types.DocumentTypeGST, "2025-26")
	require.NoError(t, err)
	assert.Equal(t, int64(1), value)
}
