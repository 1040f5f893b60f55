package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"atlastours/database/repository"
)

func TestStorageForPrimaryFallsBackWhenConnectFails(t *testing.T) {
	store, failover := storageForPrimary(nil, errors.New("server selection timeout"), zap.NewNop())
	require.NotNil(t, store)
	assert.Nil(t, failover)

	ctx := context.Background()
	require.NoError(t, store.SeedInitialData(ctx))

	activities, err := store.GetActivities(ctx, false)
	require.NoError(t, err)
	assert.Len(t, activities, 5)

	user, err := store.GetUserByUsername(ctx, "nadia")
	require.NoError(t, err)
	assert.Equal(t, "superadmin", user.Role)
}

func TestStorageForPrimaryWrapsHealthyPrimaryInFailover(t *testing.T) {
	primary := repository.NewMemoryStorage()
	store, failover := storageForPrimary(primary, nil, zap.NewNop())
	require.NotNil(t, failover)
	assert.Equal(t, repository.Storage(failover), store)
	assert.False(t, failover.Degraded())
}
