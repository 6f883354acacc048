package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/ussdsim/pkg/adapters/redis"
	"github.com/aretw0/ussdsim/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLocker_LockUnlock(t *testing.T) {
	mr, client := setup(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.TryLock(ctx, "resource1", 5*time.Second)
	require.NoError(t, err)
	require.NotNil(t, unlock)
	assert.True(t, mr.Exists("test:lock:resource1"), "Lock key should be set in Redis")

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:resource1"), "Lock key should be removed after unlock")
}

func TestRedisLocker_Contention(t *testing.T) {
	_, client := setup(t)
	replicaA := redis.NewLocker(client, "test:")
	replicaB := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlockA, err := replicaA.TryLock(ctx, "shared", 5*time.Second)
	require.NoError(t, err)

	_, err = replicaB.TryLock(ctx, "shared", 5*time.Second)
	assert.ErrorIs(t, err, ports.ErrLockHeld)

	require.NoError(t, unlockA(ctx))

	unlockB, err := replicaB.TryLock(ctx, "shared", 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, unlockB(ctx))
}

func TestRedisLocker_StaleUnlockKeepsNewOwner(t *testing.T) {
	mr, client := setup(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	staleUnlock, err := locker.TryLock(ctx, "k", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	unlock, err := locker.TryLock(ctx, "k", 5*time.Second)
	require.NoError(t, err, "expired lock can be taken over")

	require.NoError(t, staleUnlock(ctx))
	assert.True(t, mr.Exists("test:lock:k"), "stale holder must not release the new owner's lock")

	require.NoError(t, unlock(ctx))
}
