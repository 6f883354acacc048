package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/ussdsim/internal/runtime"
	"github.com/aretw0/ussdsim/pkg/adapters/memory"
	"github.com/aretw0/ussdsim/pkg/adapters/redis"
	"github.com/aretw0/ussdsim/pkg/catalog"
	"github.com/aretw0/ussdsim/pkg/domain"
	"github.com/aretw0/ussdsim/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orange = domain.OperatorContext{Name: "Orange"}

func newRuntime(t *testing.T, selectDelay time.Duration) *runtime.Engine {
	t.Helper()
	c, err := catalog.Default(catalog.WithIDGenerator(&catalog.SequenceGenerator{Prefix: "s"}))
	require.NoError(t, err)
	return runtime.NewEngine(c, runtime.WithDelays(0, selectDelay))
}

func TestManager_Lifecycle(t *testing.T) {
	store := memory.NewStore()
	mgr := session.NewManager(newRuntime(t, 0), store)
	ctx := context.Background()

	s, err := mgr.Dial(ctx, "*123#", orange)
	require.NoError(t, err)
	assert.Equal(t, "s-1", s.ID)

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s-1"}, ids)

	s, out, err := mgr.Select(ctx, s.ID, "1")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Depth())
	assert.True(t, out.Response.OffersBack())

	loaded, err := mgr.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Depth())

	_, out, err = mgr.Select(ctx, "s-1", "0")
	require.NoError(t, err)
	assert.True(t, out.Ended)

	_, err = mgr.Load(ctx, "s-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound, "ended sessions leave the store")

	_, _, err = mgr.Select(ctx, "s-1", "1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_RejectedCallKeepsStoredSnapshot(t *testing.T) {
	mgr := session.NewManager(newRuntime(t, 0), memory.NewStore())
	ctx := context.Background()

	s, err := mgr.Dial(ctx, "*321#", orange)
	require.NoError(t, err)

	_, _, err = mgr.Select(ctx, s.ID, "5")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	loaded, err := mgr.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusTerminalDisplayed, loaded.Status)

	_, out, err := mgr.Close(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EndClosed, out.Reason)

	_, err = mgr.Dial(ctx, "", orange)
	assert.ErrorIs(t, err, domain.ErrInvalidDialCode)
}

func TestManager_OperationInProgress(t *testing.T) {
	mgr := session.NewManager(newRuntime(t, 300*time.Millisecond), memory.NewStore())
	ctx := context.Background()

	s, err := mgr.Dial(ctx, "*131#", orange)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _, err := mgr.Select(ctx, s.ID, "1")
		assert.NoError(t, err)
	}()

	require.Eventually(t, func() bool {
		loaded, err := mgr.Load(ctx, s.ID)
		return err == nil && loaded.Status == domain.StatusAwaitingResponse
	}, time.Second, 5*time.Millisecond)

	_, _, err = mgr.Select(ctx, s.ID, "2")
	assert.ErrorIs(t, err, domain.ErrOperationInProgress)
	assert.ErrorIs(t, mgr.Delete(ctx, s.ID), domain.ErrOperationInProgress)

	wg.Wait()

	loaded, err := mgr.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Depth())
	assert.Equal(t, domain.StatusMenuDisplayed, loaded.Status)
}

func TestManager_DistributedLock(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewFromClient(client, redis.WithTTL(time.Minute))
	engine := newRuntime(t, 300*time.Millisecond)
	replicaA := session.NewManager(engine, store, session.WithLocker(redis.NewLocker(client, store.Prefix())))
	replicaB := session.NewManager(engine, store, session.WithLocker(redis.NewLocker(client, store.Prefix())))
	ctx := context.Background()

	s, err := replicaA.Dial(ctx, "*123#", orange)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, _, err := replicaA.Select(ctx, s.ID, "1")
		done <- err
	}()

	require.Eventually(t, func() bool {
		return mr.Exists(store.Prefix() + "lock:" + s.ID)
	}, time.Second, 5*time.Millisecond)

	_, _, err = replicaB.Select(ctx, s.ID, "2")
	assert.ErrorIs(t, err, domain.ErrOperationInProgress)

	require.NoError(t, <-done)
	assert.False(t, mr.Exists(store.Prefix()+"lock:"+s.ID), "lock released after the call")

	loaded, err := replicaB.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Depth())
}
