package runtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/ussdsim/internal/runtime"
	"github.com/aretw0/ussdsim/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_LifecycleHooks(t *testing.T) {
	var (
		dials   []*domain.DialEvent
		selects []*domain.SelectEvent
		ends    []*domain.EndEvent
		rejects []*domain.RejectEvent
	)
	hooks := domain.LifecycleHooks{
		OnDial:   func(_ context.Context, e *domain.DialEvent) { dials = append(dials, e) },
		OnSelect: func(_ context.Context, e *domain.SelectEvent) { selects = append(selects, e) },
		OnEnd:    func(_ context.Context, e *domain.EndEvent) { ends = append(ends, e) },
		OnReject: func(_ context.Context, e *domain.RejectEvent) { rejects = append(rejects, e) },
	}

	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := start
	clock := func() time.Time { return now }

	engine := newEngine(t, runtime.WithLifecycleHooks(hooks), runtime.WithClock(clock))
	ctx := context.Background()

	s, err := engine.Dial(ctx, nil, "*131#", orange)
	require.NoError(t, err)
	s, _, err = engine.Select(ctx, s, "1")
	require.NoError(t, err)
	s, _, err = engine.Select(ctx, s, "9")
	require.NoError(t, err)
	_, _, err = engine.Select(ctx, s, "8")
	require.Error(t, err)

	now = start.Add(42 * time.Second)
	_, _, err = engine.Select(ctx, s, "0")
	require.NoError(t, err)

	_, err = engine.Dial(ctx, nil, "*999#", orange)
	require.NoError(t, err)

	require.Len(t, dials, 2)
	assert.True(t, dials[0].Known)
	assert.True(t, dials[0].IsMenu)
	assert.Equal(t, "Orange", dials[0].Operator)
	assert.False(t, dials[1].Known)

	require.Len(t, selects, 3)
	assert.Equal(t, domain.SelectForward, selects[0].Kind)
	assert.Equal(t, 2, selects[0].Depth)
	assert.Equal(t, domain.SelectBack, selects[1].Kind)
	assert.Equal(t, 1, selects[1].Depth)
	assert.Equal(t, domain.SelectExit, selects[2].Kind)

	require.Len(t, ends, 1)
	assert.Equal(t, domain.EndExit, ends[0].Reason)
	assert.Equal(t, 42*time.Second, ends[0].Duration)

	require.Len(t, rejects, 1)
	assert.Equal(t, "select", rejects[0].Op)
	assert.ErrorIs(t, rejects[0].Err, domain.ErrUnknownOption)
}
