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

func TestEngine_DelayIsApplied(t *testing.T) {
	engine := newEngine(t, runtime.WithDelays(30*time.Millisecond, 20*time.Millisecond))
	ctx := context.Background()

	start := time.Now()
	s, err := engine.Dial(ctx, nil, "*123#", orange)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)

	start = time.Now()
	_, _, err = engine.Select(ctx, s, "1")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestEngine_CancelledWaitCommitsNothing(t *testing.T) {
	engine := newEngine(t, runtime.WithDelays(time.Hour, time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	next, err := engine.Dial(ctx, nil, "*123#", orange)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, next)
	assert.False(t, domain.IsValidation(err))
}

func TestEngine_ValidationPrecedesDelay(t *testing.T) {
	engine := newEngine(t, runtime.WithDelays(time.Hour, time.Hour))

	done := make(chan error, 1)
	go func() {
		_, err := engine.Dial(context.Background(), nil, "123", orange)
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, domain.ErrInvalidDialCode)
	case <-time.After(time.Second):
		t.Fatal("malformed code must be rejected before the network delay")
	}
}
