package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/ussdsim/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractSession(id string) *domain.Session {
	root := domain.NewResponse(id, "Welcome to Orange",
		domain.Option{Key: "1", Text: "New line activation"},
		domain.Option{Key: "0", Text: "Exit"},
	)
	sub := domain.NewResponse(id, "Orange Airtime Purchase",
		domain.Option{Key: "1", Text: "R5"},
		domain.Option{Key: "9", Text: "Back"},
		domain.Option{Key: "0", Text: "Exit"},
	)
	return &domain.Session{
		ID:        id,
		DialCode:  "*123#",
		Operator:  domain.OperatorContext{Name: "Orange", DeviceID: "2", SIMSlot: "Physical SIM"},
		Status:    domain.StatusMenuDisplayed,
		History:   domain.History{root, sub},
		StartedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		session := contractSession(sessionID)

		err := store.Save(ctx, sessionID, session)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, session.ID, loaded.ID)
		assert.Equal(t, session.DialCode, loaded.DialCode)
		assert.Equal(t, session.Operator, loaded.Operator)
		assert.Equal(t, session.Status, loaded.Status)
		assert.True(t, session.StartedAt.Equal(loaded.StartedAt))
		require.Equal(t, session.Depth(), loaded.Depth())
		for i := range session.History {
			assert.True(t, session.History[i].Equal(loaded.History[i]), "history entry %d must round-trip by value", i)
		}
	})

	t.Run("Loaded Snapshot Is Isolated", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, contractSession(sessionID)))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.History = loaded.History.Pop()

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, 2, again.Depth())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, contractSession(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, contractSession(id1))
		_ = store.Save(ctx, id2, contractSession(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
