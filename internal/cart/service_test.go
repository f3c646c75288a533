package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planeta-be/internal/storage"
)

type recordedEvent struct {
	sessionID string
	count     int
}

func TestService_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	svc := NewService(ServiceConfig{Storage: mem})

	_, err := svc.Add(ctx, "s1", line("a", 10, 2))
	require.NoError(t, err)
	_, err = svc.Add(ctx, "s2", line("b", 5, 1))
	require.NoError(t, err)

	n, err := svc.Count(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	snap, err := svc.Snapshot(ctx, "s2")
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "b", snap.Items[0].ID)

	_, found, _ := mem.Get(ctx, DefaultStorageKey+":s1")
	assert.True(t, found)
}

func TestService_Validation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(ServiceConfig{})

	_, err := svc.Snapshot(ctx, "")
	assert.ErrorIs(t, err, ErrSessionRequired)

	_, err = svc.Add(ctx, "s1", LineItem{})
	assert.ErrorIs(t, err, ErrLineIDRequired)

	_, err = svc.Increment(ctx, "s1", "")
	assert.ErrorIs(t, err, ErrLineIDRequired)

	for name, op := range map[string]func() (Snapshot, error){
		"SetQty":    func() (Snapshot, error) { return svc.SetQty(ctx, "s1", "nope", 2) },
		"Increment": func() (Snapshot, error) { return svc.Increment(ctx, "s1", "nope") },
		"Decrement": func() (Snapshot, error) { return svc.Decrement(ctx, "s1", "nope") },
		"Remove":    func() (Snapshot, error) { return svc.Remove(ctx, "s1", "nope") },
	} {
		t.Run(name, func(t *testing.T) {
			_, err := op()
			assert.ErrorIs(t, err, ErrCartItemNotFound)
		})
	}
}

func TestService_Operations(t *testing.T) {
	ctx := context.Background()
	svc := NewService(ServiceConfig{FreeShippingThreshold: NewMoney(20, "KM")})

	_, err := svc.Add(ctx, "s", line("a", 5, 1))
	require.NoError(t, err)

	snap, err := svc.Increment(ctx, "s", "a")
	require.NoError(t, err)
	assert.Equal(t, 2, snap.ItemsCount)

	snap, err = svc.SetQty(ctx, "s", "a", 4.2)
	require.NoError(t, err)
	assert.Equal(t, 4, snap.ItemsCount)
	assert.Equal(t, 1.0, snap.FreeShippingProgress)

	snap, err = svc.Decrement(ctx, "s", "a")
	require.NoError(t, err)
	assert.Equal(t, 3, snap.ItemsCount)

	snap, err = svc.Remove(ctx, "s", "a")
	require.NoError(t, err)
	assert.Empty(t, snap.Items)

	_, _ = svc.Add(ctx, "s", line("b", 1, 1))
	snap, err = svc.Clear(ctx, "s")
	require.NoError(t, err)
	assert.Zero(t, snap.ItemsCount)
}

func TestService_EvictedSessionReloads(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	svc := NewService(ServiceConfig{Storage: mem, MaxLiveSessions: 2})

	for i := 0; i < 5; i++ {
		_, err := svc.Add(ctx, fmt.Sprintf("s%d", i), line("a", 1, i+1))
		require.NoError(t, err)
	}

	n, err := svc.Count(ctx, "s0")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = svc.Count(ctx, "s3")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestService_Listeners(t *testing.T) {
	ctx := context.Background()
	var events []recordedEvent
	svc := NewService(ServiceConfig{
		Listeners: []SessionListener{
			SessionListenerFunc(func(_ context.Context, sessionID string, snap Snapshot) {
				events = append(events, recordedEvent{sessionID, snap.ItemsCount})
			}),
		},
	})

	_, _ = svc.Add(ctx, "s1", line("a", 1, 1))
	_, _ = svc.Add(ctx, "s2", line("a", 1, 3))
	_, _ = svc.Increment(ctx, "s1", "a")
	_, _ = svc.Decrement(ctx, "s1", "a")
	_, _ = svc.Decrement(ctx, "s1", "a")

	assert.Equal(t, []recordedEvent{{"s1", 1}, {"s2", 3}, {"s1", 2}, {"s1", 1}}, events)
}
