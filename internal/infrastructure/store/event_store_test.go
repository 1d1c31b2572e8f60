package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryEventStore_Append_AssignsSequentialVersions(t *testing.T) {
	es := NewMemoryEventStore(nil)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		event, err := es.Append(ctx, "cart-s1", "Cart", "CartItemAdded", map[string]any{"n": i})
		require.NoError(t, err)
		assert.Equal(t, i, event.Version)
		assert.NotEmpty(t, event.ID)
		assert.False(t, event.Timestamp.IsZero())
	}

	events := es.GetEvents("cart-s1")
	require.Len(t, events, 3)
	assert.Equal(t, 1, events[0].Version)
	assert.Equal(t, 3, events[2].Version)
}

func TestMemoryEventStore_VersionsPerAggregate(t *testing.T) {
	es := NewMemoryEventStore(nil)
	ctx := context.Background()

	_, err := es.Append(ctx, "cart-s1", "Cart", "CartItemAdded", nil)
	require.NoError(t, err)
	event, err := es.Append(ctx, "cart-s2", "Cart", "CartItemAdded", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, event.Version)
	assert.Len(t, es.GetEvents("cart-s1"), 1)
	assert.Len(t, es.GetEvents("cart-s2"), 1)
	assert.Len(t, es.GetAllEvents(), 2)
}

func TestMemoryEventStore_GetEventsFromVersion(t *testing.T) {
	es := NewMemoryEventStore(nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := es.Append(ctx, "cart-s1", "Cart", "CartItemAdded", nil)
		require.NoError(t, err)
	}

	events := es.GetEventsFromVersion(ctx, "cart-s1", 3)
	require.Len(t, events, 2)
	assert.Equal(t, 4, events[0].Version)
	assert.Equal(t, 5, events[1].Version)
}

func TestMemoryEventStore_Snapshots(t *testing.T) {
	es := NewMemoryEventStore(nil)
	ctx := context.Background()

	snapshot, err := es.GetSnapshot(ctx, "cart-s1")
	require.NoError(t, err)
	assert.Nil(t, snapshot)

	state, err := json.Marshal(map[string]any{"id": "cart-s1"})
	require.NoError(t, err)

	err = es.SaveSnapshot(ctx, &Snapshot{
		AggregateID:   "cart-s1",
		AggregateType: "Cart",
		Version:       10,
		State:         state,
		CreatedAt:     time.Now(),
	})
	require.NoError(t, err)

	snapshot, err = es.GetSnapshot(ctx, "cart-s1")
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, 10, snapshot.Version)
	assert.JSONEq(t, string(state), string(snapshot.State))
}

func TestMemoryEventStore_SaveSnapshot_ReplacesPrevious(t *testing.T) {
	es := NewMemoryEventStore(nil)
	ctx := context.Background()

	for _, version := range []int{10, 20} {
		err := es.SaveSnapshot(ctx, &Snapshot{
			AggregateID:   "cart-s1",
			AggregateType: "Cart",
			Version:       version,
			State:         json.RawMessage(`{}`),
			CreatedAt:     time.Now(),
		})
		require.NoError(t, err)
	}

	snapshot, err := es.GetSnapshot(ctx, "cart-s1")
	require.NoError(t, err)
	assert.Equal(t, 20, snapshot.Version)
}

func TestSnapshotThreshold(t *testing.T) {
	assert.Equal(t, 10, SnapshotThreshold)
}

func TestEvent_MarshalJSON(t *testing.T) {
	event := Event{
		ID:            "evt-1",
		AggregateID:   "cart-s1",
		AggregateType: "Cart",
		EventType:     "CartItemAdded",
		Data:          json.RawMessage(`{"quantity":2}`),
		Timestamp:     time.Now(),
		Version:       1,
	}

	data, err := event.MarshalJSON()
	require.NoError(t, err)

	var restored Event
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, event.ID, restored.ID)
	assert.Equal(t, event.Version, restored.Version)
	assert.JSONEq(t, string(event.Data), string(restored.Data))
}
