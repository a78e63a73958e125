package notify

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelay_PublishAndDrain(t *testing.T) {
	r := NewRelay()

	id1 := r.Success("Lesson created", "Variables")
	id2 := r.Error("Failed to delete quiz", "network error")
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, r.Len())

	drained := r.Drain()
	require.Len(t, drained, 2)

	// Publish order is preserved
	assert.Equal(t, TypeSuccess, drained[0].Type)
	assert.Equal(t, "Lesson created", drained[0].Message)
	assert.Equal(t, "Variables", drained[0].Description)
	assert.Equal(t, TypeError, drained[1].Type)

	// Draining empties the queue
	assert.Zero(t, r.Len())
}

func TestRelay_DrainEmptyIsNotNil(t *testing.T) {
	r := NewRelay()
	drained := r.Drain()
	assert.NotNil(t, drained)
	assert.Empty(t, drained)
}

func TestRelay_CapacityDropsOldest(t *testing.T) {
	r := NewRelayWithCapacity(3)

	for i := 0; i < 5; i++ {
		r.Publish(TypeInfo, fmt.Sprintf("message %d", i), "")
	}

	drained := r.Drain()
	require.Len(t, drained, 3)
	assert.Equal(t, "message 2", drained[0].Message)
	assert.Equal(t, "message 4", drained[2].Message)
}

func TestRelay_Remove(t *testing.T) {
	r := NewRelay()

	keep := r.Publish(TypeInfo, "keep", "")
	drop := r.Publish(TypeInfo, "drop", "")

	r.Remove(drop)
	// Unknown IDs are ignored
	r.Remove("not-an-id")

	drained := r.Drain()
	require.Len(t, drained, 1)
	assert.Equal(t, keep, drained[0].ID)
}

func TestRelay_Clear(t *testing.T) {
	r := NewRelay()
	r.Publish(TypeWarning, "pending", "")
	r.Clear()
	assert.Zero(t, r.Len())
}

func TestRelay_ConcurrentPublish(t *testing.T) {
	r := NewRelay()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				r.Publish(TypeInfo, fmt.Sprintf("worker %d", n), "")
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, r.Len())
}
