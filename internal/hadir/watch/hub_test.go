package watch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHubDeliversInitialSnapshot(t *testing.T) {
	t.Parallel()

	h := NewHub[int]()
	ch, cancel := h.Subscribe(42)
	defer cancel()

	require.Equal(t, 42, <-ch)
}

func TestHubPublishReachesAllSubscribers(t *testing.T) {
	t.Parallel()

	h := NewHub[string]()

	a, cancelA := h.Subscribe("init")
	defer cancelA()
	b, cancelB := h.Subscribe("init")
	defer cancelB()

	// Drain the initial deliveries first.
	require.Equal(t, "init", <-a)
	require.Equal(t, "init", <-b)

	h.Publish("update")
	require.Equal(t, "update", <-a)
	require.Equal(t, "update", <-b)
}

func TestHubCoalescesToNewestSnapshot(t *testing.T) {
	t.Parallel()

	h := NewHub[int]()
	ch, cancel := h.Subscribe(0)
	defer cancel()

	// Subscriber never reads between publishes; only the last value
	// survives.
	h.Publish(1)
	h.Publish(2)
	h.Publish(3)

	require.Equal(t, 3, <-ch)

	select {
	case v := <-ch:
		t.Fatalf("unexpected extra delivery: %d", v)
	default:
	}
}

func TestHubCancelRemovesSubscriber(t *testing.T) {
	t.Parallel()

	h := NewHub[int]()
	ch, cancel := h.Subscribe(0)
	require.Equal(t, 1, h.Len())

	cancel()
	require.Equal(t, 0, h.Len())

	// Channel is drained of the initial value and then closed.
	v, ok := <-ch
	require.Equal(t, 0, v)
	require.True(t, ok)
	_, ok = <-ch
	require.False(t, ok)

	// Second cancel is a no-op.
	cancel()

	// Publishing with no subscribers must not panic.
	h.Publish(99)
}

func TestHubPublishNeverBlocks(t *testing.T) {
	t.Parallel()

	h := NewHub[int]()
	_, cancel := h.Subscribe(0)
	defer cancel()

	// A subscriber that never reads must not stall publishers.
	for i := 0; i < 1000; i++ {
		h.Publish(i)
	}
}
