package watch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBroker_SubscribeReceivesPublishedEvent(t *testing.T) {
	b := NewBroker(4)
	ch, unsubscribe := b.Subscribe()
	defer unsubscribe()

	b.Publish(Event{Key: "a", Type: EventPut, Value: "1"})

	select {
	case ev := <-ch:
		require.Equal(t, "a", ev.Key)
		require.Equal(t, EventPut, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

// Scenario 6: when a subscriber's buffer is full, the oldest event is
// dropped to make room for the newest rather than the newest being
// refused.
func TestBroker_FullBuffer_DropsOldestNotNewest(t *testing.T) {
	b := NewBroker(2)
	ch, unsubscribe := b.Subscribe()
	defer unsubscribe()

	b.Publish(Event{Key: "k1"})
	b.Publish(Event{Key: "k2"})
	b.Publish(Event{Key: "k3"})

	first := <-ch
	second := <-ch
	require.Equal(t, "k2", first.Key)
	require.Equal(t, "k3", second.Key)

	select {
	case ev := <-ch:
		t.Fatalf("unexpected extra event: %+v", ev)
	default:
	}
}

func TestBroker_Unsubscribe_ClosesChannel(t *testing.T) {
	b := NewBroker(4)
	ch, unsubscribe := b.Subscribe()
	require.Equal(t, 1, b.SubscriberCount())

	unsubscribe()
	require.Equal(t, 0, b.SubscriberCount())

	_, ok := <-ch
	require.False(t, ok)
}

func TestBroker_MultipleSubscribersAllReceive(t *testing.T) {
	b := NewBroker(4)
	ch1, unsub1 := b.Subscribe()
	defer unsub1()
	ch2, unsub2 := b.Subscribe()
	defer unsub2()

	b.Publish(Event{Key: "a", Type: EventPut})

	require.Equal(t, "a", (<-ch1).Key)
	require.Equal(t, "a", (<-ch2).Key)
}
