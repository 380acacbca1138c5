package singlenode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cuemby/raftkv/internal/watch"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_PutGet(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Put("a", "1"))

	val, found, err := s.Get("a")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "1", val)

	_, found, err = s.Get("missing")
	require.NoError(t, err)
	require.False(t, found)
}

func TestStore_Delete(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Put("a", "1"))
	require.NoError(t, s.Delete("a"))

	_, found, err := s.Get("a")
	require.NoError(t, err)
	require.False(t, found)
}

func TestStore_List_FiltersByPrefixInOrder(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Put("user/2", "b"))
	require.NoError(t, s.Put("user/1", "a"))
	require.NoError(t, s.Put("order/1", "c"))

	kvs, err := s.List("user/")
	require.NoError(t, err)
	require.Len(t, kvs, 2)
	require.Equal(t, "user/1", kvs[0].Key)
	require.Equal(t, "user/2", kvs[1].Key)
}

func TestStore_DeleteAll(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Put("a", "1"))
	require.NoError(t, s.Put("b", "2"))

	require.NoError(t, s.DeleteAll())

	kvs, err := s.List("")
	require.NoError(t, err)
	require.Empty(t, kvs)
}

func TestStore_DeleteAll_BroadcastsOneCoalescedEvent(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Put("a", "1"))
	require.NoError(t, s.Put("b", "2"))

	ch, unsubscribe := s.Watch()
	defer unsubscribe()

	require.NoError(t, s.DeleteAll())

	select {
	case ev := <-ch:
		require.Equal(t, watch.EventDeleteAll, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delete_all event")
	}

	select {
	case ev := <-ch:
		t.Fatalf("expected exactly one event, got a second: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestStore_Watch_ReceivesPutAndDelete(t *testing.T) {
	s := openTestStore(t)
	ch, unsubscribe := s.Watch()
	defer unsubscribe()

	require.NoError(t, s.Put("a", "1"))
	select {
	case ev := <-ch:
		require.Equal(t, "a", ev.Key)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for put event")
	}

	require.NoError(t, s.Delete("a"))
	select {
	case ev := <-ch:
		require.Equal(t, "a", ev.Key)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delete event")
	}
}
