package cluster

import (
	"context"
	"testing"
	"time"

	"github.com/hashicorp/raft"
	"github.com/stretchr/testify/require"
)

func waitForLeader(t *testing.T, n *Node) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if n.IsLeader() {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("node %s never became leader", n.ID())
}

func newTestNode(t *testing.T, id, addr string) *Node {
	t.Helper()
	n, err := NewNode(NodeConfig{
		ID:       id,
		RaftAddr: addr,
		DataDir:  t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = n.Shutdown(context.Background())
	})
	return n
}

func TestNode_BootstrapSingleNode_BecomesLeader(t *testing.T) {
	n := newTestNode(t, "node-1", "127.0.0.1:21001")
	require.NoError(t, n.Bootstrap())
	waitForLeader(t, n)
}

func TestNode_PutGetDelete(t *testing.T) {
	n := newTestNode(t, "node-1", "127.0.0.1:21002")
	require.NoError(t, n.Bootstrap())
	waitForLeader(t, n)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := n.Put(ctx, "a", "1")
	require.NoError(t, err)
	require.Nil(t, res.Err)

	val, found, err := n.Get("a")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "1", val)

	res, err = n.Delete(ctx, "a")
	require.NoError(t, err)
	require.Nil(t, res.Err)

	_, found, err = n.Get("a")
	require.NoError(t, err)
	require.False(t, found)
}

func TestNode_DeleteMissingKey_ReturnsKeyNotFoundWithoutError(t *testing.T) {
	n := newTestNode(t, "node-1", "127.0.0.1:21003")
	require.NoError(t, n.Bootstrap())
	waitForLeader(t, n)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := n.Delete(ctx, "ghost")
	require.NoError(t, err)
	require.NotNil(t, res.Err)
}

func TestNode_Stats_ReportsLeaderState(t *testing.T) {
	n := newTestNode(t, "node-1", "127.0.0.1:21004")
	require.NoError(t, n.Bootstrap())
	waitForLeader(t, n)

	stats := n.Stats()
	require.Equal(t, raft.Leader.String(), stats["state"])
	require.Equal(t, 1, stats["peers"])
}
