package rpc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/cuemby/raftkv/internal/cluster"
	"github.com/cuemby/raftkv/internal/rpc/raftkv"
)

func newTestRaftServerOnAddr(t *testing.T, id, raftAddr, rpcAddr string) raftkv.RaftKVClient {
	t.Helper()

	n, err := cluster.NewNode(cluster.NodeConfig{
		ID:       id,
		RaftAddr: raftAddr,
		DataDir:  t.TempDir(),
	})
	require.NoError(t, err)
	require.NoError(t, n.Bootstrap())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = n.Shutdown(ctx)
	})

	require.Eventually(t, n.IsLeader, 5*time.Second, 10*time.Millisecond)

	server := NewRaftServer(n)
	go func() { _ = server.Serve(rpcAddr) }()
	t.Cleanup(server.Stop)

	var conn *grpc.ClientConn
	require.Eventually(t, func() bool {
		c, err := grpc.NewClient(rpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return false
		}
		conn = c
		return true
	}, 2*time.Second, 10*time.Millisecond)
	t.Cleanup(func() { _ = conn.Close() })

	return raftkv.NewRaftKVClient(conn)
}

func TestRaftServer_PutGetDelete(t *testing.T) {
	client := newTestRaftServerOnAddr(t, "n1", "127.0.0.1:29201", "127.0.0.1:29202")
	ctx := context.Background()

	putResp, err := client.Put(ctx, &raftkv.PutRequest{Key: "a", Value: "1"})
	require.NoError(t, err)
	require.True(t, putResp.Success)

	getResp, err := client.Get(ctx, &raftkv.GetRequest{Key: "a"})
	require.NoError(t, err)
	require.True(t, getResp.Found)
	require.Equal(t, "1", getResp.Value)

	delResp, err := client.Delete(ctx, &raftkv.DeleteRequest{Key: "a"})
	require.NoError(t, err)
	require.True(t, delResp.Success)
}

func TestRaftServer_ClusterStatus_ReportsLeaderAndTerm(t *testing.T) {
	client := newTestRaftServerOnAddr(t, "n2", "127.0.0.1:29203", "127.0.0.1:29204")
	ctx := context.Background()

	status, err := client.ClusterStatus(ctx, &raftkv.ClusterStatusRequest{})
	require.NoError(t, err)
	require.Equal(t, "Leader", status.State)
	require.GreaterOrEqual(t, status.Term, uint64(1))
	require.Len(t, status.Servers, 1)
}
