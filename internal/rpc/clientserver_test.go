package rpc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/cuemby/raftkv/internal/rpc/clientkv"
	"github.com/cuemby/raftkv/internal/singlenode"
)

// newTestClientServerOnAddr starts a ClientServer bound to addr and returns
// a client for it; teardown is registered with t.Cleanup.
func newTestClientServerOnAddr(t *testing.T, addr string) clientkv.ClientKVClient {
	t.Helper()

	store, err := singlenode.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	server := NewClientServer(store)
	errCh := make(chan error, 1)
	go func() {
		if err := server.Serve(addr); err != nil {
			errCh <- err
		}
	}()
	t.Cleanup(server.Stop)

	var conn *grpc.ClientConn
	require.Eventually(t, func() bool {
		c, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return false
		}
		conn = c
		return true
	}, 2*time.Second, 10*time.Millisecond)
	t.Cleanup(func() { _ = conn.Close() })

	return clientkv.NewClientKVClient(conn)
}

func TestClientServer_PutGetDelete(t *testing.T) {
	client := newTestClientServerOnAddr(t, "127.0.0.1:29101")
	ctx := context.Background()

	_, err := client.Put(ctx, &clientkv.PutRequest{Key: "a", Value: "1"})
	require.NoError(t, err)

	getResp, err := client.Get(ctx, &clientkv.GetRequest{Key: "a"})
	require.NoError(t, err)
	require.True(t, getResp.Found)
	require.Equal(t, "1", getResp.Value)

	_, err = client.Delete(ctx, &clientkv.DeleteRequest{Key: "a"})
	require.NoError(t, err)

	getResp, err = client.Get(ctx, &clientkv.GetRequest{Key: "a"})
	require.NoError(t, err)
	require.False(t, getResp.Found)
}

func TestClientServer_ListFiltersByPrefix(t *testing.T) {
	client := newTestClientServerOnAddr(t, "127.0.0.1:29102")
	ctx := context.Background()

	_, err := client.Put(ctx, &clientkv.PutRequest{Key: "user/1", Value: "a"})
	require.NoError(t, err)
	_, err = client.Put(ctx, &clientkv.PutRequest{Key: "order/1", Value: "b"})
	require.NoError(t, err)

	listResp, err := client.List(ctx, &clientkv.ListRequest{Prefix: "user/"})
	require.NoError(t, err)
	require.Len(t, listResp.Items, 1)
	require.Equal(t, "user/1", listResp.Items[0].Key)
}

func TestClientServer_Watch_StreamsPutEvents(t *testing.T) {
	client := newTestClientServerOnAddr(t, "127.0.0.1:29103")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := client.Watch(ctx, &clientkv.WatchRequest{Key: "a"})
	require.NoError(t, err)

	// Give the server goroutine time to register the subscription before
	// the write it's expected to observe.
	time.Sleep(50 * time.Millisecond)

	_, err = client.Put(ctx, &clientkv.PutRequest{Key: "a", Value: "1"})
	require.NoError(t, err)

	ev, err := stream.Recv()
	require.NoError(t, err)
	require.Equal(t, "a", ev.Key)
	require.Equal(t, "put", ev.Type)
}
