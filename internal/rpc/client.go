package rpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/cuemby/raftkv/internal/rpc/raftkv"
)

// Client wraps a gRPC connection to a node's RaftKV service for CLI usage.
// Non-goals rule out authentication, so the connection is always plain
// insecure transport credentials rather than the teacher's mTLS dance.
type Client struct {
	conn   *grpc.ClientConn
	client raftkv.RaftKVClient
}

// NewClient dials addr (host:port) and returns a Client ready for use.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, client: raftkv.NewRaftKVClient(conn)}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Put writes key=value through the connected node.
func (c *Client) Put(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := c.client.Put(ctx, &raftkv.PutRequest{Key: key, Value: value})
	if err != nil {
		return err
	}
	if !resp.Success {
		return &RemoteError{Message: resp.Error}
	}
	return nil
}

// Get reads key, reporting whether it was present.
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := c.client.Get(ctx, &raftkv.GetRequest{Key: key})
	if err != nil {
		return "", false, err
	}
	if resp.Error != "" {
		return "", false, &RemoteError{Message: resp.Error}
	}
	return resp.Value, resp.Found, nil
}

// Delete removes key through the connected node.
func (c *Client) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := c.client.Delete(ctx, &raftkv.DeleteRequest{Key: key})
	if err != nil {
		return err
	}
	if !resp.Success {
		return &RemoteError{Message: resp.Error}
	}
	return nil
}

// JoinCluster asks the connected node (expected to be the leader) to add
// nodeID/raftAddr as a new voter.
func (c *Client) JoinCluster(ctx context.Context, nodeID, raftAddr string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := c.client.JoinCluster(ctx, &raftkv.JoinClusterRequest{NodeID: nodeID, RaftAddr: raftAddr})
	if err != nil {
		return err
	}
	if !resp.Success {
		return &RemoteError{Message: resp.Error}
	}
	return nil
}

// ClusterStatus returns the connected node's view of cluster health.
func (c *Client) ClusterStatus(ctx context.Context) (*raftkv.ClusterStatusResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return c.client.ClusterStatus(ctx, &raftkv.ClusterStatusRequest{})
}

// RemoteError wraps an application-level failure string returned inline by
// an RPC response (the spec's "command-level errors are carried inline,
// not as gRPC status codes" rule), so callers can still use errors.As.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string { return e.Message }
