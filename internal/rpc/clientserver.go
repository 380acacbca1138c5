package rpc

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"

	"github.com/cuemby/raftkv/internal/log"
	"github.com/cuemby/raftkv/internal/metrics"
	"github.com/cuemby/raftkv/internal/rpc/clientkv"
	"github.com/cuemby/raftkv/internal/singlenode"
	"github.com/cuemby/raftkv/internal/watch"
)

// ClientServer serves the ClientKV service on top of the single-node,
// non-replicated store.
type ClientServer struct {
	clientkv.UnimplementedClientKVServer
	store *singlenode.Store
	grpc  *grpc.Server
}

// NewClientServer wires store into a fresh gRPC server. Non-goals rule
// out authentication, so the listener is plain insecure.NewCredentials
// territory; grpc.NewServer with no Creds option does the same.
func NewClientServer(store *singlenode.Store) *ClientServer {
	s := &ClientServer{
		store: store,
		grpc:  grpc.NewServer(),
	}
	clientkv.RegisterClientKVServer(s.grpc, s)
	return s
}

// Serve blocks accepting connections on addr until the listener or the
// gRPC server stops.
func (s *ClientServer) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("rpc: listen on %s: %w", addr, err)
	}
	log.WithComponent("rpc").Info().Str("addr", addr).Msg("clientkv gRPC server listening")
	return s.grpc.Serve(lis)
}

// Stop gracefully drains in-flight RPCs before returning.
func (s *ClientServer) Stop() {
	s.grpc.GracefulStop()
}

func (s *ClientServer) Put(ctx context.Context, req *clientkv.PutRequest) (*clientkv.PutResponse, error) {
	err := s.store.Put(req.Key, req.Value)
	observeOutcome("Put")(err)
	if err != nil {
		return nil, err
	}
	return &clientkv.PutResponse{}, nil
}

func (s *ClientServer) Get(ctx context.Context, req *clientkv.GetRequest) (*clientkv.GetResponse, error) {
	val, found, err := s.store.Get(req.Key)
	observeOutcome("Get")(err)
	if err != nil {
		return nil, err
	}
	return &clientkv.GetResponse{Value: val, Found: found}, nil
}

func (s *ClientServer) List(ctx context.Context, req *clientkv.ListRequest) (*clientkv.ListResponse, error) {
	kvs, err := s.store.List(req.Prefix)
	observeOutcome("List")(err)
	if err != nil {
		return nil, err
	}
	items := make([]clientkv.KV, len(kvs))
	for i, kv := range kvs {
		items[i] = clientkv.KV{Key: kv.Key, Value: kv.Value}
	}
	return &clientkv.ListResponse{Items: items}, nil
}

func (s *ClientServer) Delete(ctx context.Context, req *clientkv.DeleteRequest) (*clientkv.DeleteResponse, error) {
	err := s.store.Delete(req.Key)
	observeOutcome("Delete")(err)
	if err != nil {
		return nil, err
	}
	return &clientkv.DeleteResponse{}, nil
}

func (s *ClientServer) DeleteAll(ctx context.Context, req *clientkv.DeleteAllRequest) (*clientkv.DeleteAllResponse, error) {
	err := s.store.DeleteAll()
	observeOutcome("DeleteAll")(err)
	if err != nil {
		return nil, err
	}
	return &clientkv.DeleteAllResponse{}, nil
}

// Watch streams Put/Delete notifications, optionally filtered to a
// single key, until the client disconnects or the stream's context is
// canceled. A DeleteAll notification passes the key filter and reaches
// every watcher.
func (s *ClientServer) Watch(req *clientkv.WatchRequest, stream clientkv.ClientKV_WatchServer) error {
	ch, unsubscribe := s.store.Watch()
	defer unsubscribe()

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			if req.Key != "" && ev.Type != watch.EventDeleteAll && ev.Key != req.Key {
				continue
			}
			out := &clientkv.WatchEvent{Key: ev.Key, Type: string(ev.Type), Value: ev.Value}
			if err := stream.Send(out); err != nil {
				return err
			}
		}
	}
}

func observeOutcome(method string) func(err error) {
	return func(err error) {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.RPCRequestsTotal.WithLabelValues(method, outcome).Inc()
	}
}
