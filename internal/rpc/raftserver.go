package rpc

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"

	"github.com/cuemby/raftkv/internal/cluster"
	"github.com/cuemby/raftkv/internal/log"
	"github.com/cuemby/raftkv/internal/rpc/raftkv"
)

// RaftServer serves the RaftKV service on top of a Raft-replicated Node.
// Write RPCs go through consensus (ensureLeader rejects them otherwise,
// the way the teacher's pkg/api/server.go ensureLeader gate works); Get
// answers from the local state machine.
type RaftServer struct {
	raftkv.UnimplementedRaftKVServer
	node *cluster.Node
	grpc *grpc.Server
}

func NewRaftServer(node *cluster.Node) *RaftServer {
	s := &RaftServer{node: node, grpc: grpc.NewServer()}
	raftkv.RegisterRaftKVServer(s.grpc, s)
	return s
}

func (s *RaftServer) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("rpc: listen on %s: %w", addr, err)
	}
	log.WithComponent("rpc").Info().Str("addr", addr).Msg("raftkv gRPC server listening")
	return s.grpc.Serve(lis)
}

func (s *RaftServer) Stop() {
	s.grpc.GracefulStop()
}

func (s *RaftServer) ensureLeader() error {
	if !s.node.IsLeader() {
		leader := s.node.LeaderAddr()
		if leader == "" {
			return fmt.Errorf("rpc: no leader elected yet")
		}
		return fmt.Errorf("rpc: not the leader, current leader is at %s", leader)
	}
	return nil
}

func (s *RaftServer) Put(ctx context.Context, req *raftkv.PutRequest) (*raftkv.PutResponse, error) {
	if err := s.ensureLeader(); err != nil {
		return &raftkv.PutResponse{Success: false, Error: err.Error()}, nil
	}
	res, err := s.node.Put(ctx, req.Key, req.Value)
	if err != nil {
		return &raftkv.PutResponse{Success: false, Error: err.Error()}, nil
	}
	if res.Err != nil {
		return &raftkv.PutResponse{Success: false, Error: res.Err.Error()}, nil
	}
	return &raftkv.PutResponse{Success: true}, nil
}

func (s *RaftServer) Get(ctx context.Context, req *raftkv.GetRequest) (*raftkv.GetResponse, error) {
	val, found, err := s.node.Get(req.Key)
	if err != nil {
		return &raftkv.GetResponse{Error: err.Error()}, nil
	}
	return &raftkv.GetResponse{Value: val, Found: found}, nil
}

func (s *RaftServer) Delete(ctx context.Context, req *raftkv.DeleteRequest) (*raftkv.DeleteResponse, error) {
	if err := s.ensureLeader(); err != nil {
		return &raftkv.DeleteResponse{Success: false, Error: err.Error()}, nil
	}
	res, err := s.node.Delete(ctx, req.Key)
	if err != nil {
		return &raftkv.DeleteResponse{Success: false, Error: err.Error()}, nil
	}
	if res.Err != nil {
		return &raftkv.DeleteResponse{Success: false, Error: res.Err.Error()}, nil
	}
	return &raftkv.DeleteResponse{Success: true}, nil
}

// JoinCluster lets a remote node request membership. Only the leader can
// add a voter, mirroring the teacher's AddVoter gate.
func (s *RaftServer) JoinCluster(ctx context.Context, req *raftkv.JoinClusterRequest) (*raftkv.JoinClusterResponse, error) {
	if err := s.node.AddVoter(req.NodeID, req.RaftAddr); err != nil {
		return &raftkv.JoinClusterResponse{Success: false, Error: err.Error()}, nil
	}
	return &raftkv.JoinClusterResponse{Success: true}, nil
}

func (s *RaftServer) ClusterStatus(ctx context.Context, req *raftkv.ClusterStatusRequest) (*raftkv.ClusterStatusResponse, error) {
	stats := s.node.Stats()
	servers, err := s.node.GetClusterServers()
	if err != nil {
		return nil, err
	}
	out := make([]raftkv.Server, len(servers))
	for i, srv := range servers {
		out[i] = raftkv.Server{ID: string(srv.ID), Address: string(srv.Address), Suffrage: srv.Suffrage.String()}
	}
	return &raftkv.ClusterStatusResponse{
		State:        stats["state"].(string),
		Leader:       stats["leader"].(string),
		Term:         stats["term"].(uint64),
		LastLogIndex: stats["last_log_index"].(uint64),
		AppliedIndex: stats["applied_index"].(uint64),
		Servers:      out,
	}, nil
}
