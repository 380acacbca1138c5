// Package cluster binds the storage engine in internal/store to a
// hashicorp/raft consensus runtime, giving callers a small surface for
// bootstrapping, joining, and submitting writes to a replicated node.
package cluster

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/hashicorp/raft"

	"github.com/cuemby/raftkv/internal/log"
	"github.com/cuemby/raftkv/internal/metrics"
	"github.com/cuemby/raftkv/internal/store"
)

func encodeCommand(cmd store.Command) ([]byte, error) {
	return json.Marshal(cmd)
}

// NodeConfig is the single configuration record consumed by the
// consensus runtime: node identity, bind address, data directory, and the
// timeouts the teacher tunes for faster failover than hashicorp/raft's
// own (WAN-oriented) defaults.
type NodeConfig struct {
	ID       string
	RaftAddr string
	DataDir  string

	HeartbeatTimeout   time.Duration
	ElectionTimeout    time.Duration
	CommitTimeout      time.Duration
	LeaderLeaseTimeout time.Duration
}

func (c NodeConfig) withDefaults() NodeConfig {
	if c.HeartbeatTimeout == 0 {
		c.HeartbeatTimeout = 500 * time.Millisecond
	}
	if c.ElectionTimeout == 0 {
		c.ElectionTimeout = 500 * time.Millisecond
	}
	if c.CommitTimeout == 0 {
		c.CommitTimeout = 50 * time.Millisecond
	}
	if c.LeaderLeaseTimeout == 0 {
		c.LeaderLeaseTimeout = 250 * time.Millisecond
	}
	return c
}

// Node binds a *store.Store to a *raft.Raft instance.
type Node struct {
	id    string
	cfg   NodeConfig
	store *store.Store
	raft  *raft.Raft
	trans *raft.NetworkTransport
}

// NewNode opens the storage engine at cfg.DataDir and wires it to a fresh
// *raft.Raft instance over a TCP transport bound to cfg.RaftAddr. It does
// not bootstrap or join a cluster; call Bootstrap or Join next.
func NewNode(cfg NodeConfig) (*Node, error) {
	cfg = cfg.withDefaults()

	s, err := store.Open(cfg.DataDir, cfg.ID)
	if err != nil {
		return nil, fmt.Errorf("cluster: open store: %w", err)
	}

	raftConfig := raft.DefaultConfig()
	raftConfig.LocalID = raft.ServerID(cfg.ID)
	raftConfig.HeartbeatTimeout = cfg.HeartbeatTimeout
	raftConfig.ElectionTimeout = cfg.ElectionTimeout
	raftConfig.CommitTimeout = cfg.CommitTimeout
	raftConfig.LeaderLeaseTimeout = cfg.LeaderLeaseTimeout
	raftConfig.Logger = newHCLogAdapter(cfg.ID)

	addr, err := net.ResolveTCPAddr("tcp", cfg.RaftAddr)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("cluster: resolve raft address: %w", err)
	}
	transport, err := raft.NewTCPTransport(cfg.RaftAddr, addr, 3, 10*time.Second, logWriter{component: "raft-transport"})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("cluster: create transport: %w", err)
	}

	r, err := raft.NewRaft(raftConfig, s.SM, s.Logs, s.Meta, s.Snapshot, transport)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("cluster: create raft: %w", err)
	}

	n := &Node{
		id:    cfg.ID,
		cfg:   cfg,
		store: s,
		raft:  r,
		trans: transport,
	}
	return n, nil
}

// Bootstrap initializes a brand new cluster whose only member (initially)
// is this node, matching the teacher's Manager.Bootstrap.
func (n *Node) Bootstrap() error {
	configuration := raft.Configuration{
		Servers: []raft.Server{
			{ID: raft.ServerID(n.id), Address: n.trans.LocalAddr()},
		},
	}
	future := n.raft.BootstrapCluster(configuration)
	if err := future.Error(); err != nil {
		return fmt.Errorf("cluster: bootstrap: %w", err)
	}
	log.WithComponent("cluster").Info().Str("node_id", n.id).Msg("bootstrapped single-node cluster")
	return nil
}

// AddVoter adds id/addr as a new voting member. Only the leader can do
// this; hashicorp/raft itself rejects the call otherwise. The leader-side
// counterpart of a remote node's Join.
func (n *Node) AddVoter(id, addr string) error {
	if !n.IsLeader() {
		return fmt.Errorf("cluster: not the leader, current leader is %s", n.LeaderAddr())
	}
	future := n.raft.AddVoter(raft.ServerID(id), raft.ServerAddress(addr), 0, 10*time.Second)
	if err := future.Error(); err != nil {
		return fmt.Errorf("cluster: add voter %s: %w", id, err)
	}
	return nil
}

// RemoveServer removes id from the cluster's configuration.
func (n *Node) RemoveServer(id string) error {
	if !n.IsLeader() {
		return fmt.Errorf("cluster: not the leader, current leader is %s", n.LeaderAddr())
	}
	future := n.raft.RemoveServer(raft.ServerID(id), 0, 10*time.Second)
	if err := future.Error(); err != nil {
		return fmt.Errorf("cluster: remove server %s: %w", id, err)
	}
	return nil
}

// GetClusterServers returns the current Raft configuration's server list.
func (n *Node) GetClusterServers() ([]raft.Server, error) {
	future := n.raft.GetConfiguration()
	if err := future.Error(); err != nil {
		return nil, fmt.Errorf("cluster: get configuration: %w", err)
	}
	return future.Configuration().Servers, nil
}

// IsLeader reports whether this node currently believes itself the Raft
// leader. Like any such check in a distributed system, this can be stale
// the instant after it returns.
func (n *Node) IsLeader() bool {
	return n.raft.State() == raft.Leader
}

// LeaderAddr returns the current leader's Raft bind address, or "" if
// none is known.
func (n *Node) LeaderAddr() raft.ServerAddress {
	addr, _ := n.raft.LeaderWithID()
	return addr
}

// ID returns this node's raft.ServerID.
func (n *Node) ID() string { return n.id }

// Put submits a Command(put) to the cluster and blocks until it commits,
// returning the FSM's *store.CommandResult for it (spec.md §4.6: "Put /
// Delete: submit Normal(Command) to client_write").
func (n *Node) Put(ctx context.Context, key, value string) (*store.CommandResult, error) {
	return n.apply(ctx, store.Command{Op: store.CommandPut, Key: key, Value: value})
}

// Delete submits a Command(delete) to the cluster and blocks until it
// commits.
func (n *Node) Delete(ctx context.Context, key string) (*store.CommandResult, error) {
	return n.apply(ctx, store.Command{Op: store.CommandDelete, Key: key})
}

func (n *Node) apply(ctx context.Context, cmd store.Command) (*store.CommandResult, error) {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.RaftApplyDuration)

	data, err := encodeCommand(cmd)
	if err != nil {
		return nil, fmt.Errorf("cluster: encode command: %w", err)
	}

	timeout := 10 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	future := n.raft.Apply(data, timeout)
	if err := future.Error(); err != nil {
		return nil, fmt.Errorf("cluster: apply: %w", err)
	}

	resp := future.Response()
	switch v := resp.(type) {
	case *store.CommandResult:
		return v, nil
	case error:
		return nil, v
	default:
		return nil, fmt.Errorf("cluster: unexpected apply response type %T", resp)
	}
}

// Get reads the key directly from the local state machine, bypassing
// Raft entirely. This gives read-your-own-writes on the leader and a
// possibly-stale view on a follower — deliberately, per SPEC_FULL.md's
// resolution of spec.md's read-consistency open question: this system
// does not implement a ReadIndex/lease-read protocol, so a Get is only
// linearizable with respect to entries this particular replica has
// already applied.
func (n *Node) Get(key string) (string, bool, error) {
	return n.store.SM.Get(key)
}

// Stats returns a snapshot of Raft's own view of cluster health, mirrored
// into the runtime's Prometheus gauges as a side effect.
func (n *Node) Stats() map[string]any {
	isLeader := n.IsLeader()
	if isLeader {
		metrics.RaftLeader.Set(1)
	} else {
		metrics.RaftLeader.Set(0)
	}
	metrics.RaftLastLogIndex.Set(float64(n.raft.LastIndex()))
	metrics.RaftAppliedIndex.Set(float64(n.raft.AppliedIndex()))

	raftStats := n.raft.Stats()
	term, _ := strconv.ParseUint(raftStats["term"], 10, 64)
	metrics.RaftTerm.Set(float64(term))

	peers := 0
	if cfg, err := n.GetClusterServers(); err == nil {
		peers = len(cfg)
	}
	metrics.RaftPeersTotal.Set(float64(peers))

	return map[string]any{
		"state":          n.raft.State().String(),
		"term":           term,
		"last_log_index": n.raft.LastIndex(),
		"applied_index":  n.raft.AppliedIndex(),
		"leader":         string(n.LeaderAddr()),
		"peers":          peers,
	}
}

// Shutdown stops the Raft runtime and flushes the storage engine, in that
// order, so no in-flight Apply can race a Close.
func (n *Node) Shutdown(ctx context.Context) error {
	future := n.raft.Shutdown()
	if err := future.Error(); err != nil {
		return fmt.Errorf("cluster: raft shutdown: %w", err)
	}
	if err := n.store.Flush(); err != nil {
		log.WithComponent("cluster").Warn().Err(err).Msg("flush on shutdown failed")
	}
	return n.store.Close()
}
