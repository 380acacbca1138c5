package store

import (
	"github.com/hashicorp/raft"
)

// LogID identifies a log entry by the term that created it and its index.
// Indices are dense and unique per leader term once appended (spec
// invariant I1/I3).
type LogID struct {
	Term  uint64 `json:"term"`
	Index uint64 `json:"index"`
}

func logIDFromLog(l *raft.Log) LogID {
	return LogID{Term: l.Term, Index: l.Index}
}

// CommandOp is the closed set of user-level mutations a Command can carry.
type CommandOp string

const (
	CommandPut    CommandOp = "put"
	CommandDelete CommandOp = "delete"
)

// Command is a tagged user-level mutation submitted through the leader,
// replicated, and applied deterministically on every replica.
type Command struct {
	Op    CommandOp `json:"op"`
	Key   string    `json:"key"`
	Value string    `json:"value,omitempty"`
}

// CommandResult is the FSM's response to one applied Command (or to a
// blank LogCommand entry with an empty payload), returned from
// raft.Apply's ApplyFuture for the entry that produced it. Membership
// entries go through StoreConfiguration and produce no CommandResult.
type CommandResult struct {
	Op  CommandOp    `json:"op"`
	Err *ClientError `json:"error,omitempty"`
}

// Vote is the pair (term, voted_for) persisted per replica to prevent
// double-voting across restarts. hashicorp/raft itself never constructs
// this type directly — it reads/writes the three underlying StableStore
// keys (CurrentTerm, LastVoteTerm, LastVoteCand) — but MetaStore composes
// and decomposes it into/from those keys so the typed record spec.md §4.3
// describes has a concrete Go shape.
type Vote struct {
	Term       uint64 `json:"term"`
	VotedForID string `json:"voted_for_id"`
}

// StoredMembership pairs a cluster configuration with the log id at which
// it became effective.
type StoredMembership struct {
	LogID         *LogID             `json:"log_id,omitempty"`
	Configuration raft.Configuration `json:"configuration"`
}

// SnapshotMeta describes a snapshot without its data payload.
type SnapshotMeta struct {
	LastLogID      *LogID           `json:"last_log_id,omitempty"`
	LastMembership StoredMembership `json:"last_membership"`
	ID             string           `json:"id"`
}

// Snapshot is a self-contained point-in-time copy of the state machine.
type Snapshot struct {
	Meta SnapshotMeta `json:"meta"`
	Data []byte       `json:"data"`
}

// SerializableStateMachine is the portable, on-the-wire form of the state
// machine: everything needed to reconstruct sm_data/sm_meta from scratch.
type SerializableStateMachine struct {
	LastAppliedLog *LogID           `json:"last_applied_log,omitempty"`
	LastMembership StoredMembership `json:"last_membership"`
	Data           []KV             `json:"data"`
}

// KV is one ordered key/value pair in a SerializableStateMachine snapshot.
// A slice instead of a map keeps iteration order deterministic (ascending
// key bytes) across encode/decode, per spec.md §4.4.
type KV struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
