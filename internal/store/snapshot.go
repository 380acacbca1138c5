package store

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hashicorp/raft"
)

// SnapshotStore owns the snapshot pipeline. Unlike raft.NewFileSnapshotStore
// (which the repository this package is patterned on uses), there is no
// separate snapshot directory here — spec.md §3 requires every column
// family, snapshots included, to live inside the one embedded store handle,
// so the "snapshot" metadata record in MetaStore is the only place a
// snapshot is ever durable.
type SnapshotStore struct {
	meta *MetaStore
	sm   *StateMachine
	self string // this node's raft.ServerID, used to compose snapshot ids
}

func newSnapshotStore(meta *MetaStore, sm *StateMachine, selfID string) *SnapshotStore {
	return &SnapshotStore{meta: meta, sm: sm, self: selfID}
}

// BuildSnapshot takes a consistent view of the state machine, serializes
// it, allocates the next snapshot_index, and persists {meta, data} as the
// current snapshot record (spec.md §4.5). It must not block writers for
// longer than one StateMachine.SnapshotView call.
func (s *SnapshotStore) BuildSnapshot() (*Snapshot, error) {
	view, err := s.sm.SnapshotView()
	if err != nil {
		return nil, err
	}
	data, err := encodeValue(view)
	if err != nil {
		return nil, writeErr(SubjectStore, err)
	}
	seq, err := s.meta.NextSnapshotIndex()
	if err != nil {
		return nil, err
	}

	id := snapshotID(s.self, view.LastAppliedLog, seq)
	snap := Snapshot{
		Meta: SnapshotMeta{
			LastLogID:      view.LastAppliedLog,
			LastMembership: view.LastMembership,
			ID:             id,
		},
		Data: data,
	}
	if err := s.meta.SaveSnapshotRecord(snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func snapshotID(leaderID string, lastLog *LogID, seq uint64) string {
	if lastLog == nil {
		return fmt.Sprintf("--%d", seq)
	}
	return fmt.Sprintf("%s-%d-%d", leaderID, lastLog.Index, seq)
}

// BeginReceivingSnapshot returns a fresh in-memory byte accumulator for an
// incoming snapshot's bytes (spec.md §4.5). Its Close persists nothing; the
// caller hands the accumulated bytes to InstallSnapshot. hashicorp/raft
// itself receives InstallSnapshot RPC bytes through Create, not here.
func (s *SnapshotStore) BeginReceivingSnapshot() io.WriteCloser {
	return &snapshotSink{buf: &bytes.Buffer{}}
}

// InstallSnapshot deserializes blob, replaces the state machine wholesale,
// then persists the snapshot record — in that order, so a decode failure
// never disturbs the previous snapshot or state machine (spec.md §7).
func (s *SnapshotStore) InstallSnapshot(meta SnapshotMeta, blob []byte) error {
	var view SerializableStateMachine
	if err := decodeValue(blob, &view); err != nil {
		return readErr(SubjectSnapshot(meta.ID), err)
	}
	if err := s.sm.ReplaceFrom(view); err != nil {
		return err
	}
	return s.meta.SaveSnapshotRecord(Snapshot{Meta: meta, Data: blob})
}

// CurrentSnapshot returns the most recently built-or-installed snapshot,
// or nil if none exists yet.
func (s *SnapshotStore) CurrentSnapshot() (*Snapshot, error) {
	return s.meta.CurrentSnapshotRecord()
}

// Create implements raft.SnapshotStore: hashicorp/raft calls this when it
// decides to take a new snapshot. The returned sink accumulates bytes and,
// on Close, persists them as the current snapshot record exactly as
// BuildSnapshot would for a locally-initiated snapshot.
func (s *SnapshotStore) Create(version raft.SnapshotVersion, index, term uint64, configuration raft.Configuration, configurationIndex uint64, trans raft.Transport) (raft.SnapshotSink, error) {
	seq, err := s.meta.NextSnapshotIndex()
	if err != nil {
		return nil, err
	}
	logID := LogID{Term: term, Index: index}
	meta := SnapshotMeta{
		LastLogID: &logID,
		LastMembership: StoredMembership{
			LogID:         &LogID{Index: configurationIndex},
			Configuration: configuration,
		},
		ID: snapshotID(s.self, &logID, seq),
	}
	return &snapshotSink{buf: &bytes.Buffer{}, store: s, meta: meta}, nil
}

// List implements raft.SnapshotStore. Only one snapshot is ever retained,
// so the list holds at most one entry.
func (s *SnapshotStore) List() ([]*raft.SnapshotMeta, error) {
	snap, err := s.CurrentSnapshot()
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, nil
	}
	return []*raft.SnapshotMeta{toRaftSnapshotMeta(snap.Meta, len(snap.Data))}, nil
}

// Open implements raft.SnapshotStore, returning the current snapshot's
// bytes if id matches it.
func (s *SnapshotStore) Open(id string) (*raft.SnapshotMeta, io.ReadCloser, error) {
	snap, err := s.CurrentSnapshot()
	if err != nil {
		return nil, nil, err
	}
	if snap == nil || snap.Meta.ID != id {
		return nil, nil, fmt.Errorf("store: snapshot %q not found", id)
	}
	return toRaftSnapshotMeta(snap.Meta, len(snap.Data)), io.NopCloser(bytes.NewReader(snap.Data)), nil
}

func toRaftSnapshotMeta(meta SnapshotMeta, size int) *raft.SnapshotMeta {
	out := &raft.SnapshotMeta{
		ID:                 meta.ID,
		Configuration:      meta.LastMembership.Configuration,
		ConfigurationIndex: 0,
		Size:               int64(size),
	}
	if meta.LastLogID != nil {
		out.Index = meta.LastLogID.Index
		out.Term = meta.LastLogID.Term
	}
	if meta.LastMembership.LogID != nil {
		out.ConfigurationIndex = meta.LastMembership.LogID.Index
	}
	return out
}

// snapshotSink is the raft.SnapshotSink handed back by Create, and also
// backs BeginReceivingSnapshot's plain accumulator (store is nil there; the
// caller persists via InstallSnapshot instead of Close).
type snapshotSink struct {
	buf   *bytes.Buffer
	store *SnapshotStore
	meta  SnapshotMeta
	id    string
}

func (sink *snapshotSink) Write(p []byte) (int, error) { return sink.buf.Write(p) }

func (sink *snapshotSink) ID() string {
	if sink.store != nil {
		return sink.meta.ID
	}
	return sink.id
}

func (sink *snapshotSink) Cancel() error { return nil }

func (sink *snapshotSink) Close() error {
	if sink.store == nil {
		return nil
	}
	return sink.store.meta.SaveSnapshotRecord(Snapshot{Meta: sink.meta, Data: sink.buf.Bytes()})
}

var _ raft.SnapshotStore = (*SnapshotStore)(nil)
var _ raft.SnapshotSink = (*snapshotSink)(nil)
