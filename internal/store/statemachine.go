package store

import (
	"io"
	"sort"
	"sync"

	"github.com/hashicorp/raft"
	bolt "go.etcd.io/bbolt"

	"github.com/cuemby/raftkv/internal/metrics"
)

// StateMachine owns sm_data and sm_meta: the replicated key/value space and
// the bookkeeping (last applied log id, last membership) needed to resume
// applying entries after a restart without replaying the whole log. It
// implements raft.FSM and, via StoreConfiguration, raft.ConfigurationStore.
//
// Reads take the RWMutex for shared access; Apply and StoreConfiguration
// take it exclusively: a single-writer/many-readers discipline (spec.md
// §4.4).
type StateMachine struct {
	mu sync.RWMutex
	db *bolt.DB
}

func newStateMachine(db *bolt.DB) *StateMachine {
	return &StateMachine{db: db}
}

// Apply applies one replicated log entry and returns a *CommandResult for
// LogCommand entries (a LogCommand with an empty payload is a blank entry
// and yields a successful put result), and nil for anything else, e.g. the
// no-op barrier entry hashicorp/raft appends on each new leader's election.
// A failed bbolt write is reported as an internal error inside the
// CommandResult rather than as the returned value. A decode failure
// on an entry the cluster itself agreed on is treated as corruption and
// panics, per the I3/§7 policy this package applies consistently.
func (m *StateMachine) Apply(l *raft.Log) interface{} {
	if l.Type != raft.LogCommand {
		m.mu.Lock()
		defer m.mu.Unlock()
		if err := m.setLastApplied(logIDFromLog(l)); err != nil {
			return err
		}
		return nil
	}

	if len(l.Data) == 0 {
		m.mu.Lock()
		defer m.mu.Unlock()
		if err := m.setLastApplied(logIDFromLog(l)); err != nil {
			return err
		}
		return &CommandResult{Op: CommandPut}
	}

	var cmd Command
	if err := decodeValue(l.Data, &cmd); err != nil {
		panic("store: undecodable command in committed log entry: " + err.Error())
	}

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.StoreOpDuration.WithLabelValues(string(cmd.Op)))

	m.mu.Lock()
	defer m.mu.Unlock()

	result := CommandResult{Op: cmd.Op}
	err := m.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSMData)
		switch cmd.Op {
		case CommandPut:
			return b.Put([]byte(cmd.Key), []byte(cmd.Value))
		case CommandDelete:
			if b.Get([]byte(cmd.Key)) == nil {
				result.Err = NewKeyNotFoundError()
				return nil
			}
			return b.Delete([]byte(cmd.Key))
		default:
			result.Err = NewInternalError("unknown command op: " + string(cmd.Op))
			return nil
		}
	})
	if err != nil {
		result.Err = NewInternalError(writeErr(SubjectStateMachine, err).Error())
	}
	if err := m.setLastApplied(logIDFromLog(l)); err != nil {
		return err
	}
	return &result
}

// StoreConfiguration records the membership that became effective at
// index, implementing raft.ConfigurationStore. hashicorp/raft calls this
// directly for LogConfiguration entries instead of routing them through
// Apply, so membership changes never show up as a Command (spec.md §4.4).
// Every entry — Blank, Normal, or Membership alike — advances
// last_applied_log (spec.md §4.6 step 2 applies this before the
// type-specific branch), so this also calls setLastApplied, the same as
// the no-op and command branches of Apply above.
func (m *StateMachine) StoreConfiguration(index uint64, configuration raft.Configuration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	membership := StoredMembership{
		LogID:         &LogID{Index: index},
		Configuration: configuration,
	}
	data, err := encodeValue(membership)
	if err != nil {
		return
	}
	_ = m.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSMMeta).Put([]byte(smMetaKeyLastMembership), data)
	})
	_ = m.setLastApplied(LogID{Index: index})
}

// Get reads one key from the locally applied state. It is not a
// linearizable read: it sees exactly the entries this replica has applied
// so far, so on a follower it can return a stale value.
func (m *StateMachine) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var (
		val   []byte
		found bool
	)
	err := m.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketSMData).Get([]byte(key))
		if v != nil {
			val = append([]byte(nil), v...)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, readErr(SubjectStateMachine, err)
	}
	return string(val), found, nil
}

// LastAppliedLog returns the id of the most recently applied entry, or nil
// if nothing has been applied yet.
func (m *StateMachine) LastAppliedLog() (*LogID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastAppliedLocked()
}

func (m *StateMachine) lastAppliedLocked() (*LogID, error) {
	var raw []byte
	err := m.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketSMMeta).Get([]byte(smMetaKeyLastApplied))
		if v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, readErr(SubjectStateMachine, err)
	}
	if raw == nil {
		return nil, nil
	}
	var id LogID
	if err := decodeValue(raw, &id); err != nil {
		return nil, readErr(SubjectStateMachine, err)
	}
	return &id, nil
}

func (m *StateMachine) setLastApplied(id LogID) error {
	data, err := encodeValue(id)
	if err != nil {
		return writeErr(SubjectStateMachine, err)
	}
	err = m.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSMMeta).Put([]byte(smMetaKeyLastApplied), data)
	})
	return writeErr(SubjectStateMachine, err)
}

// LastMembership returns the most recently stored cluster configuration,
// or the zero value if none has been stored yet (a brand new node).
func (m *StateMachine) LastMembership() (StoredMembership, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var raw []byte
	err := m.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketSMMeta).Get([]byte(smMetaKeyLastMembership))
		if v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return StoredMembership{}, readErr(SubjectStateMachine, err)
	}
	if raw == nil {
		return StoredMembership{}, nil
	}
	var membership StoredMembership
	if err := decodeValue(raw, &membership); err != nil {
		return StoredMembership{}, readErr(SubjectStateMachine, err)
	}
	return membership, nil
}

// SnapshotView captures a SerializableStateMachine consistent with a
// single point in time: every key/value pair in sm_data plus the
// last-applied and last-membership markers. The three reads are separate
// bbolt View transactions, all made while holding the read lock, so a
// concurrent Apply or StoreConfiguration cannot tear the view (spec.md
// §4.5).
func (m *StateMachine) SnapshotView() (SerializableStateMachine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out SerializableStateMachine
	err := m.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketSMData).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			out.Data = append(out.Data, KV{Key: string(k), Value: string(v)})
		}
		return nil
	})
	if err != nil {
		return SerializableStateMachine{}, readErr(SubjectStateMachine, err)
	}

	applied, err := m.lastAppliedLocked()
	if err != nil {
		return SerializableStateMachine{}, err
	}
	out.LastAppliedLog = applied

	membership, err := m.lastMembershipLocked()
	if err != nil {
		return SerializableStateMachine{}, err
	}
	out.LastMembership = membership

	sort.Slice(out.Data, func(i, j int) bool { return out.Data[i].Key < out.Data[j].Key })
	return out, nil
}

func (m *StateMachine) lastMembershipLocked() (StoredMembership, error) {
	var raw []byte
	err := m.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketSMMeta).Get([]byte(smMetaKeyLastMembership))
		if v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return StoredMembership{}, readErr(SubjectStateMachine, err)
	}
	if raw == nil {
		return StoredMembership{}, nil
	}
	var membership StoredMembership
	if err := decodeValue(raw, &membership); err != nil {
		return StoredMembership{}, readErr(SubjectStateMachine, err)
	}
	return membership, nil
}

// ReplaceFrom discards the current contents of sm_data/sm_meta and
// replaces them wholesale with snap — the write side of installing a
// snapshot received from a leader or loaded from local disk (spec.md
// §4.5).
func (m *StateMachine) ReplaceFrom(snap SerializableStateMachine) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketSMData); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		data, err := tx.CreateBucket(bucketSMData)
		if err != nil {
			return err
		}
		for _, kv := range snap.Data {
			if err := data.Put([]byte(kv.Key), []byte(kv.Value)); err != nil {
				return err
			}
		}

		if err := tx.DeleteBucket(bucketSMMeta); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		meta, err := tx.CreateBucket(bucketSMMeta)
		if err != nil {
			return err
		}
		if snap.LastAppliedLog != nil {
			raw, err := encodeValue(*snap.LastAppliedLog)
			if err != nil {
				return err
			}
			if err := meta.Put([]byte(smMetaKeyLastApplied), raw); err != nil {
				return err
			}
		}
		raw, err := encodeValue(snap.LastMembership)
		if err != nil {
			return err
		}
		return meta.Put([]byte(smMetaKeyLastMembership), raw)
	})
}

// Snapshot implements raft.FSM by taking an in-memory copy of the current
// state under the read lock and handing back an FSMSnapshot that can be
// persisted without holding up further Apply calls.
func (m *StateMachine) Snapshot() (raft.FSMSnapshot, error) {
	view, err := m.SnapshotView()
	if err != nil {
		return nil, err
	}
	return &fsmSnapshot{view: view}, nil
}

// Restore implements raft.FSM, replacing the whole state machine from a
// stream produced by an fsmSnapshot.Persist (or an installed remote
// snapshot sharing the same encoding).
func (m *StateMachine) Restore(rc io.ReadCloser) error {
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return readErr(SubjectStateMachine, err)
	}
	var snap SerializableStateMachine
	if err := decodeValue(data, &snap); err != nil {
		return readErr(SubjectStateMachine, err)
	}
	return m.ReplaceFrom(snap)
}

type fsmSnapshot struct {
	view SerializableStateMachine
}

func (f *fsmSnapshot) Persist(sink raft.SnapshotSink) error {
	data, err := encodeValue(f.view)
	if err != nil {
		sink.Cancel()
		return err
	}
	if _, err := sink.Write(data); err != nil {
		sink.Cancel()
		return err
	}
	return sink.Close()
}

func (f *fsmSnapshot) Release() {}

var (
	_ raft.FSM                = (*StateMachine)(nil)
	_ raft.ConfigurationStore = (*StateMachine)(nil)
	_ raft.FSMSnapshot        = (*fsmSnapshot)(nil)
)
