package store

import (
	"encoding/json"

	"github.com/hashicorp/raft"
	bolt "go.etcd.io/bbolt"
)

// LogStore owns the logs bucket: an append-only, index-keyed Raft log.
// It implements raft.LogStore directly so a *LogStore can be handed
// straight to raft.NewRaft, and additionally exposes the spec-named
// operations (ReadRange, Append, DeleteConflictSince, PurgeUpto, LogState)
// for direct testing and for use by the rest of this package.
type LogStore struct {
	db   *bolt.DB
	meta *MetaStore
}

func newLogStore(db *bolt.DB, meta *MetaStore) *LogStore {
	return &LogStore{db: db, meta: meta}
}

// FirstIndex returns the lowest index stored in the log, or 0 if empty.
func (s *LogStore) FirstIndex() (uint64, error) {
	var idx uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketLogs).Cursor()
		if k, _ := c.First(); k != nil {
			idx = decodeIndex(k)
		}
		return nil
	})
	return idx, err
}

// LastIndex returns the highest index stored in the log, or 0 if empty.
func (s *LogStore) LastIndex() (uint64, error) {
	var idx uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketLogs).Cursor()
		if k, _ := c.Last(); k != nil {
			idx = decodeIndex(k)
		}
		return nil
	})
	return idx, err
}

// GetLog fills out with the entry at index, or raft.ErrLogNotFound.
func (s *LogStore) GetLog(index uint64, out *raft.Log) error {
	return s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketLogs).Get(encodeIndex(index))
		if v == nil {
			return raft.ErrLogNotFound
		}
		return decodeLog(v, out)
	})
}

// StoreLog persists a single entry. Implemented in terms of StoreLogs so
// both go through one code path.
func (s *LogStore) StoreLog(l *raft.Log) error {
	return s.StoreLogs([]*raft.Log{l})
}

// StoreLogs appends entries atomically under their index keys (spec.md
// §4.2 Append). Every written key is observable by a subsequent read on
// this store as soon as this call returns, because it is one bbolt
// transaction.
func (s *LogStore) StoreLogs(logs []*raft.Log) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLogs)
		for _, l := range logs {
			key := encodeIndex(l.Index)
			// Decode assertion (I3): a key must round-trip to the index
			// the entry itself claims.
			if decodeIndex(key) != l.Index {
				panic("store: log index/key mismatch")
			}
			data, err := encodeLog(l)
			if err != nil {
				return err
			}
			if err := b.Put(key, data); err != nil {
				return err
			}
		}
		return nil
	})
	return writeErr(SubjectLogs, err)
}

// DeleteRange satisfies raft.LogStore. hashicorp/raft calls this both to
// trim the oldest entries after a snapshot (a "purge", min == the log's
// current first index) and to truncate a conflicting suffix during
// follower log repair (a "conflict delete", min is the first index being
// overwritten by the leader). The two have different durability
// requirements (spec.md §4.2), so this method tells them apart and
// delegates.
func (s *LogStore) DeleteRange(min, max uint64) error {
	first, err := s.FirstIndex()
	if err != nil {
		return err
	}
	if first == 0 || min <= first {
		return s.PurgeUpto(LogID{Index: max})
	}
	return s.DeleteConflictSince(LogID{Index: min})
}

// ReadRange returns the entries whose indices fall in [first, last),
// ascending, stopping at the first index outside that range (P1).
// Decode failures yield a Logs/Read StorageError; a key/index mismatch on
// read (I3 violated) panics, mirroring the corruption-is-fatal policy
// spec.md §7 calls for.
func (s *LogStore) ReadRange(first, last uint64) ([]*raft.Log, error) {
	var out []*raft.Log
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketLogs).Cursor()
		for k, v := c.Seek(encodeIndex(first)); k != nil; k, v = c.Next() {
			idx := decodeIndex(k)
			if idx >= last {
				break
			}
			var l raft.Log
			if err := decodeLog(v, &l); err != nil {
				return err
			}
			if l.Index != idx {
				panic("store: decoded log index does not match its key")
			}
			out = append(out, &l)
		}
		return nil
	})
	if err != nil {
		return nil, readErr(SubjectLogs, err)
	}
	return out, nil
}

// Append writes each entry atomically under its index key (spec.md §4.2).
func (s *LogStore) Append(logs []*raft.Log) error {
	return s.StoreLogs(logs)
}

// DeleteConflictSince removes [id.Index, +inf) from the log — used when a
// follower discovers its log conflicts with the leader's (P3).
func (s *LogStore) DeleteConflictSince(id LogID) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLogs)
		c := b.Cursor()
		var toDelete [][]byte
		for k, _ := c.Seek(encodeIndex(id.Index)); k != nil; k, _ = c.Next() {
			key := make([]byte, len(k))
			copy(key, k)
			toDelete = append(toDelete, key)
		}
		for _, k := range toDelete {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	return writeErr(SubjectLogs, err)
}

// PurgeUpto persists last_purged_log_id in the meta store before
// range-deleting [0, id.Index] from the log (P2). The ordering is
// mandatory: a crash between the two writes must never be observable as
// purged data without the marker that says so (spec.md §4.2/§5).
func (s *LogStore) PurgeUpto(id LogID) error {
	if err := s.meta.SetLastPurgedLogID(id); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLogs)
		c := b.Cursor()
		var toDelete [][]byte
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			if decodeIndex(k) > id.Index {
				break
			}
			key := make([]byte, len(k))
			copy(key, k)
			toDelete = append(toDelete, key)
		}
		for _, k := range toDelete {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	return writeErr(SubjectLogs, err)
}

// LogState returns the log's purge watermark and its highest log id,
// falling back to the purge watermark when the log is empty (spec.md
// §4.2; see SPEC_FULL.md Open Question 4 for why this fallback is safe).
func (s *LogStore) LogState() (lastPurged *LogID, lastLog *LogID, err error) {
	lastPurged, err = s.meta.LastPurgedLogID()
	if err != nil {
		return nil, nil, err
	}

	var last *raft.Log
	txErr := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketLogs).Cursor()
		k, v := c.Last()
		if k == nil {
			return nil
		}
		var l raft.Log
		if err := decodeLog(v, &l); err != nil {
			return err
		}
		last = &l
		return nil
	})
	if txErr != nil {
		return nil, nil, readErr(SubjectLogs, txErr)
	}

	if last == nil {
		return lastPurged, lastPurged, nil
	}
	id := logIDFromLog(last)
	return lastPurged, &id, nil
}

func encodeLog(l *raft.Log) ([]byte, error) {
	return json.Marshal(l)
}

func decodeLog(data []byte, out *raft.Log) error {
	return json.Unmarshal(data, out)
}

var _ raft.LogStore = (*LogStore)(nil)
