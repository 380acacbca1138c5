package store

import (
	"encoding/binary"

	"github.com/hashicorp/raft"
	bolt "go.etcd.io/bbolt"
)

// MetaStore owns the meta bucket: replica-local bookkeeping that must
// survive a restart but is never replicated — the current term, the last
// vote cast, the log purge watermark, and the snapshot pointer. It
// implements raft.StableStore directly.
type MetaStore struct {
	db *bolt.DB
}

func newMetaStore(db *bolt.DB) *MetaStore {
	return &MetaStore{db: db}
}

// Set stores an opaque key/value pair, part of raft.StableStore.
func (s *MetaStore) Set(key, val []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMeta).Put(key, val)
	})
	return writeErr(SubjectVote, err)
}

// Get retrieves an opaque key's value, part of raft.StableStore.
func (s *MetaStore) Get(key []byte) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketMeta).Get(key)
		if v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, readErr(SubjectVote, err)
	}
	if out == nil {
		return nil, nil
	}
	return out, nil
}

// SetUint64 is a convenience wrapper hashicorp/raft uses for its own
// CurrentTerm/LastVoteTerm bookkeeping.
func (s *MetaStore) SetUint64(key []byte, val uint64) error {
	return s.Set(key, uint64ToBytes(val))
}

// GetUint64 is the read counterpart of SetUint64. Missing keys read as 0,
// matching hashicorp/raft's own expectations for a fresh store.
func (s *MetaStore) GetUint64(key []byte) (uint64, error) {
	v, err := s.Get(key)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, nil
	}
	return bytesToUint64(v), nil
}

// ReadVote composes the typed Vote record (spec.md §4.3) out of the three
// underlying StableStore keys hashicorp/raft actually writes.
func (s *MetaStore) ReadVote() (*Vote, error) {
	term, err := s.GetUint64([]byte(metaKeyCurrentTerm))
	if err != nil {
		return nil, err
	}
	voteTerm, err := s.GetUint64([]byte(metaKeyLastVoteTerm))
	if err != nil {
		return nil, err
	}
	candBytes, err := s.Get([]byte(metaKeyLastVoteCand))
	if err != nil {
		return nil, err
	}
	if term == 0 && voteTerm == 0 && candBytes == nil {
		return nil, nil
	}
	return &Vote{Term: voteTerm, VotedForID: string(candBytes)}, nil
}

// SaveVote decomposes a Vote back into the three StableStore keys. Used by
// tests and by any code seeding a store outside of hashicorp/raft's own
// election path.
func (s *MetaStore) SaveVote(v Vote) error {
	if err := s.SetUint64([]byte(metaKeyLastVoteTerm), v.Term); err != nil {
		return err
	}
	return s.Set([]byte(metaKeyLastVoteCand), []byte(v.VotedForID))
}

// LastPurgedLogID returns the highest log id ever purged via PurgeUpto, or
// nil if the log has never been purged.
func (s *MetaStore) LastPurgedLogID() (*LogID, error) {
	raw, err := s.Get([]byte(metaKeyLastPurgedLog))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var id LogID
	if err := decodeValue(raw, &id); err != nil {
		return nil, readErr(SubjectLogs, err)
	}
	return &id, nil
}

// SetLastPurgedLogID persists the purge watermark. LogStore.PurgeUpto calls
// this before deleting the corresponding range (spec invariant: the
// watermark is durable before the data it describes is gone).
func (s *MetaStore) SetLastPurgedLogID(id LogID) error {
	data, err := encodeValue(id)
	if err != nil {
		return writeErr(SubjectLogs, err)
	}
	return s.Set([]byte(metaKeyLastPurgedLog), data)
}

// NextSnapshotIndex returns a monotonically increasing counter used to
// name successive local snapshots (spec.md §4.5), incrementing it as a
// side effect.
func (s *MetaStore) NextSnapshotIndex() (uint64, error) {
	var next uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		cur := uint64(0)
		if v := b.Get([]byte(metaKeySnapshotIndex)); v != nil {
			cur = bytesToUint64(v)
		}
		next = cur + 1
		return b.Put([]byte(metaKeySnapshotIndex), uint64ToBytes(next))
	})
	if err != nil {
		return 0, writeErr(SubjectStore, err)
	}
	return next, nil
}

// CurrentSnapshotRecord returns the most recently saved Snapshot (meta and
// data together), or nil if none has been saved yet.
func (s *MetaStore) CurrentSnapshotRecord() (*Snapshot, error) {
	raw, err := s.Get([]byte(metaKeySnapshotRecord))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var snap Snapshot
	if err := decodeValue(raw, &snap); err != nil {
		return nil, readErr(SubjectSnapshot(snap.Meta.ID), err)
	}
	return &snap, nil
}

// SaveSnapshotRecord persists the latest snapshot (meta and data
// together) so a restart can find it without rescanning a snapshot
// directory — there isn't one; it lives in this same bbolt handle.
func (s *MetaStore) SaveSnapshotRecord(snap Snapshot) error {
	data, err := encodeValue(snap)
	if err != nil {
		return writeErr(SubjectSnapshot(snap.Meta.ID), err)
	}
	return s.Set([]byte(metaKeySnapshotRecord), data)
}

func uint64ToBytes(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

func bytesToUint64(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}

var _ raft.StableStore = (*MetaStore)(nil)
