// Package singlenode implements the non-replicated deployment shape: a
// bbolt-backed key-value store with no Raft involvement at all, for a
// single process that doesn't need cluster membership.
package singlenode

import (
	"path/filepath"
	"sort"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/cuemby/raftkv/internal/log"
	"github.com/cuemby/raftkv/internal/watch"
)

var bucketData = []byte("data")

const dbFileName = "kv.db"

// Store is a single bbolt database exposing Put/Get/List/Delete/DeleteAll
// and a Watch channel of change notifications, grounded on the kvstore
// variant of this system (no consensus, no replication, one process).
type Store struct {
	mu     sync.RWMutex
	db     *bolt.DB
	broker *watch.Broker
}

// Open creates (if missing) dataDir/kv.db and its single data bucket.
func Open(dataDir string) (*Store, error) {
	path := filepath.Join(dataDir, dbFileName)
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketData)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, broker: watch.NewBroker(0)}, nil
}

// Put writes key=value and publishes a put event to current watchers.
func (s *Store) Put(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketData).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return err
	}
	s.broker.Publish(watch.Event{Key: key, Type: watch.EventPut, Value: value})
	return nil
}

// Get returns the value for key and whether it was present.
func (s *Store) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		val   []byte
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketData).Get([]byte(key))
		if v != nil {
			val = append([]byte(nil), v...)
			found = true
		}
		return nil
	})
	return string(val), found, err
}

// List returns every key/value pair whose key has the given prefix, in
// ascending key order. An empty prefix lists everything.
func (s *Store) List(prefix string) ([]KV, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []KV
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketData).Cursor()
		var k, v []byte
		if prefix == "" {
			k, v = c.First()
		} else {
			k, v = c.Seek([]byte(prefix))
		}
		for ; k != nil; k, v = c.Next() {
			if prefix != "" && !hasPrefix(k, prefix) {
				break
			}
			out = append(out, KV{Key: string(k), Value: string(v)})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func hasPrefix(key []byte, prefix string) bool {
	if len(key) < len(prefix) {
		return false
	}
	return string(key[:len(prefix)]) == prefix
}

// Delete removes key and publishes a delete event. Deleting a key that
// does not exist is not an error (matches bbolt's own Delete semantics).
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketData).Delete([]byte(key))
	})
	if err != nil {
		return err
	}
	s.broker.Publish(watch.Event{Key: key, Type: watch.EventDelete})
	return nil
}

// DeleteAll removes every key in a single bucket-drop rather than walking
// keys one at a time, and broadcasts one coalesced EventDeleteAll instead
// of an event per key.
func (s *Store) DeleteAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketData); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketData)
		return err
	})
	if err != nil {
		return err
	}
	s.broker.Publish(watch.Event{Type: watch.EventDeleteAll})
	return nil
}

// Watch subscribes to change notifications. The returned function must be
// called to release the subscription.
func (s *Store) Watch() (<-chan watch.Event, func()) {
	return s.broker.Subscribe()
}

// Close flushes and releases the underlying database handle.
func (s *Store) Close() error {
	log.WithComponent("singlenode").Info().Msg("closing storage engine")
	return s.db.Close()
}

// KV is one key/value pair returned by List.
type KV struct {
	Key   string
	Value string
}
