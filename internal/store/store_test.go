package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), "node-1")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_CreatesAllBuckets(t *testing.T) {
	s := openTestStore(t)

	first, err := s.Logs.FirstIndex()
	require.NoError(t, err)
	require.Zero(t, first)

	last, err := s.Logs.LastIndex()
	require.NoError(t, err)
	require.Zero(t, last)

	applied, err := s.SM.LastAppliedLog()
	require.NoError(t, err)
	require.Nil(t, applied)

	snap, err := s.Snapshot.CurrentSnapshot()
	require.NoError(t, err)
	require.Nil(t, snap)
}

func TestOpen_RecoversAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir, "node-1")
	require.NoError(t, err)
	require.NoError(t, s1.Logs.StoreLog(newLog(t, 1, 1, putCmd("a", "1"))))
	require.NoError(t, s1.Close())

	s2, err := Open(dir, "node-1")
	require.NoError(t, err)
	defer s2.Close()

	last, err := s2.Logs.LastIndex()
	require.NoError(t, err)
	require.Equal(t, uint64(1), last)
}

func TestClose_IsIdempotent(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestFlush_AfterCloseErrors(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Close())
	require.Error(t, s.Flush())
}
