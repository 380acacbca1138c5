package store

import (
	"io"
	"testing"

	"github.com/hashicorp/raft"
	"github.com/stretchr/testify/require"
)

// Scenario 3: build then install on a fresh store yields an identical
// state machine.
func TestSnapshotStore_BuildThenInstall_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	s.SM.Apply(newLog(t, 1, 1, putCmd("k1", "v1")))
	s.SM.Apply(newLog(t, 2, 1, putCmd("k2", "v2")))
	s.SM.Apply(newLog(t, 3, 1, deleteCmd("k1")))

	built, err := s.Snapshot.BuildSnapshot()
	require.NoError(t, err)
	require.NotNil(t, built.Meta.LastLogID)
	require.Equal(t, uint64(3), built.Meta.LastLogID.Index)

	fresh := openTestStore(t)
	require.NoError(t, fresh.Snapshot.InstallSnapshot(built.Meta, built.Data))

	_, found, err := fresh.SM.Get("k1")
	require.NoError(t, err)
	require.False(t, found)

	val, found, err := fresh.SM.Get("k2")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "v2", val)

	applied, err := fresh.SM.LastAppliedLog()
	require.NoError(t, err)
	require.Equal(t, built.Meta.LastLogID.Index, applied.Index)
}

func TestSnapshotStore_InstallSnapshot_BadBlobLeavesPreviousIntact(t *testing.T) {
	s := openTestStore(t)
	s.SM.Apply(newLog(t, 1, 1, putCmd("k1", "v1")))
	built, err := s.Snapshot.BuildSnapshot()
	require.NoError(t, err)

	err = s.Snapshot.InstallSnapshot(built.Meta, []byte("not json"))
	require.Error(t, err)

	// the state machine is untouched
	val, found, err := s.SM.Get("k1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "v1", val)

	// and the snapshot record still points at the last good snapshot
	current, err := s.Snapshot.CurrentSnapshot()
	require.NoError(t, err)
	require.Equal(t, built.Meta.ID, current.Meta.ID)
}

func TestSnapshotStore_BeginReceivingSnapshot_AccumulatesBytes(t *testing.T) {
	s := openTestStore(t)
	sink := s.Snapshot.BeginReceivingSnapshot()

	_, err := sink.Write([]byte("hello "))
	require.NoError(t, err)
	_, err = sink.Write([]byte("world"))
	require.NoError(t, err)
	require.NoError(t, sink.Close())
}

func TestSnapshotStore_RaftCreateAndOpen(t *testing.T) {
	s := openTestStore(t)
	s.SM.Apply(newLog(t, 1, 1, putCmd("a", "1")))

	sink, err := s.Snapshot.Create(1, 1, 1, raft.Configuration{}, 0, nil)
	require.NoError(t, err)
	_, err = sink.Write([]byte(`{"data":[]}`))
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	metas, err := s.Snapshot.List()
	require.NoError(t, err)
	require.Len(t, metas, 1)

	_, rc, err := s.Snapshot.Open(metas[0].ID)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, `{"data":[]}`, string(data))
}
