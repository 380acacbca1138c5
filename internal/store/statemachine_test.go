package store

import (
	"testing"

	"github.com/hashicorp/raft"
	"github.com/stretchr/testify/require"
)

// Scenario 1: a single put/get round trip and the resulting applied index.
func TestStateMachine_PutThenGet(t *testing.T) {
	s := openTestStore(t)

	res := s.SM.Apply(newLog(t, 1, 1, putCmd("a", "1")))
	result, ok := res.(*CommandResult)
	require.True(t, ok)
	require.Nil(t, result.Err)

	val, found, err := s.SM.Get("a")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "1", val)

	applied, err := s.SM.LastAppliedLog()
	require.NoError(t, err)
	require.Equal(t, uint64(1), applied.Index)
}

// Scenario 2 (deleting a key that was never written reports key_not_found
// without aborting the batch around it).
func TestStateMachine_DeleteMissingKey_ReportsKeyNotFound(t *testing.T) {
	s := openTestStore(t)

	res := s.SM.Apply(newLog(t, 1, 1, deleteCmd("ghost")))
	result := res.(*CommandResult)
	require.NotNil(t, result.Err)
	require.Equal(t, ErrKeyNotFound, result.Err.Kind)

	// The entry still advanced last_applied_log even though the command
	// itself failed.
	applied, err := s.SM.LastAppliedLog()
	require.NoError(t, err)
	require.Equal(t, uint64(1), applied.Index)
}

func TestStateMachine_Delete(t *testing.T) {
	s := openTestStore(t)

	s.SM.Apply(newLog(t, 1, 1, putCmd("a", "1")))
	res := s.SM.Apply(newLog(t, 2, 1, deleteCmd("a")))
	require.Nil(t, res.(*CommandResult).Err)

	_, found, err := s.SM.Get("a")
	require.NoError(t, err)
	require.False(t, found)
}

func TestStateMachine_NonCommandEntryAdvancesAppliedIndexOnly(t *testing.T) {
	s := openTestStore(t)

	res := s.SM.Apply(&raft.Log{Index: 1, Term: 1, Type: raft.LogNoop})
	require.Nil(t, res)

	applied, err := s.SM.LastAppliedLog()
	require.NoError(t, err)
	require.Equal(t, uint64(1), applied.Index)
}

func TestStateMachine_StoreConfiguration(t *testing.T) {
	s := openTestStore(t)

	cfg := raft.Configuration{
		Servers: []raft.Server{{ID: "node-1", Address: "127.0.0.1:7000", Suffrage: raft.Voter}},
	}
	s.SM.StoreConfiguration(5, cfg)

	membership, err := s.SM.LastMembership()
	require.NoError(t, err)
	require.Equal(t, uint64(5), membership.LogID.Index)
	require.Len(t, membership.Configuration.Servers, 1)

	applied, err := s.SM.LastAppliedLog()
	require.NoError(t, err)
	require.NotNil(t, applied)
	require.Equal(t, uint64(5), applied.Index)
}

// P4 / scenario 3: snapshot_view -> a fresh state machine's replace_from
// reproduces the original exactly.
func TestStateMachine_SnapshotViewAndReplaceFrom_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	s.SM.Apply(newLog(t, 1, 1, putCmd("k1", "v1")))
	s.SM.Apply(newLog(t, 2, 1, putCmd("k2", "v2")))
	s.SM.Apply(newLog(t, 3, 1, deleteCmd("k1")))

	view, err := s.SM.SnapshotView()
	require.NoError(t, err)
	require.Equal(t, []KV{{Key: "k2", Value: "v2"}}, view.Data)

	fresh := openTestStore(t)
	require.NoError(t, fresh.SM.ReplaceFrom(view))

	_, found, err := fresh.SM.Get("k1")
	require.NoError(t, err)
	require.False(t, found)

	val, found, err := fresh.SM.Get("k2")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "v2", val)

	applied, err := fresh.SM.LastAppliedLog()
	require.NoError(t, err)
	require.Equal(t, view.LastAppliedLog.Index, applied.Index)
}

func TestStateMachine_SnapshotView_DeterministicKeyOrder(t *testing.T) {
	s := openTestStore(t)

	s.SM.Apply(newLog(t, 1, 1, putCmd("zebra", "1")))
	s.SM.Apply(newLog(t, 2, 1, putCmd("apple", "2")))
	s.SM.Apply(newLog(t, 3, 1, putCmd("mango", "3")))

	view, err := s.SM.SnapshotView()
	require.NoError(t, err)
	require.Equal(t, []string{"apple", "mango", "zebra"}, []string{view.Data[0].Key, view.Data[1].Key, view.Data[2].Key})
}
