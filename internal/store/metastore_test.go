package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetaStore_SetGet_RoundTrips(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Meta.Set([]byte("k"), []byte("v")))
	v, err := s.Meta.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)

	v, err = s.Meta.Get([]byte("missing"))
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestMetaStore_Uint64RoundTrips(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Meta.SetUint64([]byte(metaKeyCurrentTerm), 7))
	term, err := s.Meta.GetUint64([]byte(metaKeyCurrentTerm))
	require.NoError(t, err)
	require.Equal(t, uint64(7), term)

	term, err = s.Meta.GetUint64([]byte("never-set"))
	require.NoError(t, err)
	require.Zero(t, term)
}

func TestMetaStore_Vote(t *testing.T) {
	s := openTestStore(t)

	v, err := s.Meta.ReadVote()
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, s.Meta.SaveVote(Vote{Term: 3, VotedForID: "node-2"}))

	v, err = s.Meta.ReadVote()
	require.NoError(t, err)
	require.Equal(t, uint64(3), v.Term)
	require.Equal(t, "node-2", v.VotedForID)
}

func TestMetaStore_NextSnapshotIndex_Increments(t *testing.T) {
	s := openTestStore(t)

	first, err := s.Meta.NextSnapshotIndex()
	require.NoError(t, err)
	second, err := s.Meta.NextSnapshotIndex()
	require.NoError(t, err)

	require.Equal(t, first+1, second)
}

func TestMetaStore_LastPurgedLogID(t *testing.T) {
	s := openTestStore(t)

	id, err := s.Meta.LastPurgedLogID()
	require.NoError(t, err)
	require.Nil(t, id)

	require.NoError(t, s.Meta.SetLastPurgedLogID(LogID{Term: 2, Index: 10}))
	id, err = s.Meta.LastPurgedLogID()
	require.NoError(t, err)
	require.Equal(t, uint64(10), id.Index)
	require.Equal(t, uint64(2), id.Term)
}
