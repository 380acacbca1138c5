package store

import (
	"testing"

	"github.com/hashicorp/raft"
	"github.com/stretchr/testify/require"
)

// newLog builds a *raft.Log the way hashicorp/raft itself would for a
// LogCommand entry carrying cmd, or a bare LogCommand entry with no
// payload when cmd is nil.
func newLog(t *testing.T, index, term uint64, cmd *Command) *raft.Log {
	t.Helper()
	l := &raft.Log{Index: index, Term: term, Type: raft.LogCommand}
	if cmd != nil {
		data, err := encodeValue(*cmd)
		require.NoError(t, err)
		l.Data = data
	}
	return l
}

func putCmd(key, value string) *Command {
	return &Command{Op: CommandPut, Key: key, Value: value}
}

func deleteCmd(key string) *Command {
	return &Command{Op: CommandDelete, Key: key}
}
