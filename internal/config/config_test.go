package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_NonexistentFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nodeId: node-7\nraftAddr: 10.0.0.5:7000\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "node-7", cfg.NodeID)
	require.Equal(t, "10.0.0.5:7000", cfg.RaftAddr)
	require.Equal(t, Default().DataDir, cfg.DataDir)
}

func TestValidate_RequiresCoreFields(t *testing.T) {
	cfg := Default()
	cfg.NodeID = ""
	require.Error(t, cfg.Validate())
}
