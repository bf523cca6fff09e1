package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, "fundtrack.db", cfg.DBPath)
}

func TestLoadReadsYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fundtrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: /tmp/test.db\nenvironment: development\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/test.db", cfg.DBPath)
	require.Equal(t, "development", cfg.Environment)
}

func TestLoadRejectsMalformedYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fundtrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: [unclosed"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadEmptyDBPathFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fundtrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte("environment: production\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "fundtrack.db", cfg.DBPath)
}
