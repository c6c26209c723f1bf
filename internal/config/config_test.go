package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	opts, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "data", opts.DataDir)
	assert.True(t, opts.Persistence)
	assert.Empty(t, opts.UsersFile)
	assert.Equal(t, "plain", opts.CredentialScheme)
	assert.Equal(t, "info", opts.LogLevel)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clinic.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"data_dir: /var/lib/clinic\npersistence: false\nusers_file: users.txt\ncredential_scheme: sha256\nlog_level: debug\n",
	), 0o644))

	opts, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/clinic", opts.DataDir)
	assert.False(t, opts.Persistence)
	assert.Equal(t, "users.txt", opts.UsersFile)
	assert.Equal(t, "sha256", opts.CredentialScheme)
	assert.Equal(t, "debug", opts.LogLevel)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	opts, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "data", opts.DataDir)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CLINIC_DATA_DIR", "/tmp/clinic-env")

	opts, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/clinic-env", opts.DataDir)
}

func TestLoadBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clinic.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: [unclosed\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
