package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcin-skalski/gitme/internal/config"
)

func TestAddAndRemoveRepo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, run([]string{"add-repo", "acme/widgets", "--config", path, "--path", "/src/widgets"}))
	require.NoError(t, run([]string{"add-repo", "acme/gadgets", "--config", path}))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Repositories, 2)
	assert.Equal(t, config.RepoConfig{Owner: "acme", Name: "widgets", SystemPath: "/src/widgets"}, cfg.Repositories[0])

	err = run([]string{"add-repo", "ACME/Widgets", "--config", path})
	assert.ErrorContains(t, err, "already configured")

	require.NoError(t, run([]string{"remove-repo", "acme/widgets", "--config", path}))
	cfg, err = config.Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Repositories, 1)
	assert.Equal(t, "acme/gadgets", cfg.Repositories[0].FullName())

	err = run([]string{"remove-repo", "acme/widgets", "--config", path})
	assert.ErrorContains(t, err, "not configured")
}

func TestAddRepo_Usage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	assert.Error(t, run([]string{"add-repo", "--config", path}))
	assert.Error(t, run([]string{"add-repo", "not-a-repo", "--config", path}))
	assert.Error(t, run([]string{"remove-repo", "--config", path}))
}

func TestRun_RejectsMissingConfig(t *testing.T) {
	err := run([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml"), "--no-tui"})
	assert.ErrorContains(t, err, "read config")
}
