package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "notebook", cfg.Privacy.Service)
	assert.Equal(t, "notebook.db", filepath.Base(cfg.Database.Path))
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "database:\n  path: /tmp/notes.db\nexport:\n  from: me@example.com\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/notes.db", cfg.Database.Path)
	assert.Equal(t, "me@example.com", cfg.Export.From)
	assert.Equal(t, Default().Log.File, cfg.Log.File)
}

func TestLoad_EnvAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("NOTEBOOK_EXPORT_FROM", "env@example.com")
	t.Setenv("NOTEBOOK_DATABASE_PATH", "/from/env.db")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("db", "", "")
	flags.String("log-file", "", "")
	require.NoError(t, flags.Parse([]string{"--db", "/from/flag.db"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "/from/flag.db", cfg.Database.Path)
	assert.Equal(t, "env@example.com", cfg.Export.From)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("export:\n  from: not-an-address\n"), 0o644))

	_, err := Load(path, nil)
	assert.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Database.Path = "/data/notes.db"
	cfg.Export.From = "saved@example.com"

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
