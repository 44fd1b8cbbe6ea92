package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url = "https://chat.example.test/"
theme = "light"
word_wrap = 72

[log]
level = "debug"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://chat.example.test", cfg.BaseURL)
	require.Equal(t, "light", cfg.Theme)
	require.Equal(t, 72, cfg.WordWrap)
	require.Equal(t, "debug", cfg.Log.Level)
	require.True(t, cfg.Sidebar)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`base_url = "http://file.test"`), 0o644))
	t.Setenv(EnvBaseURL, "http://env.test:9000")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://env.test:9000", cfg.BaseURL)
}

func TestLoad_InvalidBaseURL(t *testing.T) {
	t.Setenv(EnvBaseURL, "localhost:8000")
	_, err := Load("")
	require.Error(t, err)
}

func TestLoad_BadTOML(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`base_url = `), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	want := Default()
	want.Theme = "catppuccin"
	want.Sidebar = false
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
