package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
strict = true
columns = 16
binary = "out.bin"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Strict)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, 16, cfg.Columns)
	assert.Equal(t, "out.bin", cfg.Binary)
	assert.Equal(t, "v2.0 raw", cfg.Header)
}

func TestLoadDefaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.toml")} {
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	for _, body := range []string{
		"strict = ",
		"colums = 4",
		"columns = -1",
		`columns = "wide"`,
	} {
		_, err := Load(writeConfig(t, body))
		assert.Error(t, err, body)
	}
}
