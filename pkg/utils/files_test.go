package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPathInfo(t *testing.T) {
	full, dir, err := GetPathInfo(filepath.Join("progs", "..", "progs", "boot.asm"))
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(full))
	assert.Equal(t, "boot.asm", filepath.Base(full))
	assert.Equal(t, "progs", filepath.Base(dir))
	assert.Equal(t, dir, filepath.Dir(full))
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		in, ext, want string
	}{
		{"boot.asm", ".txt", "boot.txt"},
		{"dir/boot.asm", ".bin", "dir/boot.bin"},
		{"noext", ".txt", "noext.txt"},
		{"a.b.asm", ".txt", "a.b.txt"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, DefaultOutputPath(tc.in, tc.ext), tc.in)
	}
}

func TestSibling(t *testing.T) {
	got, err := Sibling(filepath.Join("src", "main.asm"), "lsc8asm.toml")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, filepath.Join("src", "lsc8asm.toml"), filepath.Join(filepath.Base(filepath.Dir(got)), filepath.Base(got)))
}
