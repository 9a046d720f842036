package utils

import (
	"path/filepath"
	"strings"
)

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	parentDir = filepath.Dir(fullPath)

	return fullPath, parentDir, nil
}

// DefaultOutputPath returns in with its extension replaced by ext, which
// includes the leading dot.
func DefaultOutputPath(in, ext string) string {
	return strings.TrimSuffix(in, filepath.Ext(in)) + ext
}

// Sibling returns the path of name in the directory holding path.
func Sibling(path, name string) (string, error) {
	_, dir, err := GetPathInfo(path)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
