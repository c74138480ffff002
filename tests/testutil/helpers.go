// Package testutil locates the module root and its fixtures for tests that
// run from nested package directories.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// RepoRoot is the nearest directory at or above the working directory
// that holds go.mod.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		require.NotEqual(t, dir, parent, "go.mod not found above working directory")
		dir = parent
	}
}

// Fixture joins elem onto the fixtures directory and fails the test when
// the result does not exist.
func Fixture(t *testing.T, elem ...string) string {
	t.Helper()
	path := filepath.Join(append([]string{RepoRoot(t), "fixtures"}, elem...)...)
	_, err := os.Stat(path)
	require.NoError(t, err, "missing fixture %s", path)
	return path
}
