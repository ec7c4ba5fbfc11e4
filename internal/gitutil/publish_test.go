package gitutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyBuiltDocs(t *testing.T) {
	buildPath := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(buildPath, "ape", "latest"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(buildPath, "ape", "index.html"), []byte("redirect"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(buildPath, "ape", "latest", "index.html"), []byte("docs"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(buildPath, ".doctrees"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(buildPath, "doctest"), 0o750))

	cloneDir := t.TempDir()
	p := &Publisher{}
	require.NoError(t, p.copyBuiltDocs(buildPath, cloneDir))

	// The per-package redirect rides along with the package tree.
	assert.FileExists(t, filepath.Join(cloneDir, "ape", "index.html"))
	assert.FileExists(t, filepath.Join(cloneDir, "ape", "latest", "index.html"))
	assert.NoDirExists(t, filepath.Join(cloneDir, ".doctrees"))
	assert.NoDirExists(t, filepath.Join(cloneDir, "doctest"))
}
