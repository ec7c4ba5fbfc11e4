package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/sphinxkit/internal/errors"
)

func TestResolveMissingPath(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "nope"), "")
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryNotFound))
}

func TestResolveWithoutDocs(t *testing.T) {
	root := t.TempDir()
	proj, err := Resolve(root, "mypkg")
	require.NoError(t, err)

	assert.False(t, proj.HasDocs)
	assert.Equal(t, "mypkg", proj.Name)
	require.Error(t, proj.RequireDocs())
	assert.True(t, derrors.IsCategory(proj.RequireDocs(), derrors.CategoryNotFound))
}

func TestResolveLayoutFlags(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs", "userguides"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs", "methoddocs"), 0o750))

	proj, err := Resolve(root, "mypkg")
	require.NoError(t, err)

	assert.True(t, proj.HasDocs)
	assert.True(t, proj.HasUserguides)
	assert.False(t, proj.HasCommands)
	assert.True(t, proj.HasMethoddocs)
	require.NoError(t, proj.RequireDocs())
}

func TestOutputPaths(t *testing.T) {
	root := t.TempDir()
	proj, err := Resolve(root, "ape")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "docs"), proj.DocsPath())
	assert.Equal(t, filepath.Join(root, "docs", "_build"), proj.BuildPath())
	assert.Equal(t, filepath.Join(root, "docs", "_build", "ape", "latest"), proj.LatestPath())
	assert.Equal(t, filepath.Join(root, "docs", "_build", "ape", "stable"), proj.StablePath())
	assert.Equal(t, filepath.Join(root, "docs", "index.rst"), proj.IndexPath())
}
