package sphinx

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/sphinxkit/internal/errors"
	"git.home.luguber.info/inful/sphinxkit/internal/project"
)

// fakeRender stands in for sphinx-build: it drops a build.txt into the
// staging directory.
func fakeRender(_ string, dstPath string) error {
	if err := os.MkdirAll(dstPath, 0o750); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dstPath, "build.txt"), []byte("built"), 0o644)
}

func newBuildProject(t *testing.T) *project.Project {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0o750))
	proj, err := project.Resolve(root, "ape")
	require.NoError(t, err)
	return proj
}

func newFakeBuilder(proj *project.Project, mode Mode, tag string) *Builder {
	b := NewBuilder(proj, mode)
	b.Run = fakeRender
	b.LatestTag = func(string) (string, error) { return tag, nil }
	return b
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		in   string
		want Mode
	}{
		{"latest", ModeLatest},
		{"release", ModeRelease},
		{"RELEASE", ModeRelease},
		{"buildmode.release", ModeRelease},
		{"buildmode.latest", ModeLatest},
		{"pull_request", ModeLatest},
		{"push", ModeLatest},
		{"", ModeLatest},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseMode(tc.in), "input %q", tc.in)
	}
}

func TestBuildLatest(t *testing.T) {
	proj := newBuildProject(t)
	b := newFakeBuilder(proj, ModeLatest, "")

	require.NoError(t, b.Build())

	assert.FileExists(t, filepath.Join(proj.LatestPath(), "build.txt"))

	// Redirect points at latest when no stable exists.
	content, err := os.ReadFile(filepath.Join(proj.PackageBuildPath(), "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "URL=./latest/")
}

func TestBuildRedirectTargetResolves(t *testing.T) {
	proj := newBuildProject(t)
	b := newFakeBuilder(proj, ModeLatest, "")

	require.NoError(t, b.Build())

	content, err := os.ReadFile(filepath.Join(proj.PackageBuildPath(), "index.html"))
	require.NoError(t, err)

	// The redirect target must exist next to the index that references it.
	m := regexp.MustCompile(`URL=\./([^/"]+)/`).FindStringSubmatch(string(content))
	require.NotNil(t, m, "redirect page carries no URL target")
	assert.DirExists(t, filepath.Join(proj.PackageBuildPath(), m[1]))
}

func TestBuildRelease(t *testing.T) {
	proj := newBuildProject(t)
	b := newFakeBuilder(proj, ModeRelease, "v1.0.0")

	require.NoError(t, b.Build())

	assert.FileExists(t, filepath.Join(proj.PackageBuildPath(), "v1.0.0", "build.txt"))
	assert.FileExists(t, filepath.Join(proj.StablePath(), "build.txt"))
	assert.FileExists(t, filepath.Join(proj.LatestPath(), "build.txt"))

	// Redirect prefers stable once it exists.
	content, err := os.ReadFile(filepath.Join(proj.PackageBuildPath(), "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "URL=./stable/")
}

func TestBuildAlphaReleaseSkipsTagDir(t *testing.T) {
	for _, subTag := range []string{"alpha", "beta"} {
		t.Run(subTag, func(t *testing.T) {
			proj := newBuildProject(t)
			tag := "v1.0.0" + subTag
			b := newFakeBuilder(proj, ModeRelease, tag)

			require.NoError(t, b.Build())

			assert.NoFileExists(t, filepath.Join(proj.PackageBuildPath(), tag, "build.txt"))
			assert.FileExists(t, filepath.Join(proj.StablePath(), "build.txt"))
			assert.FileExists(t, filepath.Join(proj.LatestPath(), "build.txt"))
		})
	}
}

func TestBuildReleasePrunesFontDirs(t *testing.T) {
	proj := newBuildProject(t)
	b := newFakeBuilder(proj, ModeRelease, "v2.0.0")
	b.Run = func(src, dst string) error {
		if err := fakeRender(src, dst); err != nil {
			return err
		}
		return os.MkdirAll(filepath.Join(dst, "static", "fonts"), 0o750)
	}

	require.NoError(t, b.Build())

	assert.NoDirExists(t, filepath.Join(proj.PackageBuildPath(), "v2.0.0", "static", "fonts"))
	// stable/latest copies keep whatever the tag dir had after pruning.
	assert.NoDirExists(t, filepath.Join(proj.StablePath(), "static", "fonts"))
}

func TestBuildReleaseWithoutTag(t *testing.T) {
	proj := newBuildProject(t)
	b := NewBuilder(proj, ModeRelease)
	b.Run = fakeRender
	b.LatestTag = func(string) (string, error) { return "", os.ErrNotExist }

	err := b.Build()
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryBuild))
}

func TestBuildWithoutDocs(t *testing.T) {
	proj, err := project.Resolve(t.TempDir(), "ape")
	require.NoError(t, err)

	b := newFakeBuilder(proj, ModeLatest, "")
	err = b.Build()
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryNotFound))
}

func TestBuildIdempotent(t *testing.T) {
	proj := newBuildProject(t)
	b := newFakeBuilder(proj, ModeLatest, "")

	require.NoError(t, b.Build())
	first, err := os.ReadFile(filepath.Join(proj.PackageBuildPath(), "index.html"))
	require.NoError(t, err)

	require.NoError(t, b.Build())
	second, err := os.ReadFile(filepath.Join(proj.PackageBuildPath(), "index.html"))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}
