// Package sphinx drives the external renderer: build modes, the release
// output tree (latest/stable/tag), and the redirect index page.
package sphinx

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	derrors "git.home.luguber.info/inful/sphinxkit/internal/errors"
	"git.home.luguber.info/inful/sphinxkit/internal/gitutil"
	"git.home.luguber.info/inful/sphinxkit/internal/logfields"
	"git.home.luguber.info/inful/sphinxkit/internal/metrics"
	"git.home.luguber.info/inful/sphinxkit/internal/project"
	"git.home.luguber.info/inful/sphinxkit/internal/workspace"
)

// Mode selects the output layout of a build.
type Mode string

const (
	// ModeLatest builds into <name>/latest. Triggered by pushes to the
	// default branch and by local development.
	ModeLatest Mode = "latest"
	// ModeRelease builds the tagged release tree and refreshes stable/ and
	// latest/. Triggered by release events.
	ModeRelease Mode = "release"
)

// ParseMode maps a CLI value or GitHub event name onto a Mode. Anything that
// is not recognizably a release maps to latest.
func ParseMode(s string) Mode {
	// Tolerate qualified values like "buildmode.release".
	if i := strings.LastIndex(s, "."); i >= 0 {
		s = s[i+1:]
	}
	if strings.EqualFold(s, string(ModeRelease)) {
		return ModeRelease
	}
	return ModeLatest
}

// redirectHTML is the content of the _build/index.html redirect page.
const redirectHTML = `
<!DOCTYPE html>
<meta charset="utf-8">
<title>Redirecting...</title>
<meta http-equiv="refresh" content="0; URL=./%s/">
`

// Builder renders a project's documentation into its _build tree.
type Builder struct {
	Proj *project.Project
	Mode Mode

	// Run invokes the renderer; defaults to RunSphinxBuild. Tests inject a
	// fake here.
	Run func(srcDir, dstPath string) error
	// LatestTag resolves the release tag; defaults to gitutil.LatestTag.
	LatestTag func(repoPath string) (string, error)
	// Recorder receives build metrics; defaults to the noop recorder.
	Recorder metrics.Recorder
}

// NewBuilder creates a Builder with production defaults.
func NewBuilder(proj *project.Project, mode Mode) *Builder {
	return &Builder{
		Proj:      proj,
		Mode:      mode,
		Run:       RunSphinxBuild,
		LatestTag: gitutil.LatestTag,
		Recorder:  metrics.NoopRecorder{},
	}
}

// Build renders the documentation according to the configured mode and
// (re)writes the redirect index.
func (b *Builder) Build() error {
	if err := b.Proj.RequireDocs(); err != nil {
		return err
	}
	slog.Info("Building documentation", logfields.Project(b.Proj.Name), logfields.Mode(string(b.Mode)))

	start := time.Now()
	err := b.buildMode()
	b.Recorder.ObserveBuildDuration(time.Since(start))
	if err != nil {
		b.Recorder.IncBuildOutcome(metrics.OutcomeFailed)
		return err
	}
	b.Recorder.IncBuildOutcome(metrics.OutcomeSuccess)

	return b.setupRedirect()
}

func (b *Builder) buildMode() error {
	switch b.Mode {
	case ModeLatest:
		return b.renderInto(b.Proj.LatestPath())
	case ModeRelease:
		return b.buildRelease()
	default:
		return derrors.New(derrors.CategoryBuild, derrors.SeverityFatal, "unsupported build mode").
			WithContext("mode", string(b.Mode))
	}
}

// buildRelease renders the tagged release tree. Alpha and beta tags only
// refresh stable/ and latest/; real tags additionally get their own
// directory.
func (b *Builder) buildRelease() error {
	tag, err := b.LatestTag(b.Proj.Root)
	if err != nil {
		return derrors.ReleaseTagMissing(err)
	}
	slog.Info("Building release documentation", logfields.Project(b.Proj.Name), logfields.Tag(tag))

	if strings.Contains(tag, "alpha") || strings.Contains(tag, "beta") {
		if err := b.renderInto(b.Proj.StablePath()); err != nil {
			return err
		}
		return replaceTreeOrWorkspaceErr(b.Proj.StablePath(), b.Proj.LatestPath())
	}

	tagDir := filepath.Join(b.Proj.PackageBuildPath(), tag)
	if err := b.renderInto(tagDir); err != nil {
		return err
	}

	// Nested fonts/ directories are duplicated per release; one copy under
	// latest/ is enough.
	if err := pruneFontDirs(tagDir); err != nil {
		return derrors.WorkspaceError("prune fonts", err)
	}

	for _, dst := range []string{b.Proj.StablePath(), b.Proj.LatestPath()} {
		if err := replaceTreeOrWorkspaceErr(tagDir, dst); err != nil {
			return err
		}
	}
	return nil
}

// renderInto stages the render in an ephemeral workspace and replaces dst
// only on success.
func (b *Builder) renderInto(dst string) error {
	ws := workspace.NewManager("")
	if err := ws.Create(); err != nil {
		return derrors.WorkspaceError("create", err)
	}
	defer func() {
		if err := ws.Cleanup(); err != nil {
			slog.Warn("Failed to cleanup workspace", logfields.Error(err))
		}
	}()

	stage, err := ws.CreateSubdir("render")
	if err != nil {
		return derrors.WorkspaceError("stage", err)
	}

	if err := b.Run(b.Proj.DocsPath(), stage); err != nil {
		return err
	}
	return replaceTreeOrWorkspaceErr(stage, dst)
}

// setupRedirect writes _build/<name>/index.html pointing at the stable/
// sibling when it exists, else latest/. Local dev and brand-new docs sites
// have no stable yet.
func (b *Builder) setupRedirect() error {
	buildPath := b.Proj.PackageBuildPath()
	if err := os.MkdirAll(buildPath, 0o750); err != nil {
		return derrors.WorkspaceError("create build directory", err)
	}

	redirect := project.LatestDirName
	if st, err := os.Stat(b.Proj.StablePath()); err == nil && st.IsDir() {
		redirect = project.StableDirName
	}

	indexFile := filepath.Join(buildPath, "index.html")
	content := fmt.Sprintf(redirectHTML, redirect)
	if err := os.WriteFile(indexFile, []byte(content), 0o644); err != nil {
		return derrors.WorkspaceError("write redirect", err)
	}
	return nil
}

func replaceTreeOrWorkspaceErr(src, dst string) error {
	if err := workspace.ReplaceTree(src, dst); err != nil {
		return derrors.WorkspaceError("replace tree", err)
	}
	return nil
}

func pruneFontDirs(root string) error {
	var fontDirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && d.Name() == "fonts" && path != root {
			fontDirs = append(fontDirs, path)
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, dir := range fontDirs {
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
	}
	return nil
}
