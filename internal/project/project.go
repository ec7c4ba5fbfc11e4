// Package project resolves a package root into its documentation layout.
//
// A project follows the shared family convention: a docs/ directory holding
// up to three conventional subfolders (userguides/, commands/, methoddocs/)
// plus a generated index.rst, with rendered output under docs/_build/.
// Any of the subfolders may be absent; absence maps to an omitted TOC
// section, never an error.
package project

import (
	"os"
	"path/filepath"

	derrors "git.home.luguber.info/inful/sphinxkit/internal/errors"
)

// Conventional directory names under docs/.
const (
	DocsDirName   = "docs"
	BuildDirName  = "_build"
	UserguidesDir = "userguides"
	CommandsDir   = "commands"
	MethoddocsDir = "methoddocs"
	IndexFileName = "index.rst"
	LatestDirName = "latest"
	StableDirName = "stable"
)

// Project describes a resolved package root and its docs layout.
type Project struct {
	Root string // absolute package root
	Name string // package name (branding, output subtree)

	HasDocs       bool
	HasUserguides bool
	HasCommands   bool
	HasMethoddocs bool
}

// Resolve validates basePath and probes the conventional docs layout.
// It fails with a NotFound error when basePath does not exist; a missing
// docs/ directory is acceptable (the project is resolvable, not buildable).
func Resolve(basePath, nameOverride string) (*Project, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, derrors.ProjectNotFound(basePath)
	}

	st, err := os.Stat(abs)
	if err != nil || !st.IsDir() {
		return nil, derrors.ProjectNotFound(abs)
	}

	p := &Project{Root: abs}
	p.Name = resolveName(abs, nameOverride)

	docs := p.DocsPath()
	if st, err := os.Stat(docs); err == nil && st.IsDir() {
		p.HasDocs = true
		p.HasUserguides = isDir(filepath.Join(docs, UserguidesDir))
		p.HasCommands = isDir(filepath.Join(docs, CommandsDir))
		p.HasMethoddocs = isDir(filepath.Join(docs, MethoddocsDir))
	}

	return p, nil
}

// DocsPath returns the docs source directory.
func (p *Project) DocsPath() string {
	return filepath.Join(p.Root, DocsDirName)
}

// BuildPath returns the root of the rendered output tree (docs/_build).
func (p *Project) BuildPath() string {
	return filepath.Join(p.DocsPath(), BuildDirName)
}

// PackageBuildPath returns the per-package output tree (docs/_build/<name>).
func (p *Project) PackageBuildPath() string {
	return filepath.Join(p.BuildPath(), p.Name)
}

// LatestPath returns docs/_build/<name>/latest.
func (p *Project) LatestPath() string {
	return filepath.Join(p.PackageBuildPath(), LatestDirName)
}

// StablePath returns docs/_build/<name>/stable.
func (p *Project) StablePath() string {
	return filepath.Join(p.PackageBuildPath(), StableDirName)
}

// IndexPath returns docs/index.rst.
func (p *Project) IndexPath() string {
	return filepath.Join(p.DocsPath(), IndexFileName)
}

// RequireDocs returns a NotFound error unless docs/ exists.
func (p *Project) RequireDocs() error {
	if !p.HasDocs {
		return derrors.DocsNotFound(p.DocsPath())
	}
	return nil
}

func isDir(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}
