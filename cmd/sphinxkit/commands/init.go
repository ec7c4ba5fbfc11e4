package commands

import (
	"fmt"
	"os"
	"path/filepath"

	derrors "git.home.luguber.info/inful/sphinxkit/internal/errors"
	"git.home.luguber.info/inful/sphinxkit/internal/project"
	"git.home.luguber.info/inful/sphinxkit/internal/toc"
)

// InitCmd scaffolds the conventional docs layout.
type InitCmd struct {
	Path  string `arg:"" default:"." help:"Project path"`
	Force bool   `help:"Overwrite an existing generated index.rst"`
	Name  string `help:"Package name override"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	proj, err := resolveProject(i.Path, i.Name, cfg)
	if err != nil {
		return err
	}

	for _, dir := range []string{project.UserguidesDir, project.CommandsDir, project.MethoddocsDir} {
		if err := os.MkdirAll(filepath.Join(proj.DocsPath(), dir), 0o750); err != nil {
			return derrors.WorkspaceError("scaffold docs", err)
		}
	}

	if err := toc.EnsureQuickstart(proj); err != nil {
		return derrors.WorkspaceError("generate quickstart", err)
	}

	if _, err := os.Stat(proj.IndexPath()); err == nil && i.Force {
		if err := os.Remove(proj.IndexPath()); err != nil {
			return derrors.WorkspaceError("remove index", err)
		}
	}

	// Re-resolve so the subfolders just created show up in the layout flags.
	proj, err = resolveProject(i.Path, i.Name, cfg)
	if err != nil {
		return err
	}

	assembler := toc.NewAssembler(proj, cfg.PluginPrefix, cfg.Title)
	doc, err := assembler.Assemble()
	if err != nil {
		return err
	}
	if err := toc.WriteIndex(proj, doc); err != nil {
		return derrors.WorkspaceError("write index", err)
	}

	fmt.Printf("Initialized docs layout for '%s' at %s\n", proj.Name, proj.DocsPath())
	return nil
}
