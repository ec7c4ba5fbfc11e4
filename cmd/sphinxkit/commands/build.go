package commands

import (
	"fmt"

	"git.home.luguber.info/inful/sphinxkit/internal/sphinx"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Path string `arg:"" default:"." help:"Project path"`
	Mode string `help:"Build mode: latest or release (GitHub event names also accepted)" default:"latest"`
	Name string `help:"Package name override (defaults to GITHUB_REPO or project metadata)"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	proj, err := resolveProject(b.Path, b.Name, cfg)
	if err != nil {
		return err
	}

	mode := sphinx.ParseMode(b.Mode)
	fmt.Printf("Building '%s' '%s'.\n", proj.Name, mode)

	if err := runBuild(proj, mode, cfg, nil); err != nil {
		return err
	}

	fmt.Println("Build completed successfully")
	return nil
}
