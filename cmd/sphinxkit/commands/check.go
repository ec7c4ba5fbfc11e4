package commands

import (
	"fmt"
	"os"

	derrors "git.home.luguber.info/inful/sphinxkit/internal/errors"
	"git.home.luguber.info/inful/sphinxkit/internal/linkcheck"
)

// CheckCmd scans previously built HTML for broken local links.
type CheckCmd struct {
	Path string `arg:"" default:"." help:"Project path"`
	Name string `help:"Package name override"`
}

func (c *CheckCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	proj, err := resolveProject(c.Path, c.Name, cfg)
	if err != nil {
		return err
	}

	buildPath := proj.BuildPath()
	if _, err := os.Stat(buildPath); err != nil {
		return derrors.BuildOutputMissing(buildPath)
	}

	broken, err := linkcheck.Scan(buildPath)
	if err != nil {
		return derrors.Wrap(err, derrors.CategoryBuild, derrors.SeverityFatal, "link check failed")
	}

	for _, b := range broken {
		fmt.Println(b)
	}
	if len(broken) > 0 {
		return derrors.New(derrors.CategoryBuild, derrors.SeverityError, "broken links found").
			WithContext("count", len(broken))
	}

	fmt.Println("No broken local links found")
	return nil
}
