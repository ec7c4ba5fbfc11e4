package commands

import (
	"os"

	derrors "git.home.luguber.info/inful/sphinxkit/internal/errors"
	"git.home.luguber.info/inful/sphinxkit/internal/gitutil"
)

// PublishCmd copies built documentation onto the pages branch. Meant to run
// in CI on releases; the CI push-action usually handles the actual push.
type PublishCmd struct {
	Path       string `arg:"" default:"." help:"Project path"`
	Repository string `help:"Repository slug (owner/name); defaults to the origin remote"`
	Push       bool   `help:"Commit and push the pages branch" negatable:"" default:"true"`
	Name       string `help:"Package name override"`
}

func (p *PublishCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	proj, err := resolveProject(p.Path, p.Name, cfg)
	if err != nil {
		return err
	}

	buildPath := proj.BuildPath()
	if _, err := os.Stat(buildPath); err != nil {
		return derrors.BuildOutputMissing(buildPath)
	}

	repoURL := ""
	if p.Repository != "" {
		repoURL = gitutil.GitHubURL(p.Repository)
	} else {
		repoURL, err = gitutil.OriginURL(proj.Root)
		if err != nil {
			return derrors.PublishFailed(err)
		}
	}

	publisher := &gitutil.Publisher{
		RepoURL: repoURL,
		Branch:  cfg.PagesBranch,
		Push:    p.Push,
	}
	if err := publisher.Publish(buildPath); err != nil {
		return derrors.PublishFailed(err)
	}
	return nil
}
