package gitutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/sphinxkit/internal/logfields"
	"git.home.luguber.info/inful/sphinxkit/internal/workspace"
)

// Publisher copies built documentation onto the pages branch.
type Publisher struct {
	// RepoURL is the clone URL of the repository whose pages branch
	// receives the docs.
	RepoURL string
	// Branch is the pages branch name (usually gh-pages).
	Branch string
	// Push controls whether the commit is pushed. CI typically leaves this
	// off and pushes with its own credentials.
	Push bool
}

// Publish clones the pages branch, copies every built package tree plus the
// redirect index from buildPath, touches .nojekyll, commits, and optionally
// pushes.
func (p *Publisher) Publish(buildPath string) error {
	cloneDir, err := os.MkdirTemp("", "sphinxkit-pages-*")
	if err != nil {
		return fmt.Errorf("create clone directory: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(cloneDir)
	}()

	slog.Info("Cloning pages branch", logfields.URL(p.RepoURL), slog.String("branch", p.Branch))
	repo, err := git.PlainClone(cloneDir, false, &git.CloneOptions{
		URL:           p.RepoURL,
		ReferenceName: plumbing.NewBranchReferenceName(p.Branch),
		SingleBranch:  true,
	})
	if err != nil {
		return fmt.Errorf("clone %s branch: %w", p.Branch, err)
	}

	if err := p.copyBuiltDocs(buildPath, cloneDir); err != nil {
		return err
	}

	// GitHub Pages must not run the output through Jekyll.
	nojekyll := filepath.Join(cloneDir, ".nojekyll")
	if err := os.WriteFile(nojekyll, nil, 0o644); err != nil {
		return fmt.Errorf("write .nojekyll: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("stage docs: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return fmt.Errorf("read worktree status: %w", err)
	}
	if status.IsClean() {
		slog.Info("Pages branch already up to date")
		return nil
	}

	commit, err := wt.Commit("Update documentation", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "sphinxkit",
			Email: "sphinxkit@noreply.local",
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("commit docs: %w", err)
	}
	slog.Info("Committed documentation update", slog.String("commit", commit.String()))

	if !p.Push {
		return nil
	}
	if err := repo.Push(&git.PushOptions{}); err != nil {
		return fmt.Errorf("push %s branch: %w", p.Branch, err)
	}
	slog.Info("Pushed pages branch", slog.String("branch", p.Branch))
	return nil
}

// copyBuiltDocs copies the per-package trees (each carrying its own redirect
// index), skipping hidden entries and doctest output.
func (p *Publisher) copyBuiltDocs(buildPath, cloneDir string) error {
	entries, err := os.ReadDir(buildPath)
	if err != nil {
		return fmt.Errorf("read build output: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") || name == "doctest" {
			continue
		}
		if err := workspace.CopyDir(filepath.Join(buildPath, name), filepath.Join(cloneDir, name)); err != nil {
			return fmt.Errorf("copy %s: %w", name, err)
		}
	}
	return nil
}

// GitHubURL builds a clone URL from an "owner/name" repository slug.
func GitHubURL(slug string) string {
	return "https://github.com/" + slug
}
