// Package gitutil wraps the go-git operations sphinxkit needs: release-tag
// resolution for release builds and gh-pages publishing.
package gitutil

import (
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// LatestTag returns the most recent tag of the repository at repoPath,
// judged by the commit time of the tagged commit. Annotated and lightweight
// tags are both considered.
func LatestTag(repoPath string) (string, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return "", fmt.Errorf("open repository: %w", err)
	}

	iter, err := repo.Tags()
	if err != nil {
		return "", fmt.Errorf("list tags: %w", err)
	}

	var (
		latest     string
		latestTime time.Time
	)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		commit, err := resolveTagCommit(repo, ref)
		if err != nil {
			// Skip unresolvable tags rather than failing the build.
			return nil
		}
		if latest == "" || commit.Committer.When.After(latestTime) {
			latest = ref.Name().Short()
			latestTime = commit.Committer.When
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("iterate tags: %w", err)
	}

	if latest == "" {
		return "", fmt.Errorf("repository has no tags")
	}
	return latest, nil
}

// resolveTagCommit resolves a tag ref to its commit, handling both
// annotated tag objects and lightweight tags.
func resolveTagCommit(repo *git.Repository, ref *plumbing.Reference) (*object.Commit, error) {
	if tagObj, err := repo.TagObject(ref.Hash()); err == nil {
		return tagObj.Commit()
	}
	return repo.CommitObject(ref.Hash())
}

// OriginURL returns the first URL of the origin remote of the repository at
// repoPath.
func OriginURL(repoPath string) (string, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return "", fmt.Errorf("open repository: %w", err)
	}
	remote, err := repo.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("resolve origin remote: %w", err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("origin remote has no URL")
	}
	return urls[0], nil
}
