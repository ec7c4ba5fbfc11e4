package toc

import (
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sphinxkit/internal/logfields"
	"git.home.luguber.info/inful/sphinxkit/internal/project"
)

// quickstartContent transcludes the project README so the quickstart guide
// never drifts from it. Committing the generated file is recommended.
const quickstartContent = "```{include} ../../README.md\n```\n"

// EnsureQuickstart generates userguides/quickstart.md when it is missing.
func EnsureQuickstart(proj *project.Project) error {
	userguides := filepath.Join(proj.DocsPath(), project.UserguidesDir)
	quickstart := filepath.Join(userguides, "quickstart.md")

	if _, err := os.Stat(quickstart); err == nil {
		return nil // already exists
	}

	slog.Info("Generating quickstart guide", logfields.File(quickstart))
	if err := os.MkdirAll(userguides, 0o750); err != nil {
		return err
	}
	return os.WriteFile(quickstart, []byte(quickstartContent), 0o644)
}
