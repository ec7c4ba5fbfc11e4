package commands

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sphinxkit/internal/config"
	derrors "git.home.luguber.info/inful/sphinxkit/internal/errors"
	"git.home.luguber.info/inful/sphinxkit/internal/history"
	"git.home.luguber.info/inful/sphinxkit/internal/logfields"
	"git.home.luguber.info/inful/sphinxkit/internal/metrics"
	"git.home.luguber.info/inful/sphinxkit/internal/project"
	"git.home.luguber.info/inful/sphinxkit/internal/sphinx"
	"git.home.luguber.info/inful/sphinxkit/internal/toc"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"sphinxkit.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Build documentation for the project at <path>"`
	Serve   ServeCmd   `cmd:"" help:"Serve built documentation over a local HTTP listener"`
	Toc     TocCmd     `cmd:"" help:"Print the assembled table-of-contents without building"`
	Init    InitCmd    `cmd:"" help:"Scaffold the conventional docs directory layout"`
	Check   CheckCmd   `cmd:"" help:"Check built HTML for broken local links"`
	Publish PublishCmd `cmd:"" help:"Publish built documentation to the pages branch"`
	History HistoryCmd `cmd:"" help:"List recent build records"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

// parseLogLevel honors both the verbose flag and SPHINXKIT_LOG_LEVEL.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(os.Getenv("SPHINXKIT_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// loadConfig loads the config file, treating the kong default path as
// optional and an explicitly flagged path as required.
func loadConfig(root *CLI) (*config.Config, error) {
	explicit := root.Config != config.DefaultPath
	return config.Load(root.Config, explicit)
}

// resolveProject resolves path with the name override chain (flag > config).
func resolveProject(path, nameFlag string, cfg *config.Config) (*project.Project, error) {
	name := nameFlag
	if name == "" {
		name = cfg.Name
	}
	return project.Resolve(path, name)
}

// runBuild regenerates the index and invokes the renderer, then records the
// outcome in the history database (best effort: history problems never fail
// a build).
func runBuild(proj *project.Project, mode sphinx.Mode, cfg *config.Config, rec metrics.Recorder) error {
	if err := proj.RequireDocs(); err != nil {
		return err
	}

	if err := toc.EnsureQuickstart(proj); err != nil {
		return derrors.WorkspaceError("generate quickstart", err)
	}

	assembler := toc.NewAssembler(proj, cfg.PluginPrefix, cfg.Title)
	doc, err := assembler.Assemble()
	if err != nil {
		return derrors.Wrap(err, derrors.CategoryBuild, derrors.SeverityFatal, "table-of-contents assembly failed")
	}
	if err := toc.WriteIndex(proj, doc); err != nil {
		return derrors.WorkspaceError("write index", err)
	}

	builder := sphinx.NewBuilder(proj, mode)
	if rec != nil {
		builder.Recorder = rec
	}

	start := time.Now()
	buildErr := builder.Build()
	recordBuild(cfg, proj, mode, buildErr, time.Since(start), start)
	return buildErr
}

func recordBuild(cfg *config.Config, proj *project.Project, mode sphinx.Mode, buildErr error, d time.Duration, start time.Time) {
	if cfg.History.Disable {
		return
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		slog.Debug("History database unavailable", logfields.Error(err))
		return
	}
	defer func() {
		_ = store.Close()
	}()

	outcome := metrics.OutcomeSuccess
	if buildErr != nil {
		outcome = metrics.OutcomeFailed
	}
	_, err = store.Append(context.Background(), history.Record{
		Project:   proj.Name,
		Mode:      string(mode),
		Outcome:   outcome,
		Output:    proj.BuildPath(),
		Duration:  d,
		StartedAt: start,
	})
	if err != nil {
		slog.Debug("Failed to record build history", logfields.Error(err))
	}
}
