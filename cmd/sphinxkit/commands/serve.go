package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/sphinxkit/internal/logfields"
	"git.home.luguber.info/inful/sphinxkit/internal/metrics"
	"git.home.luguber.info/inful/sphinxkit/internal/serve"
	"git.home.luguber.info/inful/sphinxkit/internal/sphinx"
	"git.home.luguber.info/inful/sphinxkit/internal/watch"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Path         string        `arg:"" default:"." help:"Project path"`
	Host         string        `help:"Listen host (default from config)"`
	Port         int           `help:"Listen port (default from config)"`
	Open         bool          `help:"Open page in browser"`
	Watch        bool          `help:"Rebuild when the docs directory changes"`
	RebuildEvery time.Duration `name:"rebuild-every" help:"Rebuild on a fixed interval (e.g. 10m); 0 disables"`
	Metrics      bool          `help:"Expose Prometheus metrics on /metrics"`
	Name         string        `help:"Package name override"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	proj, err := resolveProject(s.Path, s.Name, cfg)
	if err != nil {
		return err
	}

	host := s.Host
	if host == "" {
		host = cfg.Serve.Host
	}
	port := s.Port
	if port == 0 {
		port = cfg.Serve.Port
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var prom *metrics.PrometheusRecorder
	if s.Metrics || cfg.Serve.Metrics {
		prom = metrics.NewPrometheusRecorder(nil)
		recorder = prom
	}

	rebuild := func() error {
		return runBuild(proj, sphinx.ModeLatest, cfg, recorder)
	}

	// Build first when there is nothing to serve yet but the docs sources
	// are present. Serving an empty tree is a ServeFailed, not a listener.
	if _, statErr := os.Stat(proj.BuildPath()); os.IsNotExist(statErr) && proj.HasDocs {
		slog.Info("No build output found, building first", logfields.Project(proj.Name))
		if err := rebuild(); err != nil {
			return err
		}
	}

	opts := serve.Options{
		Host:       host,
		Port:       port,
		Recorder:   recorder,
		Prometheus: prom,
	}
	if s.Open {
		// Launch the browser only once the listener is bound.
		baseURL := fmt.Sprintf("http://%s:%d/", host, port)
		opts.OnReady = func() {
			serve.OpenBrowser(serve.BrowseURL(baseURL, proj.BuildPath()))
		}
	}

	server, err := serve.New(proj.BuildPath(), opts)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if s.Watch {
		watcher := watch.NewWatcher(proj.DocsPath(), rebuild)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				slog.Error("Docs watcher stopped", logfields.Error(err))
			}
		}()
	}

	if s.RebuildEvery > 0 {
		scheduler, err := watch.NewScheduler(s.RebuildEvery, rebuild)
		if err != nil {
			return err
		}
		scheduler.Start(ctx)
	}

	return server.ListenAndServe(ctx)
}
