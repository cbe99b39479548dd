// Package pubsite builds a static blog from a content source and publishes it
// to a git branch.
//
// A build loads a content.Site, composes one view per page with the views
// package, serialises each view through templ into <output>/<path>/index.html
// and adds a sitemap, an optional RSS feed and the site's resources. Output is
// written to a staging directory and swapped into place only when every page
// succeeded.
package pubsite

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubsite/content"
	"github.com/eringen/pubsite/deploy"
	"github.com/eringen/pubsite/views"
)

// App is the central pubsite application. It wires together the content
// source, the view composer, the output writers and the deployer.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo // preview server, set by Preview
	Store  *Store     // open when the source is the SQLite database

	source   content.Source
	deployer deploy.Deployer
	style    views.Style
	logger   *slog.Logger
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		style:  views.DefaultStyle(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Build runs one full pass from content ingestion to written output.
func (a *App) Build(ctx context.Context) error {
	if err := a.Config.Validate(); err != nil {
		return err
	}
	start := time.Now()
	a.logger.Info("Build started", "output", a.Config.OutputDir)

	src, err := a.contentSource()
	if err != nil {
		return err
	}
	site, err := src.Load(ctx, a.Config.Metadata())
	if err != nil {
		return &IngestionError{Source: sourceName(src), Err: err}
	}
	a.logger.Info("Content loaded",
		"items", len(site.Items()),
		"pages", len(site.Pages()),
		"tags", len(site.Tags()))

	stage, err := beginStaging(a.Config.OutputDir)
	if err != nil {
		return err
	}
	defer stage.abort(a.logger)

	targets := Enumerate(site)
	if err := a.writePages(ctx, site, targets, stage.dir); err != nil {
		return err
	}
	if err := writeSitemap(stage.dir, a.Config.URL, targets); err != nil {
		return err
	}
	if err := writeFeed(stage.dir, a.Config, site.Items()); err != nil {
		return err
	}
	if err := copyResources(a.Config.ResourcesDir, stage.dir, a.Config.MaxImageWidth); err != nil {
		return err
	}
	if err := stage.promote(a.logger); err != nil {
		return err
	}

	a.logger.Info("Build complete",
		"pages", len(targets),
		"output", a.Config.OutputDir,
		"duration", time.Since(start).Round(time.Millisecond))
	return nil
}

// Publish builds the site and deploys the output directory. A deployment
// failure leaves the freshly written output in place. There are no retries.
func (a *App) Publish(ctx context.Context) error {
	if err := a.Build(ctx); err != nil {
		return err
	}
	if a.deployer == nil {
		if a.Config.Deploy.Remote == "" {
			a.logger.Info("Deploy skipped: no remote configured")
			return nil
		}
		d, err := deploy.NewGitDeployer(a.Config.Deploy.gitConfig(), a.logger)
		if err != nil {
			return &deploy.DeploymentError{Remote: a.Config.Deploy.Remote, Branch: a.Config.Deploy.Branch, Err: err}
		}
		a.deployer = d
	}
	return a.deployer.Deploy(ctx, a.Config.OutputDir)
}

// Close releases the SQLite store if one was opened.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// contentSource returns the configured source, opening the SQLite store when
// content_db is set and falling back to the content directory otherwise.
func (a *App) contentSource() (content.Source, error) {
	if a.source != nil {
		return a.source, nil
	}
	if a.Config.ContentDB != "" {
		store, err := NewStore(a.Config.ContentDB)
		if err != nil {
			return nil, &IngestionError{Source: a.Config.ContentDB, Err: err}
		}
		a.Store = store
		a.source = store
		return store, nil
	}
	a.source = content.NewDirSource(a.Config.ContentDir, a.Config.MarkdownRenderer())
	return a.source, nil
}

func sourceName(src content.Source) string {
	if s, ok := src.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", src)
}

func (d DeployConfig) gitConfig() deploy.Config {
	return deploy.Config{
		Remote:      d.Remote,
		Branch:      d.Branch,
		AuthType:    d.Auth.Type,
		KeyPath:     d.Auth.KeyPath,
		Username:    d.Auth.Username,
		Token:       d.Auth.Token,
		AuthorName:  d.AuthorName,
		AuthorEmail: d.AuthorEmail,
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
