package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/eringen/pubsite"
	"github.com/eringen/pubsite/content"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	setupLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		slog.Error("pubsite failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "":
		return withApp(func(a *pubsite.App) error { return a.Publish(ctx) })
	case "preview":
		return withApp(func(a *pubsite.App) error { return a.Preview(ctx) })
	case "import":
		return withApp(func(a *pubsite.App) error { return runImport(ctx, a) })
	case "new":
		if len(args) < 2 {
			return fmt.Errorf("usage: pubsite new <directory>")
		}
		return runNew(args[1])
	case "version":
		fmt.Printf("pubsite %s\n", version)
		return nil
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func withApp(fn func(*pubsite.App) error) error {
	cfg, err := pubsite.LoadConfig("")
	if err != nil {
		return err
	}
	app := pubsite.New(cfg)
	defer app.Close()
	return fn(app)
}

// runImport copies the content directory into the SQLite database named by
// content_db.
func runImport(ctx context.Context, a *pubsite.App) error {
	if a.Config.ContentDB == "" {
		return fmt.Errorf("import requires content_db to be set")
	}
	site, err := content.NewDirSource(a.Config.ContentDir, a.Config.MarkdownRenderer()).Load(ctx, a.Config.Metadata())
	if err != nil {
		return &pubsite.IngestionError{Source: a.Config.ContentDir, Err: err}
	}
	store, err := pubsite.NewStore(a.Config.ContentDB)
	if err != nil {
		return err
	}
	a.Store = store
	n, err := store.Import(ctx, site)
	if err != nil {
		return fmt.Errorf("pubsite: import: %w", err)
	}
	slog.Info("Import complete", "entries", n, "database", a.Config.ContentDB)
	return nil
}

func setupLogger() {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("PUBSITE_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func printUsage() {
	fmt.Println(`pubsite - A static blog builder with git deployment

Usage:
  pubsite [command]

Commands:
  (none)        Build the site and deploy it to the configured git branch
  preview       Build and serve the site locally, rebuilding on changes
  import        Copy the content directory into the content_db database
  new <dir>     Create a new site skeleton
  version       Print the pubsite version
  help          Show this help message

Configuration is read from pubsite.yaml (or $PUBSITE_CONFIG), .env and
PUBSITE_* environment variables.`)
}
