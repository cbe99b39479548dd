package pubsite

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const rebuildDelay = 300 * time.Millisecond

// Preview builds the site against a local base URL, serves the output
// directory and rebuilds whenever a file under the content or resources
// directory changes. It returns when ctx is cancelled.
func (a *App) Preview(ctx context.Context) error {
	a.Config.URL = localURL(a.Config.PreviewAddr)
	if err := a.Build(ctx); err != nil {
		return err
	}

	a.Echo = echo.New()
	a.Echo.HideBanner = true
	a.Echo.HidePort = true
	a.setupPreview()

	watcher, err := a.newWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	rebuildReq, trigger := newDebouncer(rebuildDelay)
	go a.rebuildLoop(ctx, rebuildReq)
	go a.watchLoop(ctx, watcher, trigger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Echo.Start(a.Config.PreviewAddr)
	}()
	a.logger.Info("Preview server listening", "url", a.Config.URL)

	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down preview server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.Echo.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("pubsite: preview server: %w", err)
	}
}

// setupPreview installs the middleware chain and the static file handler
// serving the output directory.
func (a *App) setupPreview() {
	a.setupMiddleware()
	a.Echo.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Root:  a.Config.OutputDir,
		Index: "index.html",
	}))
}

// localURL returns the base URL pages link to while previewing on addr.
func localURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://localhost:8000"
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func (a *App) newWatcher() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("pubsite: fsnotify: %w", err)
	}
	roots := []string{a.Config.ResourcesDir}
	if a.Config.ContentDB == "" {
		roots = append(roots, a.Config.ContentDir)
	} else {
		roots = append(roots, filepath.Dir(a.Config.ContentDB))
	}
	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			continue
		}
		a.addDirsRecursive(watcher, root)
	}
	return watcher, nil
}

func (a *App) addDirsRecursive(w *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if a.isBuildOutput(p) {
				return filepath.SkipDir
			}
			if err := w.Add(p); err != nil {
				a.logger.Warn("Watch add failed", "dir", p, "error", err)
			}
		}
		return nil
	})
}

func (a *App) watchLoop(ctx context.Context, w *fsnotify.Watcher, trigger func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ignoreEvent(ev.Name) || a.isBuildOutput(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					a.addDirsRecursive(w, ev.Name)
				}
			}
			a.logger.Debug("File change detected", "path", ev.Name, "op", ev.Op.String())
			trigger()
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			a.logger.Warn("Watcher error", "error", err)
		}
	}
}

// rebuildLoop runs one build per request, sequentially. A failed rebuild
// keeps the previous output.
func (a *App) rebuildLoop(ctx context.Context, req <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-req:
			a.logger.Info("Change detected; rebuilding site")
			if err := a.Build(ctx); err != nil {
				a.logger.Warn("Rebuild failed", "error", err)
			}
		}
	}
}

// newDebouncer returns a channel that receives once per burst of trigger
// calls, delay after the last call.
func newDebouncer(delay time.Duration) (<-chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	req := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			select {
			case req <- struct{}{}:
			default:
			}
		})
	}
	return req, trigger
}

// isBuildOutput reports whether name lies in the output directory or in one
// of the sibling directories a build creates next to it. Every rebuild
// rewrites these, so their events must not trigger another rebuild.
func (a *App) isBuildOutput(name string) bool {
	out, err := filepath.Abs(a.Config.OutputDir)
	if err != nil {
		return false
	}
	p, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	for _, dir := range []string{out, out + "_stage", out + ".prev"} {
		if within(dir, p) {
			return true
		}
	}
	return false
}

// ignoreEvent reports editor swap files and hidden files.
func ignoreEvent(name string) bool {
	base := filepath.Base(name)
	return strings.HasPrefix(base, ".") ||
		strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".tmp") ||
		strings.HasSuffix(base, "-journal") ||
		strings.HasSuffix(base, "-wal") ||
		strings.HasSuffix(base, "-shm")
}
