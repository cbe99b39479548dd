package pubsite

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func newPreviewServer(t *testing.T) *App {
	t.Helper()
	a := newTestApp(t, sampleSource())
	if err := a.Build(context.Background()); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	a.Echo = echo.New()
	a.setupPreview()
	return a
}

func TestPreviewServesOutput(t *testing.T) {
	a := newPreviewServer(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"index", "/", http.StatusOK, "Test Blog"},
		{"tag list", "/tags/", http.StatusOK, "Browse all tags"},
		{"item", "/posts/hello/", http.StatusOK, "<p>hi</p>"},
		{"sitemap", "/sitemap.xml", http.StatusOK, "<urlset"},
		{"missing", "/nope/", http.StatusNotFound, "Not Found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			a.Echo.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body missing %q", tt.wantBody)
			}
			if rec.Header().Get("Cache-Control") != "no-store" {
				t.Errorf("Cache-Control = %q, want no-store", rec.Header().Get("Cache-Control"))
			}
		})
	}
}

func TestPreviewAddsTrailingSlash(t *testing.T) {
	a := newPreviewServer(t)

	req := httptest.NewRequest(http.MethodGet, "/tags", nil)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMovedPermanently)
	}
	if loc := rec.Header().Get("Location"); loc != "/tags/" {
		t.Errorf("Location = %q, want /tags/", loc)
	}
}

func TestLocalURL(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":8000", "http://localhost:8000"},
		{"0.0.0.0:9000", "http://localhost:9000"},
		{"127.0.0.1:3000", "http://127.0.0.1:3000"},
		{"garbage", "http://localhost:8000"},
	}
	for _, tt := range tests {
		if got := localURL(tt.addr); got != tt.want {
			t.Errorf("localURL(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}

func TestDebouncerCoalescesBursts(t *testing.T) {
	req, trigger := newDebouncer(20 * time.Millisecond)
	for i := 0; i < 5; i++ {
		trigger()
	}

	select {
	case <-req:
	case <-time.After(time.Second):
		t.Fatal("no rebuild request after burst")
	}
	select {
	case <-req:
		t.Error("burst produced more than one rebuild request")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestIgnoreEvent(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Content/posts/hello.md", false},
		{"Content/posts/.hello.md.swp", true},
		{"Content/posts/hello.md~", true},
		{"data/content.db-wal", true},
		{"Resources/logo.png", false},
	}
	for _, tt := range tests {
		if got := ignoreEvent(tt.name); got != tt.want {
			t.Errorf("ignoreEvent(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsBuildOutput(t *testing.T) {
	dir := t.TempDir()
	a := newTestApp(t, sampleSource())
	a.Config.OutputDir = filepath.Join(dir, "docs")

	tests := []struct {
		name string
		want bool
	}{
		{filepath.Join(dir, "docs"), true},
		{filepath.Join(dir, "docs", "tags", "index.html"), true},
		{filepath.Join(dir, "docs_stage"), true},
		{filepath.Join(dir, "docs_stage", "index.html"), true},
		{filepath.Join(dir, "docs.prev", "index.html"), true},
		{filepath.Join(dir, "blog.db"), false},
		{filepath.Join(dir, "docs2", "index.html"), false},
		{filepath.Join(dir, "pubsite.yaml"), false},
	}
	for _, tt := range tests {
		if got := a.isBuildOutput(tt.name); got != tt.want {
			t.Errorf("isBuildOutput(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestWatchLoopIgnoresBuildOutput(t *testing.T) {
	dir := t.TempDir()
	a := newTestApp(t, sampleSource())
	a.Config.OutputDir = filepath.Join(dir, "docs")
	a.Config.ContentDB = filepath.Join(dir, "blog.db")
	a.Config.ResourcesDir = filepath.Join(dir, "Resources")
	if err := os.WriteFile(a.Config.ContentDB, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	watcher, err := a.newWatcher()
	if err != nil {
		t.Fatalf("newWatcher failed: %v", err)
	}
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	triggered := make(chan struct{}, 16)
	go a.watchLoop(ctx, watcher, func() { triggered <- struct{}{} })

	// A full build creates the staging directory, swaps it in and removes
	// the backup, all inside the watched directory.
	if err := a.Build(ctx); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := a.Build(ctx); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	select {
	case <-triggered:
		t.Fatal("build output triggered a rebuild")
	case <-time.After(200 * time.Millisecond):
	}

	if err := os.WriteFile(a.Config.ContentDB, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-triggered:
	case <-time.After(2 * time.Second):
		t.Fatal("database change did not trigger a rebuild")
	}
}
