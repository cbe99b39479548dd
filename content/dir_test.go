package content

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDirSourceLoad(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.md", "# Welcome\n")
	writeFile(t, root, "about.md", "---\ntitle: About me\ndescription: Who I am\n---\nHello.\n")
	writeFile(t, root, "posts/first-post.md", "---\ntitle: First\ndescription: The first one\ndate: 2022-01-06 10:00\ntags: swift, web\n---\n# Hi\n")
	writeFile(t, root, "posts/second.md", "---\ntitle: Second\ndate: 2022-02-01\ntags:\n  - Go\n  - web\n---\nBody\n")
	writeFile(t, root, "posts/custom.md", "---\ntitle: Custom\ndate: 2021-12-31\npath: /notes/custom-path/\n---\nBody\n")
	writeFile(t, root, "posts/notes.txt", "ignored")

	src := NewDirSource(root, nil)
	site, err := src.Load(context.Background(), Metadata{Name: "test"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	items := site.Items()
	if got, want := titles(items), []string{"Second", "First", "Custom"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("items = %v, want %v", got, want)
	}
	first := items[1]
	if first.Path != "posts/first-post" {
		t.Errorf("Path = %q, want posts/first-post", first.Path)
	}
	if first.Section != "posts" {
		t.Errorf("Section = %q, want posts", first.Section)
	}
	if first.Description != "The first one" {
		t.Errorf("Description = %q", first.Description)
	}
	if !reflect.DeepEqual(first.Tags, []Tag{"swift", "web"}) {
		t.Errorf("Tags = %v", first.Tags)
	}
	if !strings.Contains(first.Body, "<h1") {
		t.Errorf("Body should be rendered HTML: %q", first.Body)
	}
	if !reflect.DeepEqual(items[0].Tags, []Tag{"go", "web"}) {
		t.Errorf("list tags = %v", items[0].Tags)
	}
	if items[2].Path != "notes/custom-path" {
		t.Errorf("path override = %q", items[2].Path)
	}

	pages := site.Pages()
	if len(pages) != 1 {
		t.Fatalf("pages = %d, want 1 (index.md skipped)", len(pages))
	}
	if pages[0].Path != "about" || pages[0].Title != "About me" {
		t.Errorf("page = %+v", pages[0])
	}

	if got, want := site.Tags(), []Tag{"go", "swift", "web"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Tags() = %v, want %v", got, want)
	}
}

func TestDirSourceListTagsWithCommas(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "posts/a.md", "---\ndate: 2022-01-01\ntags: [\"a,b\", c]\n---\nbody")

	site, err := NewDirSource(root, nil).Load(context.Background(), Metadata{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got, want := site.Items()[0].Tags, []Tag{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Tags = %v, want %v", got, want)
	}
}

func TestDirSourceNonASCIIFileNames(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "日本.md", "---\ntitle: Japan\n---\nbody")
	writeFile(t, root, "posts/café.md", "---\ndate: 2022-01-01\n---\nbody")

	site, err := NewDirSource(root, nil).Load(context.Background(), Metadata{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := site.Pages()[0].Path; got != "日本" {
		t.Errorf("page Path = %q, want 日本", got)
	}
	if got := site.Items()[0].Path; got != "posts/café" {
		t.Errorf("item Path = %q, want posts/café", got)
	}
}

func TestDirSourceTitleFromFileName(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "posts/hello-big_world.md", "---\ndate: 2022-01-01\n---\nbody")

	site, err := NewDirSource(root, nil).Load(context.Background(), Metadata{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := site.Items()[0].Title; got != "Hello Big World" {
		t.Errorf("Title = %q, want %q", got, "Hello Big World")
	}
}

func TestDirSourceMissingDateUsesModTime(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "posts/undated.md", "no frontmatter here")

	site, err := NewDirSource(root, nil).Load(context.Background(), Metadata{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if site.Items()[0].Date.IsZero() {
		t.Error("undated item should fall back to the file modification time")
	}
}

func TestDirSourceErrors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := NewDirSource(filepath.Join(t.TempDir(), "nope"), nil).Load(context.Background(), Metadata{})
		if err == nil {
			t.Fatal("expected error for missing directory")
		}
	})
	t.Run("bad date", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "posts/bad.md", "---\ndate: sometime\n---\nbody")
		_, err := NewDirSource(root, nil).Load(context.Background(), Metadata{})
		if err == nil || !strings.Contains(err.Error(), "posts/bad.md") {
			t.Fatalf("expected error naming the file, got %v", err)
		}
	})
	t.Run("malformed frontmatter", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "posts/bad.md", "---\ntitle: [unclosed\n---\nbody")
		if _, err := NewDirSource(root, nil).Load(context.Background(), Metadata{}); err == nil {
			t.Fatal("expected error for malformed frontmatter")
		}
	})
	t.Run("cancelled", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "posts/a.md", "body")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := NewDirSource(root, nil).Load(ctx, Metadata{}); err == nil {
			t.Fatal("expected context error")
		}
	})
}
