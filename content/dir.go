package content

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/eringen/pubsite/markdown"
)

// DirSource loads content from a directory of Markdown files:
//
//	<dir>/<section>/**/*.md   items, path "<section>/<slug>"
//	<dir>/*.md                pages, path "<slug>" (index.md is skipped)
//
// Files are visited in lexical order, which is the ingestion order used to
// break date ties.
type DirSource struct {
	Dir      string
	Renderer *markdown.Renderer
}

// NewDirSource returns a DirSource rendering bodies with r, or with a default
// renderer when r is nil.
func NewDirSource(dir string, r *markdown.Renderer) *DirSource {
	if r == nil {
		r = markdown.New()
	}
	return &DirSource{Dir: dir, Renderer: r}
}

func (d *DirSource) String() string { return d.Dir }

// frontMatter is the metadata block accepted at the top of a content file.
type frontMatter struct {
	Title       string      `yaml:"title" toml:"title"`
	Description string      `yaml:"description" toml:"description"`
	Date        string      `yaml:"date" toml:"date"`
	Tags        interface{} `yaml:"tags" toml:"tags"`
	Path        string      `yaml:"path" toml:"path"`
}

// Load walks the directory and builds a Site.
func (d *DirSource) Load(ctx context.Context, meta Metadata) (*Site, error) {
	info, err := os.Stat(d.Dir)
	if err != nil {
		return nil, fmt.Errorf("content directory %s: %w", d.Dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content directory %s: not a directory", d.Dir)
	}

	var items []Item
	var pages []Page
	err = filepath.WalkDir(d.Dir, func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".md") {
			return nil
		}
		rel, err := filepath.Rel(d.Dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "index.md" {
			return nil
		}
		doc, err := d.readFile(p, entry)
		if err != nil {
			return fmt.Errorf("%s: %w", rel, err)
		}
		if section, _, nested := strings.Cut(rel, "/"); nested {
			items = append(items, doc.item(section, rel))
		} else {
			pages = append(pages, doc.page())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewSite(meta, items, pages), nil
}

type document struct {
	fm   frontMatter
	body string
	date time.Time
	name string
}

func (d *DirSource) readFile(p string, entry fs.DirEntry) (document, error) {
	raw, err := os.ReadFile(p)
	if err != nil {
		return document{}, err
	}
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		return document{}, fmt.Errorf("parse frontmatter: %w", err)
	}
	html, err := d.Renderer.Render(body)
	if err != nil {
		return document{}, err
	}

	var date time.Time
	if strings.TrimSpace(fm.Date) != "" {
		date, err = ParseDate(fm.Date)
		if err != nil {
			return document{}, err
		}
	} else {
		info, err := entry.Info()
		if err != nil {
			return document{}, err
		}
		date = info.ModTime().UTC()
	}

	return document{
		fm:   fm,
		body: html,
		date: date,
		name: strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
	}, nil
}

func (doc document) title() string {
	if t := strings.TrimSpace(doc.fm.Title); t != "" {
		return t
	}
	words := strings.NewReplacer("-", " ", "_", " ").Replace(doc.name)
	return cases.Title(language.English).String(words)
}

func (doc document) item(section, rel string) Item {
	p := CleanPath(doc.fm.Path)
	if p == "" {
		dir := path.Dir(rel)
		p = path.Join(dir, FileSlug(doc.name))
	}
	return Item{
		Title:       doc.title(),
		Description: strings.TrimSpace(doc.fm.Description),
		Body:        doc.body,
		Date:        doc.date,
		Tags:        tagsFromFrontMatter(doc.fm.Tags),
		Path:        p,
		Section:     section,
	}
}

func (doc document) page() Page {
	p := CleanPath(doc.fm.Path)
	if p == "" {
		p = FileSlug(doc.name)
	}
	return Page{
		Title:       doc.title(),
		Description: strings.TrimSpace(doc.fm.Description),
		Body:        doc.body,
		Path:        p,
	}
}

// tagsFromFrontMatter accepts either "a, b" or a list of strings. List
// entries are split on commas too, so a tag never contains one.
func tagsFromFrontMatter(v interface{}) []Tag {
	switch tv := v.(type) {
	case string:
		return ParseTags(tv)
	case []interface{}:
		var out []Tag
		for _, e := range tv {
			out = append(out, ParseTags(fmt.Sprint(e))...)
		}
		return out
	case []string:
		var out []Tag
		for _, e := range tv {
			out = append(out, ParseTags(e)...)
		}
		return out
	default:
		return nil
	}
}
