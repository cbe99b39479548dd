package pubsite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/pubsite/content"
)

// Store wraps a SQLite database holding pre-rendered items and pages. It is
// a content.Source: Load returns the published items in insertion order.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the preview server read while an import writes; writers wait
	// on the busy timeout instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) String() string { return s.path }

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS items (
    path TEXT PRIMARY KEY,
    section TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    date TEXT NOT NULL,
    tags TEXT NOT NULL,
    body TEXT NOT NULL,
    published INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS pages (
    path TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    body TEXT NOT NULL
);
`)
	return err
}

// Load implements content.Source.
func (s *Store) Load(ctx context.Context, meta content.Metadata) (*content.Site, error) {
	items, err := s.listItems(ctx, true)
	if err != nil {
		return nil, err
	}
	pages, err := s.ListPages(ctx)
	if err != nil {
		return nil, err
	}
	return content.NewSite(meta, items, pages), nil
}

// SaveItem upserts an item keyed by its path. Updating an item keeps its
// insertion position. Tags are normalized to lowercase.
func (s *Store) SaveItem(ctx context.Context, it content.Item, published bool) error {
	p := content.CleanPath(it.Path)
	if p == "" {
		return fmt.Errorf("pubsite: save item %q: empty path", it.Title)
	}
	section := it.Section
	if section == "" {
		section = firstSegment(p)
	}
	pub := 0
	if published {
		pub = 1
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO items (path, section, title, description, date, tags, body, published)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET
    section = excluded.section,
    title = excluded.title,
    description = excluded.description,
    date = excluded.date,
    tags = excluded.tags,
    body = excluded.body,
    published = excluded.published`,
		p, section, it.Title, it.Description, it.Date.UTC().Format(time.RFC3339), joinTags(it.Tags), it.Body, pub)
	return err
}

// SavePage upserts a standalone page keyed by its path.
func (s *Store) SavePage(ctx context.Context, pg content.Page) error {
	p := content.CleanPath(pg.Path)
	if p == "" {
		return fmt.Errorf("pubsite: save page %q: empty path", pg.Title)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO pages (path, title, description, body) VALUES (?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET
    title = excluded.title,
    description = excluded.description,
    body = excluded.body`,
		p, pg.Title, pg.Description, pg.Body)
	return err
}

// GetItem returns a single item by path regardless of published status.
func (s *Store) GetItem(ctx context.Context, p string) (content.Item, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT path, section, title, description, date, tags, body, published FROM items WHERE path = ?`, content.CleanPath(p))
	it, published, err := scanItem(row)
	if err != nil {
		return content.Item{}, false, err
	}
	return it, published, nil
}

// ListItems returns every item, drafts included, in insertion order.
func (s *Store) ListItems(ctx context.Context) ([]content.Item, error) {
	return s.listItems(ctx, false)
}

func (s *Store) listItems(ctx context.Context, publishedOnly bool) ([]content.Item, error) {
	q := `SELECT path, section, title, description, date, tags, body, published FROM items`
	if publishedOnly {
		q += ` WHERE published = 1`
	}
	q += ` ORDER BY rowid`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []content.Item
	for rows.Next() {
		it, _, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListPages returns every page in insertion order.
func (s *Store) ListPages(ctx context.Context) ([]content.Page, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path, title, description, body FROM pages ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []content.Page
	for rows.Next() {
		var pg content.Page
		if err := rows.Scan(&pg.Path, &pg.Title, &pg.Description, &pg.Body); err != nil {
			return nil, err
		}
		pages = append(pages, pg)
	}
	return pages, rows.Err()
}

// SetPublished marks an item as published or draft.
func (s *Store) SetPublished(ctx context.Context, p string, published bool) error {
	pub := 0
	if published {
		pub = 1
	}
	res, err := s.db.ExecContext(ctx, `UPDATE items SET published = ? WHERE path = ?`, pub, content.CleanPath(p))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteItem removes an item by path.
func (s *Store) DeleteItem(ctx context.Context, p string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE path = ?`, content.CleanPath(p))
	return err
}

// DeletePage removes a page by path.
func (s *Store) DeletePage(ctx context.Context, p string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE path = ?`, content.CleanPath(p))
	return err
}

// Import saves every item and page of site as published.
func (s *Store) Import(ctx context.Context, site content.Website) (int, error) {
	n := 0
	for _, it := range site.Items() {
		if err := s.SaveItem(ctx, it, true); err != nil {
			return n, err
		}
		n++
	}
	for _, pg := range site.Pages() {
		if err := s.SavePage(ctx, pg); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(r rowScanner) (content.Item, bool, error) {
	var it content.Item
	var date, tags string
	var published int
	if err := r.Scan(&it.Path, &it.Section, &it.Title, &it.Description, &date, &tags, &it.Body, &published); err != nil {
		return content.Item{}, false, err
	}
	t, err := content.ParseDate(date)
	if err != nil {
		return content.Item{}, false, fmt.Errorf("item %s: %w", it.Path, err)
	}
	it.Date = t
	it.Tags = content.ParseTags(tags)
	return it, published == 1, nil
}

// joinTags encodes tags as ",a,b,".
func joinTags(tags []content.Tag) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(content.NormalizeTag(string(t)))
	}
	return "," + strings.Join(parts, ",") + ","
}

func firstSegment(p string) string {
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return ""
}
