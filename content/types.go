// Package content holds the read-only content model a build renders: site
// metadata, dated items, standalone pages and the tag set derived from items.
package content

import "time"

// Tag is a normalized label grouping items. Tags are never authored on their
// own; a site's tag set is the union of its items' tags.
type Tag string

// String returns the tag label.
func (t Tag) String() string { return string(t) }

// Metadata describes the site as a whole.
type Metadata struct {
	Name        string
	Description string
	URL         string // base URL, e.g. "https://example.com/blog"
	Language    string // BCP 47 tag
}

// Item is a dated, taggable entry such as a blog post.
type Item struct {
	Title       string
	Description string
	Body        string // pre-rendered HTML fragment
	Date        time.Time
	Tags        []Tag
	Path        string // relative URL path without leading or trailing slash
	Section     string
}

// HasTag reports whether the item carries tag.
func (i Item) HasTag(tag Tag) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Page is a standalone entry outside the chronological item stream.
type Page struct {
	Title       string
	Description string
	Body        string
	Path        string
}
