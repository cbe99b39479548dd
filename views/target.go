package views

import "github.com/eringen/pubsite/content"

// TargetKind identifies the kind of page a Target renders.
type TargetKind uint8

const (
	TargetIndex TargetKind = iota + 1
	TargetItem
	TargetPage
	TargetTagList
	TargetTagDetail
)

// Target is a page to compose. Path is the page's relative URL path; the
// index page's path is "".
type Target interface {
	Kind() TargetKind
	Path() string
	String() string
}

// Index is the home page listing every item.
type Index struct{}

func (Index) Kind() TargetKind { return TargetIndex }
func (Index) Path() string { return "" }
func (Index) String() string { return "index" }

// ItemDetail is the page for a single item.
type ItemDetail struct{ Item content.Item }

func (ItemDetail) Kind() TargetKind { return TargetItem }
func (t ItemDetail) Path() string { return content.CleanPath(t.Item.Path) }
func (t ItemDetail) String() string { return "item " + quoteOrEmpty(t.Item.Path) }

// GenericPage is the page for a standalone content page.
type GenericPage struct{ Page content.Page }

func (GenericPage) Kind() TargetKind { return TargetPage }
func (t GenericPage) Path() string { return content.CleanPath(t.Page.Path) }
func (t GenericPage) String() string { return "page " + quoteOrEmpty(t.Page.Path) }

// TagList is the page listing every tag.
type TagList struct{}

func (TagList) Kind() TargetKind { return TargetTagList }
func (TagList) Path() string { return content.TagListPath }
func (TagList) String() string { return "tag list" }

// TagDetail is the page listing the items carrying one tag.
type TagDetail struct{ Tag content.Tag }

func (TagDetail) Kind() TargetKind { return TargetTagDetail }
func (t TagDetail) Path() string { return content.TagPath(t.Tag) }
func (t TagDetail) String() string { return "tag " + quoteOrEmpty(string(t.Tag)) }

func quoteOrEmpty(s string) string {
	if s == "" {
		return "<empty>"
	}
	return `"` + s + `"`
}
