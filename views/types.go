package views

import "fmt"

// PageMeta carries per-page OpenGraph and SEO metadata into the <head>.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	SiteName    string
	Language    string
	JSONLD      string
}

// View is a composed page: head metadata plus the body tree.
type View struct {
	Meta PageMeta
	Body Node
}

// RenderError reports that a page could not be composed, typically because
// the content it renders is missing a required field.
type RenderError struct {
	Target string
	Reason string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %s", e.Target, e.Reason)
}
