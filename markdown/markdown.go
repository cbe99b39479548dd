// Package markdown renders item and page bodies to HTML fragments.
package markdown

import (
	"bytes"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer converts Markdown to HTML. It is stateless after construction and
// may be shared.
type Renderer struct {
	md goldmark.Markdown
}

type options struct {
	extensions []string
	hardWraps  bool
	safe       bool
}

// Option configures a Renderer.
type Option func(*options)

// WithExtensions selects goldmark extensions by name ("gfm", "table",
// "strikethrough", "linkify", "tasklist", "definition", "footnote").
// Unknown names are ignored.
func WithExtensions(names ...string) Option {
	return func(o *options) { o.extensions = append(o.extensions, names...) }
}

// WithHardWraps renders soft line breaks as <br>.
func WithHardWraps() Option {
	return func(o *options) { o.hardWraps = true }
}

// WithSafeMode drops raw HTML embedded in the source.
func WithSafeMode() Option {
	return func(o *options) { o.safe = true }
}

// New builds a Renderer. Without options it enables GFM and heading IDs and
// passes raw HTML through.
func New(opts ...Option) *Renderer {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	rendererOptions := []renderer.Option{}
	if o.hardWraps {
		rendererOptions = append(rendererOptions, gmhtml.WithHardWraps())
	}
	if !o.safe {
		rendererOptions = append(rendererOptions, gmhtml.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithExtensions(collectExtensions(o.extensions)...),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}
	return &Renderer{md: goldmark.New(engineOptions...)}
}

// Render converts src to an HTML fragment.
func (r *Renderer) Render(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return buf.String(), nil
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM}
	}
	var extenders []goldmark.Extender
	seen := map[string]struct{}{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if ext, ok := extensionRegistry[key]; ok {
			extenders = append(extenders, ext)
		}
	}
	return extenders
}

// SafeURL validates and sanitizes a URL for use in HTML attributes. Relative
// paths and fragments pass; absolute URLs must use http, https, mailto or
// tel. Anything else yields "".
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
