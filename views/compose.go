package views

import (
	"fmt"
	"strings"

	"github.com/eringen/pubsite/content"
)

// Composer builds view trees for one site. It snapshots the site's items and
// tags at construction, so every Compose call sees the same state.
type Composer struct {
	meta  content.Metadata
	items []content.Item
	tags  []content.Tag
	style Style
}

// NewComposer returns a Composer for site styled with style.
func NewComposer(site content.Website, style Style) *Composer {
	return &Composer{
		meta:  site.Metadata(),
		items: site.Items(),
		tags:  site.Tags(),
		style: style,
	}
}

// Compose returns the view for target.
func (c *Composer) Compose(target Target) (View, error) {
	switch t := target.(type) {
	case Index:
		return c.index(), nil
	case ItemDetail:
		return c.item(t)
	case GenericPage:
		return c.page(t)
	case TagList:
		return c.tagList(), nil
	case TagDetail:
		return c.tagDetail(t)
	default:
		return View{}, &RenderError{Target: fmt.Sprint(target), Reason: fmt.Sprintf("unsupported target %T", target)}
	}
}

func (c *Composer) index() View {
	body := c.layout(
		Text(c.meta.Description, RoleCaption),
		c.itemList(c.items),
	)
	return View{Meta: c.pageMeta("", c.meta.Description, "", "website", WebsiteJsonLD(c.meta)), Body: body}
}

func (c *Composer) item(t ItemDetail) (View, error) {
	it := t.Item
	if t.Path() == "" {
		return View{}, &RenderError{Target: t.String(), Reason: "item has no path"}
	}
	if strings.TrimSpace(it.Title) == "" {
		return View{}, &RenderError{Target: t.String(), Reason: "item has no title"}
	}
	for _, tag := range it.Tags {
		if err := checkTag(t, tag); err != nil {
			return View{}, err
		}
	}

	children := []Node{Fragment(it.Body)}
	if c.style.ShowTaggedWithLabel && len(it.Tags) > 0 {
		children = append(children, Text("Tagged with:", RoleCaption))
	}
	children = append(children, c.tagRow(it.Tags))

	meta := c.pageMeta(it.Title, it.Description, t.Path(), "article", BlogPostingJsonLD(c.meta, it))
	return View{Meta: meta, Body: c.layout(children...)}, nil
}

func (c *Composer) page(t GenericPage) (View, error) {
	p := t.Page
	if t.Path() == "" {
		return View{}, &RenderError{Target: t.String(), Reason: "page has no path"}
	}
	meta := c.pageMeta(p.Title, p.Description, t.Path(), "website", "")
	return View{Meta: meta, Body: c.layout(Fragment(p.Body))}, nil
}

func (c *Composer) tagList() View {
	body := c.layout(
		Text("Browse all tags", RoleHeadline),
		c.tagRow(c.tags),
	)
	return View{Meta: c.pageMeta("Tags", "Browse all tags", content.TagListPath, "website", ""), Body: body}
}

func (c *Composer) tagDetail(t TagDetail) (View, error) {
	if err := checkTag(t, t.Tag); err != nil {
		return View{}, err
	}
	body := c.layout(
		Stack(Horizontal, RoleHeadline,
			Text("Tagged with", RoleNone),
			c.badge(t.Tag),
		),
		Link(BuildURL(c.meta.URL, content.TagListPath), RoleNone, Text("Browse all tags", RoleNone)),
		c.itemList(content.TaggedWith(c.items, t.Tag)),
	)
	title := "Tagged with " + string(t.Tag)
	return View{Meta: c.pageMeta(title, title, t.Path(), "website", ""), Body: body}, nil
}

func checkTag(t Target, tag content.Tag) error {
	if strings.TrimSpace(string(tag)) == "" {
		return &RenderError{Target: t.String(), Reason: "empty tag"}
	}
	return nil
}

// layout wraps content in the shared header/footer frame.
func (c *Composer) layout(children ...Node) Node {
	return Stack(Vertical, RolePage,
		c.header(),
		Stack(Vertical, RoleContent, children...),
		c.footer(),
	)
}

func (c *Composer) header() Node {
	return Link(BuildURL(c.meta.URL), RoleHeader, Text(c.meta.Name, RoleNone))
}

func (c *Composer) footer() Node {
	credits := c.style.Credits
	if len(credits) == 0 {
		return Stack(Horizontal, RoleFooter)
	}
	children := []Node{Text("Generated using", RoleNone)}
	for i, cr := range credits {
		switch {
		case i == 0:
		case i == len(credits)-1:
			children = append(children, Text("and", RoleNone))
		default:
			children = append(children, Text(",", RoleNone))
		}
		children = append(children, Link(cr.URL, RoleUnderline, Text(cr.Name, RoleUnderline)))
	}
	return Stack(Horizontal, RoleFooter, children...)
}

func (c *Composer) itemList(items []content.Item) Node {
	cards := make([]Node, len(items))
	for i, it := range items {
		cards[i] = c.card(it)
	}
	return List(RoleItemList, cards...)
}

func (c *Composer) card(it content.Item) Node {
	return Stack(Vertical, RoleCard,
		Link(BuildURL(c.meta.URL, it.Path), RoleHeadline, Text(it.Title, RoleHeadline)),
		Text(it.Description, RoleCaption),
	)
}

func (c *Composer) tagRow(tags []content.Tag) Node {
	badges := make([]Node, len(tags))
	for i, t := range tags {
		badges[i] = c.badge(t)
	}
	return Stack(Horizontal, RoleTagRow, badges...)
}

func (c *Composer) badge(t content.Tag) Node {
	return Badge(string(t), BuildURL(c.meta.URL, content.TagPath(t)))
}

func (c *Composer) pageMeta(title, description, relPath, ogType, jsonLD string) PageMeta {
	full := c.meta.Name
	if title != "" {
		full = title + " | " + c.meta.Name
	}
	if description == "" {
		description = c.meta.Description
	}
	return PageMeta{
		Title:       full,
		Description: description,
		URL:         BuildURL(c.meta.URL, relPath),
		OGType:      ogType,
		SiteName:    c.meta.Name,
		Language:    c.meta.Language,
		JSONLD:      jsonLD,
	}
}
