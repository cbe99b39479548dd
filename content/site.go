package content

import (
	"context"
	"slices"
	"sort"
)

// Website is the capability set a theme needs from a site.
type Website interface {
	Items() []Item
	Tags() []Tag
	Pages() []Page
	Metadata() Metadata
}

// Source loads a Site from some backing store.
type Source interface {
	Load(ctx context.Context, meta Metadata) (*Site, error)
}

// Site is the immutable content graph of one build.
type Site struct {
	meta  Metadata
	items []Item
	pages []Page
	tags  []Tag
}

var _ Website = (*Site)(nil)

// NewSite normalizes item tags, orders items newest first (ties keep the
// order they were given in) and derives the tag set.
func NewSite(meta Metadata, items []Item, pages []Page) *Site {
	sorted := make([]Item, len(items))
	for i, it := range items {
		it.Tags = normalizeTags(it.Tags)
		sorted[i] = it
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	set := make(map[Tag]struct{})
	for _, it := range sorted {
		for _, t := range it.Tags {
			set[t] = struct{}{}
		}
	}
	tags := make([]Tag, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	slices.Sort(tags)

	return &Site{
		meta:  meta,
		items: sorted,
		pages: slices.Clone(pages),
		tags:  tags,
	}
}

// Metadata returns the site metadata.
func (s *Site) Metadata() Metadata { return s.meta }

// Items returns all items, newest first.
func (s *Site) Items() []Item { return cloneItems(s.items) }

// Pages returns standalone pages in ingestion order.
func (s *Site) Pages() []Page { return slices.Clone(s.pages) }

// Tags returns the derived tag set in lexicographic order.
func (s *Site) Tags() []Tag { return slices.Clone(s.tags) }

// AllTags is an alias of Tags.
func (s *Site) AllTags() []Tag { return s.Tags() }

// Tagged returns the items carrying tag, newest first. An unknown tag yields
// an empty slice.
func (s *Site) Tagged(tag Tag) []Item {
	return TaggedWith(s.items, NormalizeTag(string(tag)))
}

// TaggedWith filters items down to those carrying tag, keeping their order.
func TaggedWith(items []Item, tag Tag) []Item {
	out := []Item{}
	for _, it := range items {
		if it.HasTag(tag) {
			out = append(out, cloneItem(it))
		}
	}
	return out
}

func normalizeTags(tags []Tag) []Tag {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[Tag]struct{}, len(tags))
	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		n := NormalizeTag(string(t))
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func cloneItem(it Item) Item {
	it.Tags = slices.Clone(it.Tags)
	return it
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = cloneItem(it)
	}
	return out
}
