package pubsite

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/eringen/pubsite/content"
	"github.com/eringen/pubsite/views"
)

// Enumerate lists the pages of a site in build order: the index, the tag
// list when any tag exists, one page per tag, one per item, then one per
// standalone page.
func Enumerate(site content.Website) []views.Target {
	items := site.Items()
	tags := site.Tags()
	pages := site.Pages()

	targets := make([]views.Target, 0, 2+len(tags)+len(items)+len(pages))
	targets = append(targets, views.Index{})
	if len(tags) > 0 {
		targets = append(targets, views.TagList{})
	}
	for _, t := range tags {
		targets = append(targets, views.TagDetail{Tag: t})
	}
	for _, it := range items {
		targets = append(targets, views.ItemDetail{Item: it})
	}
	for _, p := range pages {
		targets = append(targets, views.GenericPage{Page: p})
	}
	return targets
}

// OutputFile returns the file a target is written to, relative to the output
// directory.
func OutputFile(t views.Target) string {
	if t.Path() == "" {
		return "index.html"
	}
	return filepath.Join(filepath.FromSlash(t.Path()), "index.html")
}

// writePages composes every target and writes it under dir. Two targets
// resolving to the same file fail the build with a *views.RenderError.
func (a *App) writePages(ctx context.Context, site content.Website, targets []views.Target, dir string) error {
	composer := views.NewComposer(site, a.style)
	seen := make(map[string]views.Target, len(targets))

	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		file := OutputFile(t)
		if prev, ok := seen[file]; ok {
			return &views.RenderError{
				Target: t.String(),
				Reason: fmt.Sprintf("output path %q already used by %s", filepath.ToSlash(file), prev),
			}
		}
		seen[file] = t

		view, err := composer.Compose(t)
		if err != nil {
			return err
		}
		if err := renderFile(ctx, filepath.Join(dir, file), views.Document(view, a.style)); err != nil {
			return err
		}
		a.logger.Debug("Page written", "target", t.String(), "file", filepath.ToSlash(file))
	}
	return nil
}
