package pubsite

import (
	"encoding/xml"
	"path/filepath"

	"github.com/eringen/pubsite/views"
)

// SitemapFile is the sitemap's name in the output directory.
const SitemapFile = "sitemap.xml"

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// writeSitemap lists every enumerated page, dating item pages.
func writeSitemap(dir, base string, targets []views.Target) error {
	urls := make([]sitemapURL, 0, len(targets))
	for _, t := range targets {
		u := sitemapURL{Loc: views.BuildURL(base, t.Path())}
		if it, ok := t.(views.ItemDetail); ok && !it.Item.Date.IsZero() {
			u.LastMod = it.Item.Date.Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	return writeXML(filepath.Join(dir, SitemapFile), sitemap)
}
