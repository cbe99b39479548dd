package pubsite

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"time"

	"github.com/eringen/pubsite/content"
	"github.com/eringen/pubsite/views"
)

// FeedFile is the RSS feed's name in the output directory.
const FeedFile = "feed.rss"

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language,omitempty"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// feedItems returns the items whose section is listed in sections, keeping
// the site's order.
func feedItems(items []content.Item, sections []string) []content.Item {
	want := make(map[string]bool, len(sections))
	for _, s := range sections {
		want[s] = true
	}
	var out []content.Item
	for _, it := range items {
		if want[it.Section] {
			out = append(out, it)
		}
	}
	return out
}

// writeFeed writes feed.rss into dir. With no RSS sections configured no file
// is written.
func writeFeed(dir string, cfg SiteConfig, items []content.Item) error {
	if len(cfg.RSSSections) == 0 {
		return nil
	}
	base := cfg.URL
	selected := feedItems(items, cfg.RSSSections)
	entries := make([]rssItem, 0, len(selected))
	for _, it := range selected {
		itemURL := views.BuildURL(base, it.Path)
		entries = append(entries, rssItem{
			Title:       it.Title,
			Link:        itemURL,
			Description: it.Description,
			PubDate:     it.Date.Format(time.RFC1123Z),
			GUID:        itemURL,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       cfg.Name,
			Link:        views.BuildURL(base),
			Description: cfg.Description,
			Language:    cfg.Language,
			Items:       entries,
		},
	}
	return writeXML(filepath.Join(dir, FeedFile), feed)
}

func writeXML(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return &OutputError{Path: path, Err: err}
	}
	if _, err := f.Write([]byte(xml.Header)); err != nil {
		f.Close()
		return &OutputError{Path: path, Err: err}
	}
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return &OutputError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &OutputError{Path: path, Err: err}
	}
	return nil
}
