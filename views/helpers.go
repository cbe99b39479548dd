package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/eringen/pubsite/content"
)

// BuildURL joins path segments onto a base URL, ensuring a trailing slash
// when segments are given.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	joined := path.Join(pathSegments...)
	if joined == "" || joined == "." {
		return u.String()
	}
	u.Path = path.Join(u.Path, joined)
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block for the site.
func WebsiteJsonLD(meta content.Metadata) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     meta.Name,
		"url":      BuildURL(meta.URL),
	}
	if meta.Description != "" {
		data["description"] = meta.Description
	}
	if meta.Language != "" {
		data["inLanguage"] = meta.Language
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for an item.
func BlogPostingJsonLD(meta content.Metadata, item content.Item) string {
	itemURL := BuildURL(meta.URL, item.Path)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      item.Title,
		"description":   item.Description,
		"datePublished": item.Date.Format("2006-01-02"),
		"url":           itemURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  meta.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   itemURL,
		},
	}
	if len(item.Tags) > 0 {
		keywords := make([]string, len(item.Tags))
		for i, t := range item.Tags {
			keywords[i] = string(t)
		}
		data["keywords"] = strings.Join(keywords, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
