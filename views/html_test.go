package views

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/eringen/pubsite/content"
)

func renderBody(t *testing.T, n Node) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Body(n).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return buf.String()
}

func TestBodyNodes(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"text", Text("hi", RoleNone), "<span>hi</span>"},
		{"text with role", Text("desc", RoleCaption), `<span class="caption">desc</span>`},
		{"text escaped", Text("<b>&", RoleNone), "<span>&lt;b&gt;&amp;</span>"},
		{"link", Link("https://x.example/", RoleNone, Text("x", RoleNone)), `<a href="https://x.example/"><span>x</span></a>`},
		{"unsafe link drops anchor", Link("javascript:alert(1)", RoleNone, Text("x", RoleNone)), "<span>x</span>"},
		{"vertical stack", Stack(Vertical, RoleCard), `<div class="stack stack-v card"></div>`},
		{"horizontal stack", Stack(Horizontal, RoleNone), `<div class="stack stack-h"></div>`},
		{"content stack", Stack(Vertical, RoleContent), `<main class="stack stack-v content"></main>`},
		{"footer stack", Stack(Horizontal, RoleFooter), `<footer class="stack stack-h site-footer"></footer>`},
		{"list", List(RoleItemList, Text("a", RoleNone)), `<ul class="item-list"><li><span>a</span></li></ul>`},
		{"empty list", List(RoleItemList), `<ul class="item-list"></ul>`},
		{"badge", Badge("go", "https://x.example/tags/go/"), `<a href="https://x.example/tags/go/" class="tag">go</a>`},
		{"badge without href", Badge("go", ""), `<span class="tag">go</span>`},
		{"fragment is raw", Fragment("<p>hi</p>"), `<div class="fragment"><p>hi</p></div>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderBody(t, tt.node); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDocument(t *testing.T) {
	item := content.Item{Title: "Hello <World>", Description: "First", Date: day(1), Path: "posts/hello", Tags: []content.Tag{"go"}}
	site := content.NewSite(testMeta, []content.Item{item}, nil)
	v := compose(t, NewComposer(site, DefaultStyle()), ItemDetail{Item: site.Items()[0]})

	var buf bytes.Buffer
	if err := Document(v, DefaultStyle()).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		"<title>Hello &lt;World&gt; | Test Blog</title>",
		`<link rel="canonical" href="https://example.com/blog/posts/hello/">`,
		`<meta property="og:type" content="article">`,
		`<script type="application/ld+json">`,
		"max-width:820px",
		"#8A8A8A",
		"#EEEEEE",
		`<a href="https://example.com/blog" class="site-header">`,
		`<a href="https://example.com/blog/tags/go/" class="tag">go</a>`,
		"Generated using",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestDocumentIsByteIdentical(t *testing.T) {
	site := content.NewSite(testMeta, []content.Item{
		{Title: "one", Date: day(1), Path: "posts/one", Tags: []content.Tag{"b", "a"}},
		{Title: "two", Date: day(1), Path: "posts/two"},
	}, nil)

	render := func() string {
		v := compose(t, NewComposer(site, DefaultStyle()), Index{})
		var buf bytes.Buffer
		if err := Document(v, DefaultStyle()).Render(context.Background(), &buf); err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		return buf.String()
	}
	if a, b := render(), render(); a != b {
		t.Error("rendering the same view twice produced different bytes")
	}
}

func TestColorCSS(t *testing.T) {
	tests := []struct {
		c    Color
		want string
	}{
		{0x8A8A8A, "#8A8A8A"},
		{0, "#000000"},
		{0xFFFFFF, "#FFFFFF"},
	}
	for _, tt := range tests {
		if got := tt.c.CSS(); got != tt.want {
			t.Errorf("Color(%#x).CSS() = %q, want %q", uint32(tt.c), got, tt.want)
		}
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://example.com", nil, "https://example.com"},
		{"https://example.com", []string{"tags"}, "https://example.com/tags/"},
		{"https://example.com/blog", []string{"posts/hello"}, "https://example.com/blog/posts/hello/"},
		{"https://example.com/", []string{"tags", "go"}, "https://example.com/tags/go/"},
		{"https://example.com/blog", []string{""}, "https://example.com/blog"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segs...); got != tt.want {
			t.Errorf("BuildURL(%q, %q) = %q, want %q", tt.base, tt.segs, got, tt.want)
		}
	}
}
