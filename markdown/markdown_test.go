package markdown

import (
	"strings"
	"testing"
)

func render(t *testing.T, r *Renderer, src string) string {
	t.Helper()
	got, err := r.Render([]byte(src))
	if err != nil {
		t.Fatalf("Render(%q) failed: %v", src, err)
	}
	return got
}

func TestRenderInline(t *testing.T) {
	r := New()
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<p><strong>bold</strong></p>\n"},
		{"*italic*", "<p><em>italic</em></p>\n"},
		{"text **bold** more", "<p>text <strong>bold</strong> more</p>\n"},
		{"use `fmt.Println` here", "<p>use <code>fmt.Println</code> here</p>\n"},
		{"`**not bold**`", "<p><code>**not bold**</code></p>\n"},
	}
	for _, tt := range tests {
		got := render(t, r, tt.input)
		if got != tt.expected {
			t.Errorf("Render(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderHeadings(t *testing.T) {
	r := New()
	tests := []struct {
		input    string
		expected string
	}{
		{"# Heading 1", "<h1 id=\"heading-1\">Heading 1</h1>\n"},
		{"## Heading 2", "<h2 id=\"heading-2\">Heading 2</h2>\n"},
		{"### Heading 3", "<h3 id=\"heading-3\">Heading 3</h3>\n"},
	}
	for _, tt := range tests {
		got := render(t, r, tt.input)
		if got != tt.expected {
			t.Errorf("Render(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderLists(t *testing.T) {
	r := New()
	tests := []struct {
		input    string
		expected string
	}{
		{"- item 1\n- item 2", "<ul>\n<li>item 1</li>\n<li>item 2</li>\n</ul>\n"},
		{"1. first\n2. second", "<ol>\n<li>first</li>\n<li>second</li>\n</ol>\n"},
	}
	for _, tt := range tests {
		got := render(t, r, tt.input)
		if got != tt.expected {
			t.Errorf("Render(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderCodeBlockWithLanguage(t *testing.T) {
	got := render(t, New(), "```go\nfmt.Println(\"hello\")\n```")
	if !strings.Contains(got, `<code class="language-go">`) {
		t.Errorf("code block should have language-go class: %q", got)
	}
	if !strings.Contains(got, "fmt.Println(&quot;hello&quot;)") {
		t.Errorf("code block should escape content: %q", got)
	}
}

func TestRenderLinkWithUnderscoresInURL(t *testing.T) {
	got := render(t, New(), "[Wikipedia](https://en.wikipedia.org/wiki/Some_Article_Title)")
	want := `<a href="https://en.wikipedia.org/wiki/Some_Article_Title">Wikipedia</a>`
	if !strings.Contains(got, want) {
		t.Errorf("Render link = %q, want it to contain %q", got, want)
	}
}

func TestRenderGFMTable(t *testing.T) {
	got := render(t, New(), "| a | b |\n|---|---|\n| 1 | 2 |")
	if !strings.Contains(got, "<table>") || !strings.Contains(got, "<td>1</td>") {
		t.Errorf("expected table markup: %q", got)
	}
}

func TestRenderRawHTML(t *testing.T) {
	src := "<div class=\"note\">hi</div>"
	if got := render(t, New(), src); !strings.Contains(got, src) {
		t.Errorf("default renderer should pass raw HTML through: %q", got)
	}
	if got := render(t, New(WithSafeMode()), src); strings.Contains(got, "<div") {
		t.Errorf("safe renderer should drop raw HTML: %q", got)
	}
}

func TestRenderHardWraps(t *testing.T) {
	got := render(t, New(WithHardWraps()), "line one\nline two")
	if !strings.Contains(got, "<br") {
		t.Errorf("hard wraps should emit <br>: %q", got)
	}
}

func TestCollectExtensionsIgnoresUnknown(t *testing.T) {
	exts := collectExtensions([]string{"table", "TABLE", "nope"})
	if len(exts) != 1 {
		t.Errorf("collectExtensions = %d extenders, want 1", len(exts))
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://example.com/a?b=1&c=2", "https://example.com/a?b=1&amp;c=2"},
		{"/tags/go/", "/tags/go/"},
		{"#top", "#top"},
		{"mailto:me@example.com", "mailto:me@example.com"},
		{"javascript:alert(1)", ""},
		{"relative/path", ""},
		{"  ", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.input); got != tt.expected {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
