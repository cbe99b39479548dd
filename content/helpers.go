package content

import (
	"fmt"
	"hash/fnv"
	"path"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// TagListPath is the relative path of the page listing every tag.
const TagListPath = "tags"

// TagPath returns the relative path of the detail page for tag. Distinct
// tags always get distinct paths: a tag whose slug is not the tag itself
// ("c++", "go lang") gets a short hash of the label appended.
func TagPath(tag Tag) string {
	return path.Join(TagListPath, tagSegment(string(tag)))
}

func tagSegment(tag string) string {
	slug := Slugify(tag)
	if slug == tag {
		return slug
	}
	h := fnv.New32a()
	h.Write([]byte(tag))
	sum := fmt.Sprintf("%08x", h.Sum32())
	if slug == "" {
		return sum
	}
	return slug + "-" + sum
}

// Slugify converts a title to a URL path segment. Letters and digits of any
// script are kept, lower-cased and NFC-normalised; every other run of
// characters becomes a single '-'.
func Slugify(s string) string {
	s = norm.NFC.String(strings.ToLower(strings.TrimSpace(s)))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.Is(unicode.Mn, r):
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// FileSlug returns the path segment for a content file name. Names with no
// letters or digits fall back to a hash of the name.
func FileSlug(name string) string {
	if slug := Slugify(name); slug != "" {
		return slug
	}
	return tagSegment(name)
}

// NormalizeTag trims, collapses inner whitespace and lower-cases a label.
func NormalizeTag(s string) Tag {
	return Tag(strings.ToLower(strings.Join(strings.Fields(s), " ")))
}

// ParseTags splits a comma-delimited tag string (e.g. "go, web") into tags.
// Empty entries are dropped.
func ParseTags(tagString string) []Tag {
	var out []Tag
	for _, part := range strings.Split(tagString, ",") {
		if t := NormalizeTag(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate parses the date formats accepted in frontmatter and the store.
// Dates without a zone are read as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (use YYYY-MM-DD, YYYY-MM-DD HH:MM or RFC3339)", s)
}

// CleanPath trims slashes and cleans a relative URL path. The root path is "".
func CleanPath(p string) string {
	p = path.Clean("/" + strings.TrimSpace(p))
	return strings.Trim(p, "/")
}
