package views

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/pubsite/markdown"
)

// Document returns a templ component rendering v as a complete HTML5 page.
func Document(v View, style Style) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		writeDocument(&buf, v, style)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// Body returns a templ component rendering only the node tree.
func Body(n Node) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		writeNode(&buf, n)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func writeDocument(buf *bytes.Buffer, v View, style Style) {
	m := v.Meta
	lang := m.Language
	if lang == "" {
		lang = "en"
	}
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"" + attr(lang) + "\">\n<head>\n")
	buf.WriteString("<meta charset=\"utf-8\">\n")
	buf.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	buf.WriteString("<title>" + templ.EscapeString(m.Title) + "</title>\n")
	if m.Description != "" {
		buf.WriteString("<meta name=\"description\" content=\"" + attr(m.Description) + "\">\n")
	}
	if m.URL != "" {
		buf.WriteString("<link rel=\"canonical\" href=\"" + attr(m.URL) + "\">\n")
	}
	writeMeta(buf, "og:title", m.Title)
	writeMeta(buf, "og:description", m.Description)
	writeMeta(buf, "og:url", m.URL)
	writeMeta(buf, "og:type", m.OGType)
	writeMeta(buf, "og:site_name", m.SiteName)
	if m.JSONLD != "" {
		buf.WriteString("<script type=\"application/ld+json\">" + m.JSONLD + "</script>\n")
	}
	buf.WriteString("<style>\n" + style.stylesheet() + "</style>\n")
	buf.WriteString("</head>\n<body>\n")
	writeNode(buf, v.Body)
	buf.WriteString("\n</body>\n</html>\n")
}

func writeMeta(buf *bytes.Buffer, property, value string) {
	if value == "" {
		return
	}
	buf.WriteString("<meta property=\"" + property + "\" content=\"" + attr(value) + "\">\n")
}

func writeNode(buf *bytes.Buffer, n Node) {
	switch n.Kind {
	case KindText:
		buf.WriteString("<span" + classAttr(n.Role.Class()) + ">")
		buf.WriteString(templ.EscapeString(n.Text))
		buf.WriteString("</span>")
	case KindLink:
		href := markdown.SafeURL(n.Href)
		if href == "" {
			writeChildren(buf, n.Children)
			return
		}
		buf.WriteString("<a href=\"" + href + "\"" + classAttr(n.Role.Class()) + ">")
		writeChildren(buf, n.Children)
		buf.WriteString("</a>")
	case KindStack:
		axis := "stack-v"
		if n.Axis == Horizontal {
			axis = "stack-h"
		}
		tag := "div"
		switch n.Role {
		case RoleContent:
			tag = "main"
		case RoleFooter:
			tag = "footer"
		}
		buf.WriteString("<" + tag + classAttr("stack", axis, n.Role.Class()) + ">")
		writeChildren(buf, n.Children)
		buf.WriteString("</" + tag + ">")
	case KindList:
		buf.WriteString("<ul" + classAttr(n.Role.Class()) + ">")
		for _, c := range n.Children {
			buf.WriteString("<li>")
			writeNode(buf, c)
			buf.WriteString("</li>")
		}
		buf.WriteString("</ul>")
	case KindBadge:
		label := templ.EscapeString(n.Text)
		if href := markdown.SafeURL(n.Href); href != "" {
			buf.WriteString("<a href=\"" + href + "\" class=\"tag\">" + label + "</a>")
		} else {
			buf.WriteString("<span class=\"tag\">" + label + "</span>")
		}
	case KindFragment:
		buf.WriteString("<div class=\"fragment\">")
		buf.WriteString(n.Text)
		buf.WriteString("</div>")
	}
}

func writeChildren(buf *bytes.Buffer, nodes []Node) {
	for _, c := range nodes {
		writeNode(buf, c)
	}
}

func classAttr(classes ...string) string {
	var parts []string
	for _, c := range classes {
		if c != "" {
			parts = append(parts, c)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " class=\"" + strings.Join(parts, " ") + "\""
}

func attr(s string) string {
	return templ.EscapeString(s)
}
