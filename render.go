package pubsite

import (
	"bufio"
	"context"
	"os"
	"path/filepath"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// renderFile renders cmp into path, creating parent directories.
func renderFile(ctx context.Context, path string, cmp templ.Component) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &OutputError{Path: path, Err: err}
	}
	f, err := os.Create(path)
	if err != nil {
		return &OutputError{Path: path, Err: err}
	}
	w := bufio.NewWriter(f)
	if err := cmp.Render(ctx, w); err != nil {
		f.Close()
		return &OutputError{Path: path, Err: err}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return &OutputError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &OutputError{Path: path, Err: err}
	}
	return nil
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}
