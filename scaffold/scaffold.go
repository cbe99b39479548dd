// Package scaffold provides the embedded files `pubsite new` writes into a
// fresh site directory.
package scaffold

import "embed"

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS
