// Package ui contains the embedded live-monitor page.
package ui

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var assets embed.FS

// FS returns a http.FileSystem rooted at the embedded static directory.
func FS() http.FileSystem {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		return http.FS(assets)
	}
	return http.FS(sub)
}
