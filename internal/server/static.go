package server

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed web
var webFS embed.FS

// staticHandler serves the embedded single-page UI.
func staticHandler() http.Handler {
	sub, err := fs.Sub(webFS, "web")
	if err != nil {
		// The web directory is compiled in; this cannot fail at runtime.
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
