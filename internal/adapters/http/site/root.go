// Package site serves the embedded landing page.
package site

import (
	"embed"
	"net/http"
)

//go:embed static/index.html
var static embed.FS

// Register serves the landing page at exactly "/". Other unmatched paths
// stay 404.
func Register(mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, static, "static/index.html")
	})
}
