// Package web serves the single-page browser UI.
package web

import (
	"embed"
	"net/http"
)

//go:embed static/index.html
var static embed.FS

// HandleIndex serves the UI page.
func HandleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "ui unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; script-src 'self' 'unsafe-inline'")
	w.WriteHeader(http.StatusOK)
	w.Write(page)
}
