package httpapi

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// RegisterStatic serves the built web client. Unknown non-API paths fall
// back to index.html so client-side routing works; dashboard and analyze
// pages bounce anonymous visitors to the login screen.
func RegisterStatic(r chi.Router, dir string) {
	if dir == "" {
		return
	}
	fileServer := http.FileServer(http.Dir(dir))

	serve := func(w http.ResponseWriter, req *http.Request) {
		path := filepath.Join(dir, filepath.Clean("/"+req.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, req)
			return
		}
		http.ServeFile(w, req, filepath.Join(dir, "index.html"))
	}

	r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
		if strings.HasPrefix(req.URL.Path, "/dashboard") || strings.HasPrefix(req.URL.Path, "/analyze") {
			RedirectIfAnonymous(http.HandlerFunc(serve)).ServeHTTP(w, req)
			return
		}
		serve(w, req)
	})
}
