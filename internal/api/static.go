package api

import (
	"net/http"
	"os"
	"path/filepath"
)

// spaHandler serves the frontend bundle. Paths that do not match a file on
// disk fall back to index.html so client-side routes resolve.
type spaHandler struct {
	staticDir string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(h.staticDir, filepath.Clean("/"+r.URL.Path))

	info, err := os.Stat(path)
	if os.IsNotExist(err) || (err == nil && info.IsDir() && r.URL.Path != "/") {
		http.ServeFile(w, r, filepath.Join(h.staticDir, "index.html"))
		return
	}
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	http.FileServer(http.Dir(h.staticDir)).ServeHTTP(w, r)
}
