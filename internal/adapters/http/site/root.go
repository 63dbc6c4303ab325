// Package site serves the published JSON artifacts as static files.
package site

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Prefix is the URL path the artifacts are served under.
const Prefix = "/data"

// Routes returns a route registrar serving files under root at Prefix.
// Directory listings are not served.
func Routes(root string) func(chi.Router) {
	files := http.StripPrefix(Prefix+"/", http.FileServer(noListing{http.Dir(root)}))
	return func(r chi.Router) {
		r.Get(Prefix+"/*", func(w http.ResponseWriter, req *http.Request) {
			if strings.HasSuffix(req.URL.Path, "/") {
				http.NotFound(w, req)
				return
			}
			w.Header().Set("Cache-Control", "no-cache")
			files.ServeHTTP(w, req)
		})
	}
}

// Exists reports whether root looks like a published output directory.
func Exists(root string) bool {
	_, err := os.Stat(filepath.Join(root, "metadata.json"))
	return err == nil
}

// noListing hides directories so a missing index never lists files.
type noListing struct {
	fs http.FileSystem
}

func (n noListing) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
