package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// UploadsHandler serves stored files read-only under /uploads/.
// Directories are reported as not found, so there is no listing.
func UploadsHandler(dir string) http.Handler {
	return http.StripPrefix("/uploads/", http.FileServer(filesOnly{http.Dir(dir)}))
}

type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}

// FrontendHandler serves the pre-built front-end bundle for GET and HEAD.
// Directories resolve to their index.html. Unknown paths without an extension
// fall back to the root index.html for client-side routing; unknown assets
// are 404. Files are served as named, so /index.html is not redirected.
func FrontendHandler(dir string) http.HandlerFunc {
	rootIndex := filepath.Join(dir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		upath := path.Clean("/" + r.URL.Path)
		target := filepath.Join(dir, filepath.FromSlash(upath))

		info, err := os.Stat(target)
		switch {
		case err == nil && !info.IsDir():
			serveFile(w, r, target)
		case err == nil:
			serveFile(w, r, filepath.Join(target, "index.html"))
		case path.Ext(upath) == "":
			serveFile(w, r, rootIndex)
		default:
			http.NotFound(w, r)
		}
	}
}

// serveFile writes a regular file with content type and range support.
func serveFile(w http.ResponseWriter, r *http.Request, name string) {
	f, err := os.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
