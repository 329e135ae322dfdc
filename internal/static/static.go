// Package static serves the front-end assets from the public directory.
package static

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const fallbackPage = "404.html"

// contentTypes maps asset extensions to their MIME type. Unknown
// extensions fall back to text/html like the rest of the site.
var contentTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".json": "application/json",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
	".txt":  "text/plain",
	".webp": "image/webp",
	".avif": "image/avif",
}

type Handler struct {
	dir string
}

func New(publicDir string) *Handler {
	return &Handler{dir: publicDir}
}

// ServeHTTP resolves the request path inside the public directory and
// writes the asset with its extension-derived content type. "/" serves
// index.html. Any lookup failure resolves to a 404 with the fallback
// document, never a 500.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Clean with a leading slash so ".." segments cannot escape the
	// public directory.
	name := path.Clean("/" + r.URL.Path)
	if name == "/" {
		name = "/index.html"
	}

	filePath := filepath.Join(h.dir, filepath.FromSlash(name))
	content, err := os.ReadFile(filePath)
	if err != nil {
		h.serveNotFound(w)
		return
	}

	w.Header().Set("Content-Type", ContentType(filepath.Ext(filePath)))
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

func (h *Handler) serveNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusNotFound)

	content, err := os.ReadFile(filepath.Join(h.dir, fallbackPage))
	if err != nil {
		fmt.Fprint(w, "<h1>404 Not Found</h1>")
		return
	}
	w.Write(content)
}

// ContentType maps a file extension (with leading dot) to a MIME type.
func ContentType(ext string) string {
	if ct, ok := contentTypes[strings.ToLower(ext)]; ok {
		return ct
	}
	return "text/html"
}
