package httphandler

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
)

// RegisterSPA serves the built single page app from fsys. Paths without
// a matching file get index.html so client side routes survive reloads.
// Unknown /v1/ paths stay json 404s.
func RegisterSPA(mux *http.ServeMux, fsys fs.FS) {
	mux.Handle("GET /", spaHandler{fsys: fsys, files: http.FileServerFS(fsys)})
}

type spaHandler struct {
	fsys  fs.FS
	files http.Handler
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "spaHandler.ServeHTTP"
	log := slog.With("op", op)

	if r.URL.Path == "/v1" || strings.HasPrefix(r.URL.Path, "/v1/") {
		writeJSON(w, log, http.StatusNotFound, errorResponse{"not found"})
		return
	}

	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if name == "" {
		name = "."
	}
	info, err := fs.Stat(h.fsys, name)
	if err == nil && !info.IsDir() {
		h.files.ServeHTTP(w, r)
		return
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Error("failed to stat", "name", name, "err", err)
	}

	index, err := fs.ReadFile(h.fsys, "index.html")
	if err != nil {
		log.Error("index.html is missing", "err", err)
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write(index); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}
