package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var ErrOutDirNotEmpty = errors.New("out dir is not empty")

const (
	indexFile    = "index.html"
	notFoundFile = "404.html"
	noJekyllFile = ".nojekyll"
	dataDir      = "data"
)

type Report struct {
	Snapshots int
	Rewritten int
	Routes    int
}

// An Exporter builds a static copy of the storefront servable from a
// subdirectory of a static host.
type Exporter struct {
	m       Manifest
	fetcher Fetcher
	rw      Rewriter
}

func New(m Manifest, f Fetcher) Exporter {
	return Exporter{m: m, fetcher: f, rw: NewRewriter(m.BasePath)}
}

// Export writes the site to the out dir. An existing non-empty out dir
// is removed only with force.
func (e Exporter) Export(ctx context.Context, force bool) (Report, error) {
	const op = "Exporter.Export"
	log := slog.With("op", op)

	var report Report

	if err := e.prepareOutDir(force); err != nil {
		return report, fmt.Errorf("%s: %w", op, err)
	}

	if err := os.CopyFS(e.m.OutDir, os.DirFS(e.m.DistDir)); err != nil {
		return report, fmt.Errorf("%s: copy dist: %w", op, err)
	}
	if _, err := os.Stat(filepath.Join(e.m.OutDir, indexFile)); err != nil {
		return report, fmt.Errorf("%s: dist has no %s: %w", op, indexFile, err)
	}
	log.Info("dist copied", "from", e.m.DistDir, "to", e.m.OutDir)

	n, err := e.writeSnapshots(ctx)
	report.Snapshots = n
	if err != nil {
		return report, fmt.Errorf("%s: %w", op, err)
	}

	report.Rewritten, err = e.rw.Dir(e.m.OutDir)
	if err != nil {
		return report, fmt.Errorf("%s: %w", op, err)
	}

	report.Routes, err = e.writeRoutes()
	if err != nil {
		return report, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("export complete",
		"base", e.rw.Base(),
		"snapshots", report.Snapshots,
		"rewritten", report.Rewritten,
		"routes", report.Routes,
	)
	return report, nil
}

func (e Exporter) prepareOutDir(force bool) error {
	entries, err := os.ReadDir(e.m.OutDir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return os.MkdirAll(e.m.OutDir, 0o755)
	case err != nil:
		return err
	case len(entries) == 0:
		return nil
	case !force:
		return fmt.Errorf("%w: %s", ErrOutDirNotEmpty, e.m.OutDir)
	}

	if err := os.RemoveAll(e.m.OutDir); err != nil {
		return err
	}
	return os.MkdirAll(e.m.OutDir, 0o755)
}

func (e Exporter) writeSnapshots(ctx context.Context) (int, error) {
	if len(e.m.Snapshots) == 0 {
		return 0, nil
	}

	dir := filepath.Join(e.m.OutDir, dataDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}

	names := make([]string, 0, len(e.m.Snapshots))
	for name := range e.m.Snapshots {
		names = append(names, name)
	}
	slices.Sort(names)

	for i, name := range names {
		body, err := e.fetcher.Fetch(ctx, e.m.Snapshots[name])
		if err != nil {
			return i, fmt.Errorf("snapshot %q: %w", name, err)
		}
		path := filepath.Join(dir, name+".json")
		if err := os.WriteFile(path, body, 0o644); err != nil {
			return i, err
		}
	}
	return len(names), nil
}

// writeRoutes copies the rewritten index to every route and the 404 page.
func (e Exporter) writeRoutes() (int, error) {
	index, err := os.ReadFile(filepath.Join(e.m.OutDir, indexFile))
	if err != nil {
		return 0, err
	}

	var n int
	for _, route := range e.m.Routes {
		route = strings.Trim(route, "/")
		if route == "" {
			continue
		}
		path := filepath.Join(e.m.OutDir, filepath.FromSlash(route), indexFile)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return n, err
		}
		if err := os.WriteFile(path, index, 0o644); err != nil {
			return n, err
		}
		n++
	}

	if err := os.WriteFile(filepath.Join(e.m.OutDir, notFoundFile), index, 0o644); err != nil {
		return n, err
	}
	if err := os.WriteFile(filepath.Join(e.m.OutDir, noJekyllFile), nil, 0o644); err != nil {
		return n, err
	}
	return n, nil
}
