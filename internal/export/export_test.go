package export

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBasePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{"  ", "/"},
		{"shop", "/shop/"},
		{"/shop", "/shop/"},
		{"/shop/", "/shop/"},
		{"choco/shop/", "/choco/shop/"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBasePath(tt.in))
		})
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestLoadManifest(t *testing.T) {
	t.Run("Ok", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "export.yaml")
		writeFile(t, path, `
base_path: choco-shop
api_url: http://localhost:8080/
dist_dir: web/dist
out_dir: build/pages
routes: [/, /catalog, /events]
snapshots:
  products: /v1/products?limit=100
  theme: /v1/theme
`)
		m, err := LoadManifest(path)
		require.NoError(t, err)

		want := Manifest{
			BasePath: "/choco-shop/",
			APIURL:   "http://localhost:8080",
			DistDir:  "web/dist",
			OutDir:   "build/pages",
			Routes:   []string{"/", "/catalog", "/events"},
			Snapshots: map[string]string{
				"products": "/v1/products?limit=100",
				"theme":    "/v1/theme",
			},
		}
		if diff := cmp.Diff(want, m); diff != "" {
			t.Errorf("manifest mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("UnknownField", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "export.yaml")
		writeFile(t, path, "dist_dir: d\nout_dir: o\nbase: /x\n")
		_, err := LoadManifest(path)
		require.ErrorContains(t, err, "base")
	})

	t.Run("Invalid", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "export.yaml")
		writeFile(t, path, `
routes: [catalog]
snapshots:
  Bad Name: v1/theme
`)
		_, err := LoadManifest(path)
		require.Error(t, err)
		for _, want := range []string{
			"dist_dir is required",
			"out_dir is required",
			"api_url is required",
			"invalid name",
			"path must start with /",
			"must be an absolute path",
		} {
			assert.ErrorContains(t, err, want)
		}
	})
}

func TestRewriterURL(t *testing.T) {
	rw := NewRewriter("/shop")
	tests := []struct {
		in   string
		want string
	}{
		{"/", "/shop/"},
		{"/assets/app.js", "/shop/assets/app.js"},
		{"/shopping", "/shop/shopping"},
		{"/shop", "/shop"},
		{"/shop/assets/app.js", "/shop/assets/app.js"},
		{"//cdn.example/x.js", "//cdn.example/x.js"},
		{"https://example.com/x", "https://example.com/x"},
		{"assets/x.png", "assets/x.png"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, rw.URL(tt.in))
		})
	}

	assert.Equal(t, "/assets/app.js", NewRewriter("/").URL("/assets/app.js"))
}

func TestRewriterHTML(t *testing.T) {
	in := `<!doctype html>
<html><head lang="en"><link rel="stylesheet" href="/assets/app.css">
<script type="module" src='/assets/app.js'></script>
<script src="//cdn.example/lib.js"></script></head>
<body style="background: url(/img/bg.png)"><a href="/shop/done">x</a><a href="/">home</a></body></html>`

	want := `<!doctype html>
<html><head lang="en"><meta name="shop-static" content="/shop/data/"><link rel="stylesheet" href="/shop/assets/app.css">
<script type="module" src='/shop/assets/app.js'></script>
<script src="//cdn.example/lib.js"></script></head>
<body style="background: url(/shop/img/bg.png)"><a href="/shop/done">x</a><a href="/shop/">home</a></body></html>`

	rw := NewRewriter("shop")
	got := string(rw.HTML([]byte(in)))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("html mismatch (-want +got):\n%s", diff)
	}

	// rewriting twice changes nothing
	assert.Equal(t, got, string(rw.HTML([]byte(got))))
}

func TestRewriterRoot(t *testing.T) {
	in := `<html><head><link href="/a.css"></head></html>`
	got := string(NewRewriter("").HTML([]byte(in)))
	assert.Equal(t,
		`<html><head><meta name="shop-static" content="/data/"><link href="/a.css"></head></html>`,
		got)
}

func TestRewriterCSS(t *testing.T) {
	in := `@font-face{src:url("/fonts/a.woff2") format("woff2")}
.hero{background:url( /img/hero.jpg )}
.logo{background:url('//cdn.example/logo.svg')}
.icon{background:url(data:image/png;base64,AAA)}`
	want := `@font-face{src:url("/shop/fonts/a.woff2") format("woff2")}
.hero{background:url( /shop/img/hero.jpg )}
.logo{background:url('//cdn.example/logo.svg')}
.icon{background:url(data:image/png;base64,AAA)}`

	got := string(NewRewriter("/shop/").CSS([]byte(in)))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("css mismatch (-want +got):\n%s", diff)
	}
}

func TestFetcher(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/flaky":
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`{"ok":true}`))
		case "/v1/html":
			_, _ = w.Write([]byte(`<html></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL, srv.Client())
	ctx := context.Background()

	body, err := f.Fetch(ctx, "/v1/flaky")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, int32(3), calls.Load())

	_, err = f.Fetch(ctx, "/v1/html")
	require.ErrorContains(t, err, "not json")

	_, err = f.Fetch(ctx, "/v1/missing")
	require.ErrorContains(t, err, "status 404")
}

func TestExport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/products":
			_, _ = w.Write([]byte(`[{"slug":"dark-70"}]`))
		case "/v1/theme":
			_, _ = w.Write([]byte(`{"brand_name":"Choco"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	dist := filepath.Join(dir, "dist")
	out := filepath.Join(dir, "out")
	writeFile(t, filepath.Join(dist, "index.html"),
		`<html><head><script src="/assets/app.js"></script></head></html>`)
	writeFile(t, filepath.Join(dist, "assets", "app.css"), `a{background:url(/img/a.png)}`)
	writeFile(t, filepath.Join(dist, "assets", "app.js"), `fetch("/v1/products")`)

	m := Manifest{
		BasePath: "/choco/",
		APIURL:   srv.URL,
		DistDir:  dist,
		OutDir:   out,
		Routes:   []string{"/", "/catalog", "/product/dark-70"},
		Snapshots: map[string]string{
			"products": "/v1/products",
			"theme":    "/v1/theme",
		},
	}
	e := New(m, NewFetcher(srv.URL, srv.Client()))

	report, err := e.Export(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, Report{Snapshots: 2, Rewritten: 2, Routes: 2}, report)

	index := `<html><head><meta name="shop-static" content="/choco/data/">` +
		`<script src="/choco/assets/app.js"></script></head></html>`
	assert.Equal(t, index, readFile(t, filepath.Join(out, "index.html")))
	assert.Equal(t, index, readFile(t, filepath.Join(out, "catalog", "index.html")))
	assert.Equal(t, index, readFile(t, filepath.Join(out, "product", "dark-70", "index.html")))
	assert.Equal(t, index, readFile(t, filepath.Join(out, "404.html")))
	assert.Equal(t, "", readFile(t, filepath.Join(out, ".nojekyll")))
	assert.Equal(t, `a{background:url(/choco/img/a.png)}`,
		readFile(t, filepath.Join(out, "assets", "app.css")))
	assert.Equal(t, `fetch("/v1/products")`,
		readFile(t, filepath.Join(out, "assets", "app.js")))
	assert.JSONEq(t, `[{"slug":"dark-70"}]`,
		readFile(t, filepath.Join(out, "data", "products.json")))
	assert.JSONEq(t, `{"brand_name":"Choco"}`,
		readFile(t, filepath.Join(out, "data", "theme.json")))

	t.Run("OutDirNotEmpty", func(t *testing.T) {
		_, err := e.Export(context.Background(), false)
		require.ErrorIs(t, err, ErrOutDirNotEmpty)
	})

	t.Run("Force", func(t *testing.T) {
		writeFile(t, filepath.Join(out, "stale.txt"), "old")
		_, err := e.Export(context.Background(), true)
		require.NoError(t, err)
		assert.NoFileExists(t, filepath.Join(out, "stale.txt"))
		assert.FileExists(t, filepath.Join(out, "index.html"))
	})

	t.Run("SnapshotFails", func(t *testing.T) {
		m := m
		m.OutDir = filepath.Join(dir, "broken")
		m.Snapshots = map[string]string{"missing": "/v1/nope"}
		_, err := New(m, NewFetcher(srv.URL, srv.Client())).Export(context.Background(), false)
		require.ErrorContains(t, err, `snapshot "missing"`)
	})
}

func TestRewriterDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), `<head></head><img src="/a.png">`)
	writeFile(t, filepath.Join(dir, "x", "s.css"), `b{background:url(/b.png)}`)
	writeFile(t, filepath.Join(dir, "x", "plain.css"), `b{color:red}`)
	writeFile(t, filepath.Join(dir, "data.json"), `{"href":"/a"}`)

	n, err := NewRewriter("/p").Dir(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, `<head><meta name="shop-static" content="/p/data/"></head><img src="/p/a.png">`,
		readFile(t, filepath.Join(dir, "index.html")))
	assert.Equal(t, `{"href":"/a"}`, readFile(t, filepath.Join(dir, "data.json")))
}
