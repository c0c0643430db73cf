package export

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// MetaName is the meta tag the SPA looks up to switch to snapshots.
const MetaName = "shop-static"

var (
	attrURLRe = regexp.MustCompile(`(?i)\s(?:href|src|action|poster)\s*=\s*["'](/[^"']*)["']`)
	cssURLRe  = regexp.MustCompile(`url\(\s*["']?(/[^)"'\s]*)["']?\s*\)`)
	headRe    = regexp.MustCompile(`(?i)<head(?:\s[^>]*)?>`)
)

// A Rewriter prefixes root-absolute URLs with the base path.
type Rewriter struct {
	base string
}

func NewRewriter(basePath string) Rewriter {
	return Rewriter{base: NormalizeBasePath(basePath)}
}

func (r Rewriter) Base() string {
	return r.base
}

func (r Rewriter) URL(u string) string {
	switch {
	case r.base == "/":
		return u
	case !strings.HasPrefix(u, "/"), strings.HasPrefix(u, "//"):
		return u
	case u == strings.TrimSuffix(r.base, "/"), strings.HasPrefix(u, r.base):
		return u
	}
	return r.base + u[1:]
}

func (r Rewriter) CSS(b []byte) []byte {
	return replaceGroup(cssURLRe, b, r.URL)
}

// HTML rewrites attribute and inline style URLs and injects the
// snapshot meta tag into the head.
func (r Rewriter) HTML(b []byte) []byte {
	b = replaceGroup(attrURLRe, b, r.URL)
	b = replaceGroup(cssURLRe, b, r.URL)
	return r.injectMeta(b)
}

func (r Rewriter) metaTag() string {
	return fmt.Sprintf(`<meta name="%s" content="%sdata/">`, MetaName, r.base)
}

func (r Rewriter) injectMeta(b []byte) []byte {
	if bytes.Contains(b, []byte(`name="`+MetaName+`"`)) {
		return b
	}
	loc := headRe.FindIndex(b)
	if loc == nil {
		return b
	}

	out := make([]byte, 0, len(b)+64)
	out = append(out, b[:loc[1]]...)
	out = append(out, r.metaTag()...)
	out = append(out, b[loc[1]:]...)
	return out
}

// Dir rewrites every .html and .css file under root in place.
func (r Rewriter) Dir(root string) (int, error) {
	const op = "Rewriter.Dir"
	log := slog.With("op", op)

	var n int
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		var rewrite func([]byte) []byte
		switch strings.ToLower(filepath.Ext(path)) {
		case ".html", ".htm":
			rewrite = r.HTML
		case ".css":
			rewrite = r.CSS
		default:
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out := rewrite(data)
		if bytes.Equal(out, data) {
			return nil
		}
		if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
			return err
		}
		n++
		log.Debug("rewritten", "file", path)
		return nil
	})
	if err != nil {
		return n, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// replaceGroup replaces the first submatch of every match of re.
func replaceGroup(re *regexp.Regexp, b []byte, fn func(string) string) []byte {
	matches := re.FindAllSubmatchIndex(b, -1)
	if matches == nil {
		return b
	}

	var out bytes.Buffer
	out.Grow(len(b))
	last := 0
	for _, m := range matches {
		start, end := m[2], m[3]
		out.Write(b[last:start])
		out.WriteString(fn(string(b[start:end])))
		last = end
	}
	out.Write(b[last:])
	return out.Bytes()
}
