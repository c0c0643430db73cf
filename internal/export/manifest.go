package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// A Manifest describes one static export of the storefront.
type Manifest struct {
	BasePath  string            `yaml:"base_path"`
	APIURL    string            `yaml:"api_url"`
	DistDir   string            `yaml:"dist_dir"`
	OutDir    string            `yaml:"out_dir"`
	Routes    []string          `yaml:"routes"`
	Snapshots map[string]string `yaml:"snapshots"`
}

var snapshotNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

func LoadManifest(path string) (Manifest, error) {
	const op = "export.LoadManifest"

	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: %w", op, err)
	}

	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("%s: %s: %w", op, path, err)
	}

	m.BasePath = NormalizeBasePath(m.BasePath)
	m.APIURL = strings.TrimRight(m.APIURL, "/")

	if err := m.Validate(); err != nil {
		return Manifest{}, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

func (m Manifest) Validate() error {
	var errs []error

	if m.DistDir == "" {
		errs = append(errs, errors.New("dist_dir is required"))
	}
	if m.OutDir == "" {
		errs = append(errs, errors.New("out_dir is required"))
	}
	if len(m.Snapshots) != 0 && m.APIURL == "" {
		errs = append(errs, errors.New("api_url is required for snapshots"))
	}

	for name, path := range m.Snapshots {
		if !snapshotNameRe.MatchString(name) {
			errs = append(errs, fmt.Errorf("snapshot %q: invalid name", name))
		}
		if !strings.HasPrefix(path, "/") {
			errs = append(errs, fmt.Errorf("snapshot %q: path must start with /", name))
		}
	}

	for _, route := range m.Routes {
		if !strings.HasPrefix(route, "/") || strings.Contains(route, "..") {
			errs = append(errs, fmt.Errorf("route %q: must be an absolute path", route))
		}
	}

	return errors.Join(errs...)
}

// NormalizeBasePath returns the base path in "/segment/" form.
// Empty input and "/" both mean the host root.
func NormalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return "/"
	}
	return "/" + p + "/"
}
