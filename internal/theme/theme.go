// Package theme implements spec.md §6's highlight palettes: embedded
// built-in YAML themes plus user themes loaded from the config directory.
package theme

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

//go:embed assets/*.yaml
var builtinFS embed.FS

// Style is the rendering for one highlight name.
type Style struct {
	Name       string `yaml:"name"`
	Foreground string `yaml:"foreground"`
	Background string `yaml:"background,omitempty"`
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
}

// Theme is an ordered set of styles keyed by highlight name.
type Theme struct {
	Name   string  `yaml:"name"`
	Styles []Style `yaml:"styles"`
}

// Style looks up the rendering for a highlight name, returning ok=false
// if the theme has no entry for it (the caller should fall back to plain
// text, never an error: an incomplete theme is not a ConfigParse failure).
func (t Theme) Style(name string) (Style, bool) {
	for _, s := range t.Styles {
		if s.Name == name {
			return s, true
		}
	}
	return Style{}, false
}

// Builtins returns the embedded default themes in a stable order:
// default-dark first, then default-light, matching config.ron's default
// theme_index: 0 selecting the dark palette.
func Builtins() ([]Theme, error) {
	names := []string{"default-dark", "default-light"}
	out := make([]Theme, 0, len(names))
	for _, n := range names {
		data, err := builtinFS.ReadFile("assets/" + n + ".yaml")
		if err != nil {
			return nil, errors.Wrapf(err, "theme: reading embedded %s", n)
		}
		var th Theme
		if err := yaml.Unmarshal(data, &th); err != nil {
			return nil, errors.Wrapf(err, "theme: parsing embedded %s", n)
		}
		out = append(out, th)
	}
	return out, nil
}

// UserThemes loads every *.yaml file under <configDir>/themes/, per
// spec.md §6.2. A missing themes directory is not an error: it simply
// contributes no additional themes.
func UserThemes(configDir string) ([]Theme, error) {
	dir := filepath.Join(configDir, "themes")
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "theme: reading themes directory")
	}
	var out []Theme
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "theme: reading %s", e.Name())
		}
		var th Theme
		if err := yaml.Unmarshal(data, &th); err != nil {
			return nil, errors.Wrapf(err, "theme: parsing %s", e.Name())
		}
		out = append(out, th)
	}
	return out, nil
}

// Registry holds every theme available to the running editor, in the
// selection order config.ron's theme_index indexes into: built-ins first
// in Builtins' order, then user themes in directory order.
type Registry struct {
	themes []Theme
}

// NewRegistry loads built-in and user themes into a Registry.
func NewRegistry(configDir string) (*Registry, error) {
	builtins, err := Builtins()
	if err != nil {
		return nil, err
	}
	user, err := UserThemes(configDir)
	if err != nil {
		return nil, err
	}
	return &Registry{themes: append(builtins, user...)}, nil
}

// ByIndex returns the theme at position i, wrapping around so "cycle
// theme" (spec.md §4.4) always has a next theme to offer.
func (r *Registry) ByIndex(i int) Theme {
	n := len(r.themes)
	return r.themes[((i%n)+n)%n]
}

// ByName returns the theme with the given name.
func (r *Registry) ByName(name string) (Theme, int, error) {
	for i, t := range r.themes {
		if t.Name == name {
			return t, i, nil
		}
	}
	return Theme{}, 0, fmt.Errorf("theme: no theme named %q", name)
}

// Len reports how many themes are registered.
func (r *Registry) Len() int { return len(r.themes) }
