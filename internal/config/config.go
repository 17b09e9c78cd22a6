package config

import (
	"os"

	"github.com/pkg/errors"

	"github.com/zee-editor/zee/internal/buffer"
)

// GrammarSource describes how a mode's tree-sitter grammar is obtained;
// spec.md §6 names only the Git(git, rev, path?) shape.
type GrammarSource struct {
	Git string
	Rev string
	Path string
}

// GrammarRef names a mode's grammar id and, optionally, where to fetch it.
type GrammarRef struct {
	ID     string
	Source *GrammarSource
}

// ModeConfig is one `Mode(...)` entry under config.ron's modes list.
type ModeConfig struct {
	Name           string
	Scope          string
	InjectionRegex string
	Patterns       []buffer.Pattern
	Shebangs       []string
	CommentToken   string
	Indent         buffer.Indentation
	Grammar        *GrammarRef
}

// Config is the parsed contents of config.ron, per spec.md §6.
type Config struct {
	ThemeIndex int
	ThemeName  string // mutually exclusive with ThemeIndex; empty if unset
	Modes      []ModeConfig
}

// Load reads and parses the config.ron file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "config: reading config.ron")
	}
	return Parse(string(data))
}

// Parse parses RON text directly, primarily for tests and --init.
func Parse(text string) (Config, error) {
	v, err := parse(text)
	if err != nil {
		return Config{}, err
	}
	sv, ok := v.(*structValue)
	if !ok || sv.name != "" {
		return Config{}, &ParseError{Msg: "top-level value must be an unnamed record"}
	}
	return fromRecord(sv)
}

var topLevelFields = map[string]bool{
	"theme_index": true,
	"theme":       true,
	"modes":       true,
}

func fromRecord(sv *structValue) (Config, error) {
	for name := range sv.fields {
		if !topLevelFields[name] {
			return Config{}, &ParseError{Msg: "unknown top-level field " + name}
		}
	}
	var cfg Config
	if v, ok := sv.fields["theme_index"]; ok {
		n, ok := v.(int64)
		if !ok {
			return Config{}, &ParseError{Msg: "theme_index must be an integer"}
		}
		cfg.ThemeIndex = int(n)
	}
	if v, ok := sv.fields["theme"]; ok {
		s, ok := v.(string)
		if !ok {
			return Config{}, &ParseError{Msg: "theme must be a string"}
		}
		cfg.ThemeName = s
	}
	if v, ok := sv.fields["modes"]; ok {
		list, ok := v.([]value)
		if !ok {
			return Config{}, &ParseError{Msg: "modes must be a list"}
		}
		for _, item := range list {
			m, err := modeFromValue(item)
			if err != nil {
				return Config{}, err
			}
			cfg.Modes = append(cfg.Modes, m)
		}
	}
	return cfg, nil
}

var modeFields = map[string]bool{
	"name": true, "scope": true, "injection_regex": true, "patterns": true,
	"shebangs": true, "comment": true, "indentation": true, "grammar": true,
}

func modeFromValue(v value) (ModeConfig, error) {
	sv, ok := v.(*structValue)
	if !ok || sv.name != "Mode" {
		return ModeConfig{}, &ParseError{Msg: "expected Mode(...) entry"}
	}
	for name := range sv.fields {
		if !modeFields[name] {
			return ModeConfig{}, &ParseError{Msg: "unknown Mode field " + name}
		}
	}

	var m ModeConfig
	var err error
	if s, ok := sv.fields["name"].(string); ok {
		m.Name = s
	} else {
		return ModeConfig{}, &ParseError{Msg: "Mode.name must be a string"}
	}
	if s, ok := sv.fields["scope"].(string); ok {
		m.Scope = s
	}
	if s, ok := sv.fields["injection_regex"].(string); ok {
		m.InjectionRegex = s
	}
	if v, ok := sv.fields["patterns"]; ok {
		if m.Patterns, err = patternsFromValue(v); err != nil {
			return ModeConfig{}, err
		}
	}
	if v, ok := sv.fields["shebangs"]; ok {
		list, ok := v.([]value)
		if !ok {
			return ModeConfig{}, &ParseError{Msg: "Mode.shebangs must be a list"}
		}
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return ModeConfig{}, &ParseError{Msg: "Mode.shebangs entries must be strings"}
			}
			m.Shebangs = append(m.Shebangs, s)
		}
	}
	if v, ok := sv.fields["comment"]; ok {
		csv, ok := v.(*structValue)
		if !ok {
			return ModeConfig{}, &ParseError{Msg: "Mode.comment must be a record"}
		}
		if tok, ok := csv.fields["token"].(string); ok {
			m.CommentToken = tok
		}
	}
	if v, ok := sv.fields["indentation"]; ok {
		if m.Indent, err = indentFromValue(v); err != nil {
			return ModeConfig{}, err
		}
	}
	if v, ok := sv.fields["grammar"]; ok {
		if m.Grammar, err = grammarFromValue(v); err != nil {
			return ModeConfig{}, err
		}
	}
	return m, nil
}

func patternsFromValue(v value) ([]buffer.Pattern, error) {
	list, ok := v.([]value)
	if !ok {
		return nil, &ParseError{Msg: "patterns must be a list"}
	}
	var out []buffer.Pattern
	for _, item := range list {
		sv, ok := item.(*structValue)
		if !ok || len(sv.positional) != 1 {
			return nil, &ParseError{Msg: "pattern entries must be Suffix(\"...\") or Name(\"...\")"}
		}
		s, ok := sv.positional[0].(string)
		if !ok {
			return nil, &ParseError{Msg: "pattern argument must be a string"}
		}
		switch sv.name {
		case "Suffix":
			out = append(out, buffer.Pattern{Suffix: s})
		case "Name":
			out = append(out, buffer.Pattern{Name: s})
		default:
			return nil, &ParseError{Msg: "unknown pattern kind " + sv.name}
		}
	}
	return out, nil
}

func indentFromValue(v value) (buffer.Indentation, error) {
	sv, ok := v.(*structValue)
	if !ok {
		return buffer.Indentation{}, &ParseError{Msg: "indentation must be a record"}
	}
	var ind buffer.Indentation
	if w, ok := sv.fields["width"].(int64); ok {
		ind.Width = int(w)
	}
	if u, ok := sv.fields["unit"].(*structValue); ok {
		switch u.name {
		case "Space":
			ind.Unit = buffer.IndentSpace
		case "Tab":
			ind.Unit = buffer.IndentTab
		default:
			return buffer.Indentation{}, &ParseError{Msg: "indentation.unit must be Space or Tab"}
		}
	}
	return ind, nil
}

func grammarFromValue(v value) (*GrammarRef, error) {
	sv, ok := v.(*structValue)
	if !ok {
		return nil, &ParseError{Msg: "grammar must be a record"}
	}
	ref := &GrammarRef{}
	if id, ok := sv.fields["id"].(string); ok {
		ref.ID = id
	} else {
		return nil, &ParseError{Msg: "grammar.id must be a string"}
	}
	if v, ok := sv.fields["source"]; ok {
		gsv, ok := v.(*structValue)
		if !ok || gsv.name != "Git" {
			return nil, &ParseError{Msg: "grammar.source must be Git(...)"}
		}
		src := &GrammarSource{}
		if g, ok := gsv.fields["git"].(string); ok {
			src.Git = g
		}
		if rev, ok := gsv.fields["rev"].(string); ok {
			src.Rev = rev
		}
		if p, ok := gsv.fields["path"].(string); ok {
			src.Path = p
		}
		ref.Source = src
	}
	return ref, nil
}
