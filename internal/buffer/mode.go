package buffer

import (
	"strings"

	"github.com/limetext/rubex"
)

// IndentUnit selects between space and tab indentation, per spec.md §3.
type IndentUnit int

const (
	IndentSpace IndentUnit = iota
	IndentTab
)

// Indentation describes a mode's indent width and unit.
type Indentation struct {
	Width int
	Unit  IndentUnit
}

// Pattern is one of the two ways a Mode matches a file name, per spec.md §3.
type Pattern struct {
	Suffix string // matches if non-empty
	Name   string // exact file name match if non-empty
}

// Matches reports whether p matches the given base file name.
func (p Pattern) Matches(baseName string) bool {
	if p.Suffix != "" && strings.HasSuffix(baseName, p.Suffix) {
		return true
	}
	if p.Name != "" && baseName == p.Name {
		return true
	}
	return false
}

// Mode is the per-language configuration assigned to a buffer on open.
type Mode struct {
	Name     string
	Scope    string
	Patterns []Pattern
	Shebangs []string

	CommentToken string // empty if the mode has no line-comment syntax

	Indent Indentation

	GrammarID string // empty if no grammar configured

	// InjectionRegex matches embedded-language regions (e.g. <script> in
	// HTML). CompileInjection compiles it; the editor calls that each time
	// it opens a file in this mode. InjectionRanges reports the matches,
	// but the syntax pipeline does not consult them.
	InjectionRegex string
	injection      *rubex.Regexp

	// TrimTrailingWhitespace resolves spec.md §9's open question: a
	// per-mode save-time trim flag.
	TrimTrailingWhitespace bool
}

// CompileInjection compiles InjectionRegex, if set. It is safe to call
// multiple times.
func (m *Mode) CompileInjection() error {
	if m.InjectionRegex == "" || m.injection != nil {
		return nil
	}
	re, err := rubex.Compile(m.InjectionRegex)
	if err != nil {
		return err
	}
	m.injection = re
	return nil
}

// InjectionRanges returns the byte ranges of text matching InjectionRegex,
// or nil if no injection regex is configured or compiled.
func (m *Mode) InjectionRanges(text string) [][2]int {
	if m.injection == nil {
		return nil
	}
	locs := m.injection.FindAllStringIndex(text, -1)
	if locs == nil {
		return nil
	}
	ranges := make([][2]int, len(locs))
	for i, l := range locs {
		ranges[i] = [2]int{l[0], l[1]}
	}
	return ranges
}

// Scratch is the built-in mode assigned to scratch/empty buffers.
var Scratch = Mode{Name: "scratch"}

// DetectMode picks the first mode (in declaration order) whose pattern
// matches baseName, or whose shebang matches firstLine; a shebang match
// overrides a suffix match per spec.md §3.
func DetectMode(modes []*Mode, baseName, firstLine string) *Mode {
	var bySuffix *Mode
	for _, m := range modes {
		for _, sh := range m.Shebangs {
			if sh != "" && strings.HasPrefix(firstLine, sh) {
				return m
			}
		}
	}
	for _, m := range modes {
		for _, p := range m.Patterns {
			if p.Matches(baseName) {
				if bySuffix == nil {
					bySuffix = m
				}
			}
		}
	}
	if bySuffix != nil {
		return bySuffix
	}
	return &Scratch
}
