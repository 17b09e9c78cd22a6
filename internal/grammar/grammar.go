// Package grammar maintains the registry of compiled tree-sitter grammars
// referenced by a Mode's GrammarID (spec.md §3's "Grammar: opaque parser
// handle... owns a compiled tree-sitter language plus its highlight
// query"). Grammars are resolved lazily so a missing or failed-to-load
// grammar degrades the mode to no highlighting instead of aborting startup
// (spec.md §9).
package grammar

import (
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/zee-editor/zee/internal/buffer"
)

// Loader resolves a language lazily; it is called at most once per
// Grammar, with the result cached.
type Loader func() (*sitter.Language, error)

// Grammar is one named, lazily-resolved tree-sitter language plus a
// highlight table mapping tree-sitter node types to highlight names. A real
// `.scm` highlight-query engine is out of this core's scope (spec.md §1
// treats the tree-sitter library itself as an external collaborator); this
// type-to-name table plays the query's role for the grammars bundled here.
type Grammar struct {
	ID        string
	Highlights map[string]string // node type -> highlight name

	load Loader
	once sync.Once
	lang *sitter.Language
	err  error
}

// New registers a grammar with a lazy loader and highlight table.
func New(id string, load Loader, highlights map[string]string) *Grammar {
	return &Grammar{ID: id, load: load, Highlights: highlights}
}

// Language resolves and caches the compiled language, returning a
// GrammarLoad-class error (non-fatal to the caller) on failure. Safe to
// call concurrently: buffers sharing a grammar id are parsed on separate
// scheduler workers.
func (g *Grammar) Language() (*sitter.Language, error) {
	g.once.Do(func() {
		g.lang, g.err = g.load()
	})
	return g.lang, g.err
}

// Highlight walks every node of tree, named or anonymous, and emits a
// highlight span for each node whose type is present in g.Highlights.
func (g *Grammar) Highlight(tree *sitter.Tree, content string) []buffer.Span {
	if tree == nil {
		return nil
	}
	var spans []buffer.Span
	root := tree.RootNode()
	walk(root, g.Highlights, &spans)
	return spans
}

func walk(n sitter.Node, highlights map[string]string, out *[]buffer.Span) {
	if name, ok := highlights[n.Type()]; ok {
		*out = append(*out, buffer.Span{
			Start: int(n.StartByte()),
			End:   int(n.EndByte()),
			Name:  name,
		})
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		walk(n.Child(uint32(i)), highlights, out)
	}
}
