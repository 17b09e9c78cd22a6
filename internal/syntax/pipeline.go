// Package syntax implements the incremental highlighting pipeline of
// spec.md §4.5: the main loop records each committed edit as a TreeEdit,
// and a worker applies the pending edits to the last-known tree, reparses,
// and evaluates highlights; a result is only accepted if it is not stale.
package syntax

import (
	"context"
	"sort"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/zee-editor/zee/internal/buffer"
	"github.com/zee-editor/zee/internal/grammar"
)

// TreeEdit mirrors spec.md §4.5 step 1 for byte offsets only (no row/col):
// the start, old end and new end of one committed edit, used to keep a
// stale tree's node positions roughly correct between reparses.
type TreeEdit struct {
	StartByte, OldEndByte, NewEndByte uint32
}

// ToInputEdit converts a TreeEdit into the tree-sitter binding's edit
// record, leaving point fields zeroed (this pipeline only tracks byte
// offsets; tree-sitter recomputes rows/cols on reparse).
func (e TreeEdit) ToInputEdit() sitter.InputEdit {
	return sitter.InputEdit{
		StartIndex:  e.StartByte,
		OldEndIndex: e.OldEndByte,
		NewEndIndex: e.NewEndByte,
	}
}

// Job is one enqueued reparse request, tagged with the buffer id and the
// edit version it is parsing toward.
type Job struct {
	BufferID   buffer.ID
	PostVer    int
	Content    string
	OldTree    *sitter.Tree
	PendingEdits []TreeEdit
	Grammar    *grammar.Grammar
}

// Result is what a worker posts back to the main loop.
type Result struct {
	BufferID buffer.ID
	PostVer  int
	Tree     *sitter.Tree
	Spans    []buffer.Span
	Err      error
}

// Execute runs job.Grammar's incremental parse plus highlight-query
// evaluation. It is safe to call from a worker goroutine: it touches no
// shared editor state, only the immutable snapshot captured in job.
func Execute(ctx context.Context, job Job) Result {
	res := Result{BufferID: job.BufferID, PostVer: job.PostVer}
	if job.Grammar == nil {
		return res // no grammar configured: yield no spans
	}
	lang, err := job.Grammar.Language()
	if err != nil {
		res.Err = err
		return res
	}

	parser := sitter.NewParser()
	if err := parser.SetLanguage(lang); err != nil {
		res.Err = err
		return res
	}

	old := job.OldTree
	for _, e := range job.PendingEdits {
		if old != nil {
			old.Edit(e.ToInputEdit())
		}
	}

	tree, err := parser.ParseString(ctx, old, []byte(job.Content))
	if err != nil {
		res.Err = err
		return res
	}
	res.Tree = tree
	res.Spans = job.Grammar.Highlight(tree, job.Content)
	return res
}

// Accept implements spec.md §4.5 step 4: a result is accepted only if it is
// not older than the current parse state, and only if no newer edit has
// landed on the buffer since the job started (liveVersion is the buffer's
// current edit version at the moment Accept is called). A rejected result's
// tree is closed immediately since nothing will ever reference it; an
// accepted result closes out the tree it replaces.
func Accept(current buffer.ParseState, result Result, liveVersion int) (buffer.ParseState, bool) {
	if result.Err != nil || result.PostVer < current.Version || liveVersion != result.PostVer {
		closeTree(result.Tree)
		return current, false
	}
	spans := append([]buffer.Span(nil), result.Spans...)
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	closeTree(current.Tree)
	return buffer.ParseState{Version: result.PostVer, Spans: spans, Tree: result.Tree}, true
}

// closeTree releases a *sitter.Tree's native cgo-backed memory; current.Tree
// arrives as the interface{} buffer.ParseState stores it as, so the type
// assertion also tolerates a nil or zero ParseState.
func closeTree(t interface{}) {
	if tree, ok := t.(*sitter.Tree); ok && tree != nil {
		tree.Close()
	}
}

// SpansInRange returns the spans overlapping [start, end), via binary
// search on the sorted span slice.
func SpansInRange(spans []buffer.Span, start, end int) []buffer.Span {
	lo := sort.Search(len(spans), func(i int) bool { return spans[i].End > start })
	var out []buffer.Span
	for i := lo; i < len(spans) && spans[i].Start < end; i++ {
		out = append(out, spans[i])
	}
	return out
}
