// Package buffer ties together the rope, edit-tree history, and cursor
// packages into the editable unit spec.md §3 describes: a stable-identity
// buffer with a dirty flag, a monotonically increasing edit version, an
// associated mode, and an optional parse state owned here but read by the
// render/syntax layers.
package buffer

import (
	"time"

	"github.com/limetext/util"
	"github.com/pkg/errors"

	"github.com/zee-editor/zee/internal/cursor"
	"github.com/zee-editor/zee/internal/history"
	"github.com/zee-editor/zee/internal/rope"
)

// ID uniquely identifies a buffer for the lifetime of the process.
type ID int

// ParseState is owned by the buffer but populated by the syntax pipeline
// (internal/syntax); kept here so render code doesn't need to reach across
// packages to find "the current tree for this buffer".
type ParseState struct {
	Version int // the edit version this parse reflects
	Spans   []Span
	Tree    interface{} // opaque *sitter.Tree; typed in internal/syntax
}

// Span is one highlight span: a sorted, non-overlapping byte range tagged
// with a highlight name (e.g. "keyword", "string").
type Span struct {
	Start, End int
	Name       string
}

// Buffer is an ordered UTF-8 byte sequence with undo history, cursor,
// optional selection, mode, and parse state.
type Buffer struct {
	ID ID

	Path   string // empty for scratch buffers
	Scratch bool
	dirty  bool
	saving bool

	// ReadOnly marks a generated, non-editable buffer (e.g. the edit-tree
	// viewer); Insert/Remove/Replace silently no-op against it.
	ReadOnly bool

	rope    *rope.Rope
	version int
	hist    *history.Tree

	Cursor    cursor.Cursor
	Selection cursor.Selection

	Mode *Mode

	Parse ParseState

	status string

	coalesceMark int // history node id marking a glue-undo-groups start, or -1
}

// New creates an empty buffer with the given id.
func New(id ID) *Buffer {
	return &Buffer{
		ID:           id,
		rope:         rope.New(""),
		hist:         history.New(),
		Mode:         &Scratch,
		coalesceMark: -1,
	}
}

// NewFromContent creates a buffer whose initial text is content, without
// recording that initial population as an undoable edit: loading a file
// leaves the edit tree at its root, ready for the first real user edit.
func NewFromContent(id ID, content string) *Buffer {
	b := New(id)
	b.rope = rope.New(content)
	return b
}

// Rope exposes the read-only rope view for render/search code.
func (b *Buffer) Rope() *rope.Rope { return b.rope }

// Version returns the buffer's edit version, incremented on every mutation.
func (b *Buffer) Version() int { return b.version }

// Dirty reports whether the buffer has unsaved changes.
func (b *Buffer) Dirty() bool { return b.dirty }

// Status returns the most recent status-line message for this buffer, if
// any; callers should clear it after displaying once (spec.md §7).
func (b *Buffer) Status() string { return b.status }

// SetStatus records a user-visible message; it self-clears on the next
// keystroke, enforced by the command dispatch layer calling ClearStatus.
func (b *Buffer) SetStatus(msg string) { b.status = msg }

// ClearStatus clears the status line.
func (b *Buffer) ClearStatus() { b.status = "" }

// Insert applies a reversible insertion at byte offset pos, recording it in
// history and advancing the edit version.
func (b *Buffer) Insert(pos int, text string, now time.Time) {
	e := util.Prof.Enter("buffer.insert")
	defer e.Exit()
	if text == "" || b.ReadOnly {
		return
	}
	pre := b.version
	b.rope = b.rope.Insert(pos, text)
	b.version++
	edit := history.Edit{
		StartByte:   pos,
		EndByte:     pos + len(text),
		Inserted:    text,
		PreVersion:  pre,
		PostVersion: b.version,
	}
	b.hist.Commit(edit, b.Cursor.Pos, now)
	b.dirty = true
}

// Remove applies a reversible deletion of [start, end), recording it in
// history and advancing the edit version.
func (b *Buffer) Remove(start, end int, now time.Time) string {
	e := util.Prof.Enter("buffer.remove")
	defer e.Exit()
	if start >= end || b.ReadOnly {
		return ""
	}
	removed := b.rope.Slice(start, end)
	pre := b.version
	b.rope = b.rope.Remove(start, end)
	b.version++
	edit := history.Edit{
		StartByte:   start,
		EndByte:     start,
		Removed:     removed,
		PreVersion:  pre,
		PostVersion: b.version,
	}
	b.hist.Commit(edit, b.Cursor.Pos, now)
	b.dirty = true
	return removed
}

// Replace removes [start,end) and inserts text in its place as a single
// history step.
func (b *Buffer) Replace(start, end int, text string, now time.Time) string {
	if (start >= end && text == "") || b.ReadOnly {
		return ""
	}
	removed := b.rope.Slice(start, end)
	pre := b.version
	b.rope = b.rope.Remove(start, end)
	b.rope = b.rope.Insert(start, text)
	b.version++
	edit := history.Edit{
		StartByte:   start,
		EndByte:     start + len(text),
		Inserted:    text,
		Removed:     removed,
		PreVersion:  pre,
		PostVersion: b.version,
	}
	b.hist.Commit(edit, b.Cursor.Pos, now)
	b.dirty = true
	return removed
}

func (b *Buffer) applyEdit(e history.Edit) {
	if e.Removed != "" {
		b.rope = b.rope.Remove(e.StartByte, e.StartByte+len(e.Removed))
	}
	if e.Inserted != "" {
		b.rope = b.rope.Insert(e.StartByte, e.Inserted)
	}
	b.version++
}

// Undo pops the history to its parent, applying the inverse edit.
func (b *Buffer) Undo() error {
	e, cur, err := b.hist.Undo()
	if err != nil {
		return err
	}
	b.applyEdit(e)
	b.Cursor.Pos = cur
	b.dirty = true
	return nil
}

// Redo re-applies the selected child's edit.
func (b *Buffer) Redo() error {
	e, cur, err := b.hist.Redo()
	if err != nil {
		return err
	}
	b.applyEdit(e)
	b.Cursor.Pos = cur
	b.dirty = true
	return nil
}

// SelectSibling changes which history child redo would apply next.
func (b *Buffer) SelectSibling(dir int) { b.hist.SelectSibling(dir) }

// History exposes the edit tree for the edit-tree viewer window.
func (b *Buffer) History() *history.Tree { return b.hist }

// MarkUndoGroup records the current history position for a later GlueUndoGroup.
func (b *Buffer) MarkUndoGroup() { b.coalesceMark = b.hist.Position() }

// MaybeMarkUndoGroup marks only if no mark is currently set.
func (b *Buffer) MaybeMarkUndoGroup() {
	if b.coalesceMark == -1 {
		b.MarkUndoGroup()
	}
}

// UnmarkUndoGroup clears a previously set mark.
func (b *Buffer) UnmarkUndoGroup() { b.coalesceMark = -1 }

// GlueUndoGroup merges every edit from the marked position to the current
// position into a single undo step.
func (b *Buffer) GlueUndoGroup() error {
	if b.coalesceMark == -1 {
		return errors.New("no mark in the current buffer")
	}
	b.hist.GlueFrom(b.coalesceMark)
	b.coalesceMark = -1
	return nil
}

// Save writes the buffer to its path via the supplied write function
// (normally a scheduler job), optionally trimming trailing whitespace per
// mode first. On success the dirty flag clears.
func (b *Buffer) Save(write func(path, content string) error) error {
	path, content, err := b.PrepareSave(time.Now())
	if err != nil {
		return err
	}
	if err := write(path, content); err != nil {
		b.saving = false
		return errors.Wrap(err, "save failed")
	}
	b.MarkSaved()
	return nil
}

// PrepareSave trims trailing whitespace per mode (if configured) and
// marks the buffer as having a save in flight, returning the path and
// content a caller should write to disk. It is the main-loop half of an
// asynchronous save: the actual IO and the matching MarkSaved call can
// happen later, off a scheduler worker, without any further buffer
// mutation needing to cross goroutines. A trim is committed to the edit
// tree like any other mutation, so undoing after a save restores the
// untrimmed text instead of desyncing history from the live rope.
func (b *Buffer) PrepareSave(now time.Time) (path, content string, err error) {
	if b.Path == "" {
		return "", "", errors.New("buffer has no file path")
	}
	if b.saving {
		return "", "", errors.New("save already in flight")
	}
	b.saving = true

	content = b.rope.String()
	if b.Mode != nil && b.Mode.TrimTrailingWhitespace {
		trimmed := trimTrailingWhitespace(content)
		if trimmed != content {
			b.Replace(0, len(content), trimmed, now)
			content = trimmed
		}
	}
	return b.Path, content, nil
}

// MarkSaved clears the dirty and saving-in-flight flags after a
// successful asynchronous write started by PrepareSave.
func (b *Buffer) MarkSaved() {
	b.dirty = false
	b.saving = false
}

// CancelSave clears the saving-in-flight flag after a failed
// asynchronous write started by PrepareSave, leaving dirty untouched so
// the change is not silently lost.
func (b *Buffer) CancelSave() {
	b.saving = false
}

func trimTrailingWhitespace(s string) string {
	lines := splitKeepEnds(s)
	for i, l := range lines {
		end := len(l)
		nl := ""
		if end > 0 && l[end-1] == '\n' {
			nl = "\n"
			end--
			if end > 0 && l[end-1] == '\r' {
				end--
				nl = "\r\n"
			}
		}
		trimmed := end
		for trimmed > 0 && (l[trimmed-1] == ' ' || l[trimmed-1] == '\t') {
			trimmed--
		}
		lines[i] = l[:trimmed] + nl
	}
	out := ""
	for _, l := range lines {
		out += l
	}
	return out
}

func splitKeepEnds(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}
