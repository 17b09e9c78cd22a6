// Package cursor implements the buffer cursor and selection: a
// grapheme-boundary character offset with a goal column for vertical
// motion, and an optional anchor forming a half-open selection range.
package cursor

import (
	"unicode/utf8"

	"github.com/zee-editor/zee/internal/rope"
)

// Unit is a movement granularity for the primitive motions of spec.md §4.3.
type Unit int

const (
	Grapheme Unit = iota
	Word
	Line
	Paragraph
	Page
	Buffer
)

// Cursor is a byte offset into a rope, held on a grapheme boundary, plus the
// goal column consulted by vertical motion.
type Cursor struct {
	Pos        int
	GoalColumn int
	goalSet    bool
}

// Selection is a half-open range [Anchor, Pos) (or reversed) anchored at a
// point captured when selection mode was entered.
type Selection struct {
	Anchor int
	Active bool
}

// Range returns the selection's ordered byte range, regardless of
// direction.
func (s Selection) Range(pos int) (lo, hi int) {
	if s.Anchor <= pos {
		return s.Anchor, pos
	}
	return pos, s.Anchor
}

// SetGoal records the current display column as the goal for subsequent
// vertical motion; called whenever a non-vertical motion occurs.
func (c *Cursor) SetGoal(r *rope.Rope) {
	line := r.ByteToLine(c.Pos)
	start, _ := r.Line(line)
	c.GoalColumn = r.DisplayWidth(start, c.Pos)
	c.goalSet = true
}

// MoveGraphemeForward/Backward move by one grapheme cluster, clamped to the
// rope's bounds, and reset the goal column (any non-vertical motion does).
func (c *Cursor) MoveGraphemeForward(r *rope.Rope) {
	c.Pos = r.GraphemeNext(c.Pos)
	c.SetGoal(r)
}

func (c *Cursor) MoveGraphemeBackward(r *rope.Rope) {
	c.Pos = r.GraphemePrev(c.Pos)
	c.SetGoal(r)
}

// MoveWordForward advances to the end of the next maximal run of
// alphanumerics, or of a single non-alphanumeric class between whitespace,
// per spec.md §4.3's word definition.
func (c *Cursor) MoveWordForward(r *rope.Rope) {
	text := []byte(r.Slice(c.Pos, r.LenBytes()))
	i := 0
	// Skip whitespace, then consume the next class run.
	decode := func(b []byte, at int) (rune, int) {
		if at >= len(b) {
			return 0, 0
		}
		rn, sz := utf8.DecodeRune(b[at:])
		return rn, sz
	}
	rn, sz := decode(text, i)
	if sz == 0 {
		return
	}
	for sz > 0 && rope.ClassOf(rn) == rope.ClassWhitespace {
		i += sz
		rn, sz = decode(text, i)
	}
	if sz > 0 {
		class := rope.ClassOf(rn)
		for sz > 0 && rope.ClassOf(rn) == class {
			i += sz
			rn, sz = decode(text, i)
		}
	}
	c.Pos += i
	c.SetGoal(r)
}

// MoveWordBackward retreats to the start of the previous word/punctuation
// run, symmetric to MoveWordForward.
func (c *Cursor) MoveWordBackward(r *rope.Rope) {
	text := []byte(r.Slice(0, c.Pos))
	i := len(text)
	decodeLast := func(b []byte, at int) (rune, int) {
		if at <= 0 {
			return 0, 0
		}
		rn, sz := utf8.DecodeLastRune(b[:at])
		return rn, sz
	}
	rn, sz := decodeLast(text, i)
	for sz > 0 && rope.ClassOf(rn) == rope.ClassWhitespace {
		i -= sz
		rn, sz = decodeLast(text, i)
	}
	if sz > 0 {
		class := rope.ClassOf(rn)
		for sz > 0 && rope.ClassOf(rn) == class {
			i -= sz
			rn, sz = decodeLast(text, i)
		}
	}
	c.Pos = i
	c.SetGoal(r)
}

// MoveLine moves delta lines (negative is up), preserving the goal column:
// the cursor lands at the goal column's byte offset on the destination
// line, clamped to that line's length without clearing the goal.
func (c *Cursor) MoveLine(r *rope.Rope, delta int) {
	if !c.goalSet {
		c.SetGoal(r)
	}
	line := r.ByteToLine(c.Pos)
	dest := line + delta
	if dest < 0 {
		dest = 0
	}
	if dest > r.LenLines()-1 {
		dest = r.LenLines() - 1
	}
	start, end := r.Line(dest)
	c.Pos = columnToByte(r, start, end, c.GoalColumn)
}

func columnToByte(r *rope.Rope, start, end, goalCol int) int {
	pos := start
	col := 0
	for pos < end && col < goalCol {
		next := r.GraphemeNext(pos)
		w := r.DisplayWidth(pos, next)
		if col+w > goalCol {
			break
		}
		col += w
		pos = next
	}
	return pos
}

// MoveParagraph moves to the start of the next (delta>0) or previous
// (delta<0) maximal run of non-blank lines.
func (c *Cursor) MoveParagraph(r *rope.Rope, delta int) {
	line := r.ByteToLine(c.Pos)
	isBlank := func(l int) bool {
		s, e := r.Line(l)
		return s == e
	}
	if delta > 0 {
		l := line
		for l < r.LenLines()-1 && !isBlank(l) {
			l++
		}
		for l < r.LenLines()-1 && isBlank(l) {
			l++
		}
		c.Pos, _ = r.Line(l)
	} else if delta < 0 {
		l := line
		for l > 0 && !isBlank(l) {
			l--
		}
		for l > 0 && isBlank(l) {
			l--
		}
		for l > 0 && !isBlank(l-1) {
			l--
		}
		c.Pos, _ = r.Line(l)
	}
	c.SetGoal(r)
}

// MoveBufferStart/End jump to offset 0 / the end of the rope.
func (c *Cursor) MoveBufferStart(r *rope.Rope) {
	c.Pos = 0
	c.SetGoal(r)
}

func (c *Cursor) MoveBufferEnd(r *rope.Rope) {
	c.Pos = r.LenBytes()
	c.SetGoal(r)
}

// MoveLineStart/End jump to the first/last byte of the current line,
// without crossing into the newline itself.
func (c *Cursor) MoveLineStart(r *rope.Rope) {
	line := r.ByteToLine(c.Pos)
	c.Pos, _ = r.Line(line)
	c.SetGoal(r)
}

func (c *Cursor) MoveLineEnd(r *rope.Rope) {
	line := r.ByteToLine(c.Pos)
	_, c.Pos = r.Line(line)
	c.SetGoal(r)
}
