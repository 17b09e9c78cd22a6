package rope

import (
	"bufio"
	"bytes"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"
)

// graphemeWindow bounds how far around a position we look for cluster
// boundaries; grapheme clusters are always short, so a small window is
// sufficient and keeps navigation O(window) rather than O(n).
const graphemeWindow = 128

// GraphemeNext returns the byte offset of the start of the grapheme cluster
// following the one containing pos, clamped to the rope's length.
func (r *Rope) GraphemeNext(pos int) int {
	n := r.LenBytes()
	pos = clamp(pos, 0, n)
	if pos >= n {
		return n
	}
	winEnd := min(n, pos+graphemeWindow)
	chunk := []byte(r.Slice(pos, winEnd))

	sc := bufio.NewScanner(bytes.NewReader(chunk))
	sc.Split(graphemes.SplitFunc)
	off := pos
	for sc.Scan() {
		off += len(sc.Bytes())
		if off > pos {
			return off
		}
	}
	return n
}

// GraphemePrev returns the byte offset of the start of the grapheme cluster
// preceding pos, clamped to zero.
func (r *Rope) GraphemePrev(pos int) int {
	pos = clamp(pos, 0, r.LenBytes())
	if pos <= 0 {
		return 0
	}
	winStart := max(0, pos-graphemeWindow)
	chunk := []byte(r.Slice(winStart, pos))

	sc := bufio.NewScanner(bytes.NewReader(chunk))
	sc.Split(graphemes.SplitFunc)
	var boundaries []int
	off := winStart
	for sc.Scan() {
		boundaries = append(boundaries, off)
		off += len(sc.Bytes())
	}
	if len(boundaries) == 0 {
		return winStart
	}
	return boundaries[len(boundaries)-1]
}

// DisplayWidth returns the terminal column width of the text in
// [start, end), honoring East-Asian-wide characters.
func (r *Rope) DisplayWidth(start, end int) int {
	return runewidth.StringWidth(r.Slice(start, end))
}
