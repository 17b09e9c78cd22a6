package rope

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertRemove(t *testing.T) {
	r := New("hello world")
	r = r.Insert(5, ",")
	assert.Equal(t, "hello, world", r.String())

	r = r.Remove(0, 6)
	assert.Equal(t, "world", r.String())
}

func TestInsertClampsOutOfRange(t *testing.T) {
	r := New("ab")
	r = r.Insert(-5, "x")
	assert.Equal(t, "xab", r.String())

	r = r.Insert(1000, "y")
	assert.Equal(t, "xaby", r.String())
}

func TestLineByteRoundTrip(t *testing.T) {
	text := "one\ntwo\nthree\n"
	r := New(text)
	require.Equal(t, 4, r.LenLines())

	for line := 0; line < r.LenLines(); line++ {
		b := r.LineToByte(line)
		got := r.ByteToLine(b)
		assert.Equal(t, line, got, "line %d: byte_to_line . line_to_byte should be identity", line)
	}
}

func TestLineByteRoundTripAfterEdit(t *testing.T) {
	r := New("alpha\nbeta\ngamma\n")
	r = r.Insert(6, "inserted ")
	for line := 0; line < r.LenLines(); line++ {
		b := r.LineToByte(line)
		assert.Equal(t, line, r.ByteToLine(b))
	}
}

func TestCharByteRoundTrip(t *testing.T) {
	r := New("héllo wörld")
	for c := 0; c <= r.LenChars(); c++ {
		b := r.CharToByte(c)
		assert.Equal(t, c, r.ByteToChar(b))
	}
}

func TestLineExcludesNewline(t *testing.T) {
	r := New("abc\ndef")
	start, end := r.Line(0)
	assert.Equal(t, "abc", r.Slice(start, end))
	fstart, fend := r.FullLine(0)
	assert.Equal(t, "abc\n", r.Slice(fstart, fend))
}

func TestLargeRopeBuild(t *testing.T) {
	text := strings.Repeat("abcdefgh\n", 10000)
	r := New(text)
	assert.Equal(t, len(text), r.LenBytes())
	assert.Equal(t, 10001, r.LenLines())
	assert.Equal(t, text, r.String())
}

func TestGraphemeNavigation(t *testing.T) {
	r := New("áb") // "á" as a+combining acute, then "b"
	next := r.GraphemeNext(0)
	assert.Equal(t, 3, next) // 'a' + combining mark = 3 bytes

	prev := r.GraphemePrev(next)
	assert.Equal(t, 0, prev)
}

func TestDisplayWidthWide(t *testing.T) {
	r := New("a中b") // a, CJK char, b
	assert.Equal(t, 4, r.DisplayWidth(0, r.LenBytes()))
}
