package cursor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zee-editor/zee/internal/rope"
)

func TestWordMotion(t *testing.T) {
	r := rope.New("foo bar  baz")
	c := &Cursor{}
	c.MoveWordForward(r)
	assert.Equal(t, 3, c.Pos)
	c.MoveWordForward(r)
	assert.Equal(t, 7, c.Pos)
}

func TestWordMotionBackward(t *testing.T) {
	r := rope.New("foo bar baz")
	c := &Cursor{Pos: r.LenBytes()}
	c.MoveWordBackward(r)
	assert.Equal(t, 8, c.Pos)
	c.MoveWordBackward(r)
	assert.Equal(t, 4, c.Pos)
}

func TestGoalColumnPreservedAcrossShorterLine(t *testing.T) {
	r := rope.New("abcdef\nxy\nabcdef")
	c := &Cursor{Pos: 5} // column 5 on line 0
	c.SetGoal(r)
	c.MoveLine(r, 1) // line 1 is "xy", only 2 columns wide
	assert.Equal(t, 5, c.GoalColumn, "goal column must survive clamping")

	c.MoveLine(r, 1) // line 2 is "abcdef" again, should return to column 5
	start, _ := r.Line(2)
	assert.Equal(t, start+5, c.Pos)
}

func TestSelectionRangeHandlesReversedAnchor(t *testing.T) {
	sel := Selection{Anchor: 10, Active: true}
	lo, hi := sel.Range(4)
	assert.Equal(t, 4, lo)
	assert.Equal(t, 10, hi)
}

func TestParagraphMotion(t *testing.T) {
	r := rope.New("a\nb\n\nc\nd\n")
	c := &Cursor{Pos: 0}
	c.MoveParagraph(r, 1)
	// should land at the blank-separated second paragraph ("c")
	line := r.ByteToLine(c.Pos)
	assert.Equal(t, 3, line)
}
