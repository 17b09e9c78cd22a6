package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zee-editor/zee/internal/buffer"
)

// countFocused walks the tree's leaves and returns how many report
// themselves focused; spec.md §8 requires exactly one.
func countFocused(t *Tree) int {
	n := 0
	for _, l := range t.Leaves() {
		if l.focused {
			n++
		}
	}
	return n
}

func TestSplitCloseLeafCountInvariant(t *testing.T) {
	tr := New(buffer.ID(1))
	require.Equal(t, 1, tr.Count())

	tr.SplitBelow()
	assert.Equal(t, 2, tr.Count())

	tr.SplitRight()
	assert.Equal(t, 3, tr.Count())
	assert.Equal(t, 1, countFocused(tr))

	tr.Close(buffer.ID(99))
	assert.Equal(t, 2, tr.Count())
	assert.Equal(t, 1, countFocused(tr))

	tr.Close(buffer.ID(99))
	assert.Equal(t, 1, tr.Count())
	assert.Equal(t, 1, countFocused(tr))
}

func TestCloseLastLeafFallsBackToScratch(t *testing.T) {
	tr := New(buffer.ID(1))
	tr.Close(buffer.ID(42))
	require.Equal(t, 1, tr.Count())
	assert.Equal(t, buffer.ID(42), tr.Focused().BufferID())
}

func TestNextFocusCyclesDepthFirstAndWraps(t *testing.T) {
	tr := New(buffer.ID(1))
	tr.SplitBelow()
	tr.SplitRight()
	leaves := tr.Leaves()
	require.Len(t, leaves, 3)

	tr.Focus(leaves[0])
	tr.NextFocus()
	assert.Same(t, leaves[1], tr.Focused())
	tr.NextFocus()
	assert.Same(t, leaves[2], tr.Focused())
	tr.NextFocus()
	assert.Same(t, leaves[0], tr.Focused())
}

func TestFullscreenIsDestructive(t *testing.T) {
	tr := New(buffer.ID(1))
	tr.SplitBelow()
	tr.SplitRight()
	require.Equal(t, 3, tr.Count())

	tr.Fullscreen()
	assert.Equal(t, 1, tr.Count())
}

func TestLayoutSplitsProportionally(t *testing.T) {
	tr := New(buffer.ID(1))
	tr.SplitRight()
	layout := tr.Layout(Rect{X: 0, Y: 0, W: 100, H: 40})
	assert.Len(t, layout, 2)
	var total int
	for _, r := range layout {
		total += r.W
	}
	assert.Equal(t, 100, total)
}
