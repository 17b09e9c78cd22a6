// Package window implements the binary split-tree of viewports of
// spec.md §4.7: splits insert an internal node replacing the focused leaf,
// close collapses the parent and promotes the sibling, and fullscreen is
// explicitly destructive.
package window

import "github.com/zee-editor/zee/internal/buffer"

// Orientation is the split direction of an internal node.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// Node is one node of the binary split tree: internal nodes carry
// orientation/ratio/children; leaves carry a viewport onto a buffer.
type Node struct {
	parent *Node

	// internal-node fields
	orientation Orientation
	ratio       float64
	left, right *Node

	// leaf fields
	bufferID      buffer.ID
	viewportTop   int
	scrollCol     int

	focused bool
}

// Tree owns the root node and tracks which leaf is focused.
type Tree struct {
	root    *Node
	focused *Node
}

// New creates a single-leaf tree showing bufID.
func New(bufID buffer.ID) *Tree {
	leaf := &Node{bufferID: bufID, focused: true}
	return &Tree{root: leaf, focused: leaf}
}

// IsLeaf reports whether n is a viewport leaf.
func (n *Node) IsLeaf() bool { return n.left == nil && n.right == nil }

// BufferID returns the buffer id a leaf shows; 0 for internal nodes.
func (n *Node) BufferID() buffer.ID { return n.bufferID }

// SetBuffer changes which buffer a leaf shows, resetting its viewport to
// the top; used when a picker or CLI file-open targets an existing window
// rather than opening a new split.
func (n *Node) SetBuffer(bufID buffer.ID) {
	n.bufferID = bufID
	n.viewportTop = 0
	n.scrollCol = 0
}

// Viewport returns a leaf's scroll position.
func (n *Node) Viewport() (topLine, scrollCol int) { return n.viewportTop, n.scrollCol }

// SetViewport updates a leaf's scroll position.
func (n *Node) SetViewport(topLine, scrollCol int) {
	n.viewportTop = topLine
	n.scrollCol = scrollCol
}

// Focused returns the currently focused leaf.
func (t *Tree) Focused() *Node { return t.focused }

// Focus makes n the focused leaf (n must be a leaf belonging to this tree).
func (t *Tree) Focus(n *Node) {
	if n == nil || !n.IsLeaf() {
		return
	}
	t.focused.focused = false
	t.focused = n
	n.focused = true
}

// split replaces n with an internal node whose two leaves both initially
// show n's buffer, and returns the new sibling leaf.
func split(n *Node, orientation Orientation) *Node {
	oldBuf := n.bufferID
	left := &Node{parent: n, bufferID: oldBuf}
	right := &Node{parent: n, bufferID: oldBuf}

	n.orientation = orientation
	n.ratio = 0.5
	n.bufferID = 0
	n.left = left
	n.right = right
	return right
}

// SplitBelow splits the focused leaf vertically (new pane below), per
// spec.md §4.7's default 0.5 ratio. The newly focused leaf inherits the
// focused buffer.
func (t *Tree) SplitBelow() { t.doSplit(Vertical) }

// SplitRight splits the focused leaf horizontally (new pane to the right).
func (t *Tree) SplitRight() { t.doSplit(Horizontal) }

func (t *Tree) doSplit(o Orientation) {
	focused := t.focused
	newLeaf := split(focused, o)
	t.Focus(newLeaf)
}

// Close removes the focused leaf, collapsing its parent and promoting the
// sibling; closing the last leaf replaces the tree with a single
// scratch-buffer leaf (scratchBufID).
func (t *Tree) Close(scratchBufID buffer.ID) {
	leaf := t.focused
	parent := leaf.parent
	if parent == nil {
		// last leaf: become a scratch leaf in place.
		leaf.bufferID = scratchBufID
		return
	}
	var sibling *Node
	if parent.left == leaf {
		sibling = parent.right
	} else {
		sibling = parent.left
	}
	gp := parent.parent
	*parent = *sibling
	parent.parent = gp
	reparent(parent)
	t.Focus(firstLeaf(parent))
}

func reparent(n *Node) {
	if n.IsLeaf() {
		return
	}
	n.left.parent = n
	n.right.parent = n
}

func firstLeaf(n *Node) *Node {
	for !n.IsLeaf() {
		n = n.left
	}
	return n
}

func lastLeaf(n *Node) *Node {
	for !n.IsLeaf() {
		n = n.right
	}
	return n
}

// Fullscreen replaces the whole tree with a copy of the focused leaf;
// spec.md §4.7 notes this is destructive by design and restore is not
// supported.
func (t *Tree) Fullscreen() {
	leaf := t.focused
	root := &Node{bufferID: leaf.bufferID, viewportTop: leaf.viewportTop, scrollCol: leaf.scrollCol}
	t.root = root
	t.Focus(root)
	root.focused = true
}

// NextFocus cycles focus to the next leaf in depth-first order, wrapping
// around to the first leaf.
func (t *Tree) NextFocus() {
	leaves := t.Leaves()
	for i, l := range leaves {
		if l == t.focused {
			t.Focus(leaves[(i+1)%len(leaves)])
			return
		}
	}
}

// Leaves returns every leaf in depth-first (left-to-right) order.
func (t *Tree) Leaves() []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		if n.IsLeaf() {
			out = append(out, n)
			return
		}
		walk(n.left)
		walk(n.right)
	}
	walk(t.root)
	return out
}

// Count returns the number of leaves currently in the tree.
func (t *Tree) Count() int { return len(t.Leaves()) }

// Rect is a screen rectangle in character cells.
type Rect struct{ X, Y, W, H int }

// Layout computes each leaf's screen rectangle for the given root
// dimensions, proportionally splitting by each internal node's ratio, in
// the style of kisielk-vigo's viewTree.resize.
func (t *Tree) Layout(root Rect) map[*Node]Rect {
	out := make(map[*Node]Rect)
	layout(t.root, root, out)
	return out
}

func layout(n *Node, r Rect, out map[*Node]Rect) {
	if n.IsLeaf() {
		out[n] = r
		return
	}
	if n.orientation == Horizontal {
		lw := int(float64(r.W) * n.ratio)
		layout(n.left, Rect{r.X, r.Y, lw, r.H}, out)
		layout(n.right, Rect{r.X + lw, r.Y, r.W - lw, r.H}, out)
	} else {
		th := int(float64(r.H) * n.ratio)
		layout(n.left, Rect{r.X, r.Y, r.W, th}, out)
		layout(n.right, Rect{r.X, r.Y + th, r.W, r.H - th}, out)
	}
}
