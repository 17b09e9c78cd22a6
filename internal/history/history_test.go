package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zee-editor/zee/internal/rope"
)

func ins(t0 time.Time, offset int, s string, pre, post int) (Edit, time.Time) {
	return Edit{StartByte: offset, EndByte: offset + len(s), Inserted: s, PreVersion: pre, PostVersion: post}, t0
}

func TestUndoRedoBoundaries(t *testing.T) {
	tr := New()
	_, _, err := tr.Undo()
	assert.ErrorAs(t, err, new(ErrAtRoot))

	_, _, err = tr.Redo()
	assert.ErrorAs(t, err, new(ErrAtLeaf))
}

func TestCommitUndoRedo(t *testing.T) {
	tr := New()
	now := time.Now()
	r := rope.New("")

	e, _ := ins(now, 0, "f", 0, 1)
	tr.Commit(e, 1, now.Add(2*time.Second))
	r = r.Insert(e.StartByte, e.Inserted)

	e2, _ := ins(now, 1, "o", 1, 2)
	tr.Commit(e2, 2, now.Add(4*time.Second))
	r = r.Insert(e2.StartByte, e2.Inserted)

	e3, _ := ins(now, 2, "o", 2, 3)
	tr.Commit(e3, 3, now.Add(6*time.Second))
	r = r.Insert(e3.StartByte, e3.Inserted)

	require.Equal(t, "foo", r.String())

	inv, _, err := tr.Undo()
	require.NoError(t, err)
	r = r.Remove(inv.StartByte, inv.EndByte)
	assert.Equal(t, "fo", r.String())

	inv, _, err = tr.Undo()
	require.NoError(t, err)
	r = r.Remove(inv.StartByte, inv.EndByte)
	assert.Equal(t, "f", r.String())

	inv, _, err = tr.Undo()
	require.NoError(t, err)
	r = r.Remove(inv.StartByte, inv.EndByte)
	assert.Equal(t, "", r.String())

	_, _, err = tr.Undo()
	assert.ErrorAs(t, err, new(ErrAtRoot))
}

func TestCoalescenceMergesRapidTyping(t *testing.T) {
	tr := New()
	now := time.Now()

	e1, _ := ins(now, 0, "a", 0, 1)
	tr.Commit(e1, 1, now)
	e2, _ := ins(now, 1, "b", 1, 2)
	tr.Commit(e2, 2, now.Add(100*time.Millisecond))
	e3, _ := ins(now, 2, "c", 2, 3)
	tr.Commit(e3, 3, now.Add(200*time.Millisecond))

	// All three single-char inserts of the same class within the idle
	// window coalesce into one undo step.
	inv, _, err := tr.Undo()
	require.NoError(t, err)
	assert.Equal(t, "abc", inv.Removed)

	_, _, err = tr.Undo()
	assert.ErrorAs(t, err, new(ErrAtRoot))
}

func TestCoalescenceBreaksAfterIdleTimeout(t *testing.T) {
	tr := New()
	now := time.Now()

	e1, _ := ins(now, 0, "a", 0, 1)
	tr.Commit(e1, 1, now)
	e2, _ := ins(now, 1, "b", 1, 2)
	tr.Commit(e2, 2, now.Add(2*time.Second))

	inv, _, err := tr.Undo()
	require.NoError(t, err)
	assert.Equal(t, "b", inv.Removed)

	inv, _, err = tr.Undo()
	require.NoError(t, err)
	assert.Equal(t, "a", inv.Removed)
}

func TestSiblingBranchingAndSelection(t *testing.T) {
	tr := New()
	now := time.Now()

	eA, _ := ins(now, 0, "a", 0, 1)
	tr.Commit(eA, 1, now)

	_, _, err := tr.Undo()
	require.NoError(t, err)

	eB, _ := ins(now.Add(time.Second), 0, "b", 0, 1)
	tr.Commit(eB, 1, now.Add(time.Second))

	_, _, err = tr.Undo()
	require.NoError(t, err)

	assert.Len(t, tr.Children(), 2)
	assert.Equal(t, 1, tr.Selected())

	tr.SelectSibling(-1)
	assert.Equal(t, 0, tr.Selected())

	edit, _, err := tr.Redo()
	require.NoError(t, err)
	assert.Equal(t, "a", edit.Inserted)
}

func TestDedupReusesIdenticalSibling(t *testing.T) {
	tr := New()
	now := time.Now()
	e, _ := ins(now, 0, "hello", 0, 1)
	tr.Commit(e, 5, now)
	first := tr.Position()

	_, _, err := tr.Undo()
	require.NoError(t, err)

	tr.Commit(e, 5, now)
	assert.Equal(t, first, tr.Position())
	assert.Len(t, tr.Children(), 1)
}
