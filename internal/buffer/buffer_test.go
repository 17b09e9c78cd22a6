package buffer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertRemoveReplayFromRoot(t *testing.T) {
	b := New(1)
	now := time.Now()

	b.Insert(0, "hello", now)
	b.Remove(0, 1, now.Add(time.Second))
	b.Insert(0, "H", now.Add(2*time.Second))

	assert.Equal(t, "Hello", b.Rope().String())
	assert.Equal(t, b.Rope().String(), b.History().ReplayFromRoot())
}

func TestPrepareSaveTrimsTrailingWhitespaceAsUndoableEdit(t *testing.T) {
	b := New(1)
	b.Path = "/tmp/doesnotmatter.go"
	b.Mode = &Mode{Name: "go", TrimTrailingWhitespace: true}

	now := time.Now()
	b.Insert(0, "line one   \nline two\t\n", now)
	preSaveContent := b.Rope().String()

	path, content, err := b.PrepareSave(now.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/doesnotmatter.go", path)
	assert.Equal(t, "line one\nline two\n", content)
	assert.Equal(t, content, b.Rope().String())
	b.MarkSaved()

	// the trim must be a real history commit: undoing it restores the
	// untrimmed text, and replaying from root reproduces the live buffer.
	require.NoError(t, b.Undo())
	assert.Equal(t, preSaveContent, b.Rope().String())

	require.NoError(t, b.Redo())
	assert.Equal(t, "line one\nline two\n", b.Rope().String())
	assert.Equal(t, b.Rope().String(), b.History().ReplayFromRoot())
}

func TestPrepareSaveNoTrimNeededLeavesHistoryUntouched(t *testing.T) {
	b := New(1)
	b.Path = "/tmp/doesnotmatter.go"
	b.Mode = &Mode{Name: "go", TrimTrailingWhitespace: true}

	now := time.Now()
	b.Insert(0, "clean\n", now)
	before := b.History().Position()

	_, content, err := b.PrepareSave(now.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, "clean\n", content)
	assert.Equal(t, before, b.History().Position())
}

func TestPrepareSaveRejectsConcurrentSave(t *testing.T) {
	b := New(1)
	b.Path = "/tmp/doesnotmatter.go"

	_, _, err := b.PrepareSave(time.Now())
	require.NoError(t, err)

	_, _, err = b.PrepareSave(time.Now())
	assert.Error(t, err)
}

func TestPrepareSaveRejectsPathlessBuffer(t *testing.T) {
	b := New(1)
	_, _, err := b.PrepareSave(time.Now())
	assert.Error(t, err)
}
