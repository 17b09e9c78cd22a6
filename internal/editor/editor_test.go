package editor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zee-editor/zee/internal/command"
	"github.com/zee-editor/zee/internal/input"
)

// newTestEditor wires an Editor with no terminal: every test here drives
// HandleKey/Dispatch directly, and none runs centerViewport, the only code
// that needs a non-nil e.Term.
func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	dir := t.TempDir()
	e, err := New(dir, nil)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

// pressChars self-inserts each rune of s in sequence.
func pressChars(e *Editor, s string) {
	for _, r := range s {
		e.HandleKey(input.New(r, false, false, false, false))
	}
}

func waitForResult(t *testing.T, e *Editor, timeout time.Duration) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		select {
		case r := <-e.Scheduler.Results:
			e.applyResult(r)
			return true
		case <-time.After(5 * time.Millisecond):
		}
	}
	return false
}

func TestScenario1_InsertKillYank(t *testing.T) {
	e := newTestEditor(t)
	buf := e.FocusedBuffer()

	pressChars(e, "hello")
	assert.Equal(t, "hello", buf.Rope().String())

	e.HandleKey(input.New('a', false, true, false, false)) // C-a
	e.HandleKey(input.New('k', false, true, false, false)) // C-k
	assert.Equal(t, "", buf.Rope().String())

	e.HandleKey(input.New('y', false, true, false, false)) // C-y
	assert.Equal(t, "hello", buf.Rope().String())
}

func TestScenario2_SetMarkCopyYank(t *testing.T) {
	e := newTestEditor(t)
	buf := e.FocusedBuffer()

	pressChars(e, "ab")
	assert.Equal(t, 2, buf.Cursor.Pos)

	e.HandleKey(input.New(' ', false, true, false, false)) // C-SPC sets mark at 2
	e.HandleKey(input.New('b', false, true, false, false)) // C-b
	e.HandleKey(input.New('b', false, true, false, false)) // C-b, cursor now at 0
	assert.Equal(t, 0, buf.Cursor.Pos)

	e.HandleKey(input.New('w', false, false, true, false)) // A-w copies region "ab"

	e.HandleKey(input.New('>', false, false, true, false)) // A-> buffer end
	e.HandleKey(input.New('y', false, true, false, false)) // C-y

	assert.Equal(t, "abab", buf.Rope().String())
}

func TestScenario3_UndoAtRootReportsStatus(t *testing.T) {
	e := newTestEditor(t)
	buf := e.FocusedBuffer()

	e.HandleKey(input.New('z', false, true, false, false)) // C-z
	assert.Equal(t, "", buf.Rope().String())
	assert.Equal(t, "AtRoot", buf.Status())
}

func TestScenario4_UndoRedoSequence(t *testing.T) {
	e := newTestEditor(t)
	buf := e.FocusedBuffer()

	now := time.Now()
	buf.Insert(0, "f", now)
	buf.Insert(1, "o", now.Add(2*time.Second))
	buf.Insert(2, "o", now.Add(4*time.Second))
	require.Equal(t, "foo", buf.Rope().String())

	require.NoError(t, buf.Undo())
	require.NoError(t, buf.Undo())
	require.NoError(t, buf.Undo())
	assert.Equal(t, "", buf.Rope().String())

	require.NoError(t, buf.Redo())
	require.NoError(t, buf.Redo())
	assert.Equal(t, "fo", buf.Rope().String())
}

func TestUnboundChordSetsStatusWithoutSelfInserting(t *testing.T) {
	e := newTestEditor(t)
	buf := e.FocusedBuffer()

	e.HandleKey(input.New('q', false, true, true, false)) // C-M-q: bound to nothing
	assert.Equal(t, "", buf.Rope().String())
	assert.Contains(t, buf.Status(), "undefined")
}

func TestOpenFileLoadsContentWithoutUndoableHistory(t *testing.T) {
	e := newTestEditor(t)
	path := filepath.Join(t.TempDir(), "hello.txt")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0644))

	id, err := e.OpenFile(path)
	require.NoError(t, err)

	buf, ok := e.Buffer(id)
	require.True(t, ok)
	assert.Equal(t, "package main\n", buf.Rope().String())
	assert.Equal(t, path, buf.Path)

	// loading a file must not be undoable: undo from a fresh load is AtRoot.
	assert.Error(t, buf.Undo())
}

func TestSaveRoundTripsThroughScheduler(t *testing.T) {
	e := newTestEditor(t)
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	id, err := e.OpenFile(path)
	require.NoError(t, err)
	waitForResult(t, e, 2*time.Second) // drain the initial parse result

	buf, _ := e.Buffer(id)
	buf.Insert(0, "saved\n", time.Now())

	e.Dispatch(buf, command.Save)
	require.True(t, waitForResult(t, e, 2*time.Second))

	assert.False(t, buf.Dirty())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "saved\n", string(data))
}

func TestWindowSplitAndCloseEffects(t *testing.T) {
	e := newTestEditor(t)
	buf := e.FocusedBuffer()

	e.Dispatch(buf, command.SplitWindowBelow)
	assert.Equal(t, 2, e.Windows.Count())

	e.Dispatch(buf, command.CloseWindow)
	assert.Equal(t, 1, e.Windows.Count())
}

func TestCycleThemeWrapsAround(t *testing.T) {
	e := newTestEditor(t)
	buf := e.FocusedBuffer()
	start := e.ThemeIndex
	n := e.Themes.Len()
	require.Greater(t, n, 0)

	for i := 0; i < n; i++ {
		e.Dispatch(buf, command.CycleTheme)
	}
	assert.Equal(t, start, e.ThemeIndex)
}

func TestQuitEffectSetsQuitFlag(t *testing.T) {
	e := newTestEditor(t)
	buf := e.FocusedBuffer()
	e.Dispatch(buf, command.Quit)
	assert.True(t, e.Quit)
}

func TestBufferPickerListsOpenBuffersInStableOrder(t *testing.T) {
	e := newTestEditor(t)
	buf := e.FocusedBuffer()

	a := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0644))
	_, err := e.OpenFile(a)
	require.NoError(t, err)

	e.Dispatch(buf, command.BufferPicker)
	require.NotNil(t, e.ActivePicker)

	deadline := time.Now().Add(time.Second)
	var results []string
	for time.Now().Before(deadline) {
		res := e.ActivePicker.Results()
		if len(res) >= 2 {
			for _, r := range res {
				results = append(results, r.Text)
			}
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	assert.Contains(t, results, "*scratch*")
	assert.Contains(t, results, a)

	e.handlePickerKey(input.New(0xE004, false, false, false, false)) // Escape
	assert.Nil(t, e.ActivePicker)
}
