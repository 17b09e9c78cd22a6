package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zee-editor/zee/internal/command"
)

func TestDispatcherResolvesSingleChordBinding(t *testing.T) {
	bindings := map[string][]KeyPress{
		"forward-char": {New('f', false, true, false, false)},
	}
	commands := map[string]command.Name{"forward-char": command.ForwardChar}
	d := NewDispatcher(bindings, commands)

	state, cmd, ok := d.Feed(New('f', false, true, false, false))
	require.True(t, ok)
	assert.Equal(t, Resolved, state)
	assert.Equal(t, command.ForwardChar, cmd)
	assert.False(t, d.InProgress())
}

func TestDispatcherTracksPrefixThenResolves(t *testing.T) {
	bindings := map[string][]KeyPress{
		"save": {New('x', false, true, false, false), New('s', false, true, false, false)},
	}
	commands := map[string]command.Name{"save": command.Save}
	d := NewDispatcher(bindings, commands)

	state, _, ok := d.Feed(New('x', false, true, false, false))
	require.True(t, ok)
	assert.Equal(t, InPrefix, state)
	assert.True(t, d.InProgress())

	state, cmd, ok := d.Feed(New('s', false, true, false, false))
	require.True(t, ok)
	assert.Equal(t, Resolved, state)
	assert.Equal(t, command.Save, cmd)
	assert.False(t, d.InProgress())
}

func TestDispatcherUnresolvedChordResetsToIdle(t *testing.T) {
	bindings := map[string][]KeyPress{
		"save": {New('x', false, true, false, false), New('s', false, true, false, false)},
	}
	commands := map[string]command.Name{"save": command.Save}
	d := NewDispatcher(bindings, commands)

	d.Feed(New('x', false, true, false, false))
	state, _, ok := d.Feed(New('q', false, true, false, false))
	assert.False(t, ok)
	assert.Equal(t, Idle, state)
	assert.False(t, d.InProgress())
}

func TestKeyPressFixUppercaseSetsShift(t *testing.T) {
	k := KeyPress{Key: 'A'}
	k.fix()
	assert.Equal(t, 'a', k.Key)
	assert.True(t, k.Shift)
}

func TestKeyPressString(t *testing.T) {
	k := New('a', true, false, false, true)
	assert.Equal(t, "super+shift+a", k.String())
}
