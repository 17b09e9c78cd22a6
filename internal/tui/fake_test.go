package tui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

// fakeTerminal is a minimal Terminal for exercising code that draws
// through the interface without a real tty.
type fakeTerminal struct {
	events  []tcell.Event
	drawn   [][]Cell
	w, h    int
	cursorX int
	cursorY int
}

func (f *fakeTerminal) PollEvent() tcell.Event {
	if len(f.events) == 0 {
		return nil
	}
	e := f.events[0]
	f.events = f.events[1:]
	return e
}

func (f *fakeTerminal) Draw(cells []Cell)    { f.drawn = append(f.drawn, cells) }
func (f *fakeTerminal) Size() (int, int)     { return f.w, f.h }
func (f *fakeTerminal) ShowCursor(x, y int)  { f.cursorX, f.cursorY = x, y }
func (f *fakeTerminal) HideCursor()          { f.cursorX, f.cursorY = -1, -1 }
func (f *fakeTerminal) Close()               {}

func TestFakeTerminalSatisfiesInterface(t *testing.T) {
	var term Terminal = &fakeTerminal{w: 80, h: 24}
	w, h := term.Size()
	assert.Equal(t, 80, w)
	assert.Equal(t, 24, h)

	term.Draw([]Cell{{X: 0, Y: 0, Rune: 'x'}})
	term.ShowCursor(3, 4)
	term.Close()
}
