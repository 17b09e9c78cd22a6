// Package tui is the thin collaborator boundary spec.md §1 calls out as
// external: it wraps gdamore/tcell/v2 behind the Terminal contract (poll
// input events, draw a frame of cells, report size) without owning any
// declarative-diffing or layout logic. No code in this module builds or
// draws frames: internal/editor reads only Size, and cmd/zee only polls
// events.
package tui

import (
	"github.com/gdamore/tcell/v2"
)

// Cell is one screen position's rendered content.
type Cell struct {
	X, Y  int
	Rune  rune
	Style tcell.Style
}

// Terminal is the contract the editor's terminal backend satisfies, so the
// real tcell backend can be swapped for a fake in tests.
type Terminal interface {
	PollEvent() tcell.Event
	Draw(cells []Cell)
	Size() (w, h int)
	ShowCursor(x, y int)
	HideCursor()
	Close()
}

// TcellTerminal implements Terminal over a real tcell.Screen.
type TcellTerminal struct {
	screen tcell.Screen
}

// NewTcellTerminal initializes a tcell screen for full-screen operation.
func NewTcellTerminal() (*TcellTerminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	return &TcellTerminal{screen: screen}, nil
}

// PollEvent blocks for the next terminal event (key press, resize, ...).
func (t *TcellTerminal) PollEvent() tcell.Event { return t.screen.PollEvent() }

// Draw clears the screen, paints every cell, then flips the frame with
// Show, matching the clear-paint-show cycle the teacher's TUI draw loop
// follows each tick.
func (t *TcellTerminal) Draw(cells []Cell) {
	t.screen.Clear()
	for _, c := range cells {
		t.screen.SetContent(c.X, c.Y, c.Rune, nil, c.Style)
	}
	t.screen.Show()
}

// Size returns the current terminal dimensions in character cells.
func (t *TcellTerminal) Size() (int, int) { return t.screen.Size() }

// ShowCursor positions the terminal's visible cursor.
func (t *TcellTerminal) ShowCursor(x, y int) { t.screen.ShowCursor(x, y) }

// HideCursor hides the terminal's visible cursor.
func (t *TcellTerminal) HideCursor() { t.screen.HideCursor() }

// Close restores the terminal to its pre-editor state.
func (t *TcellTerminal) Close() { t.screen.Fini() }
