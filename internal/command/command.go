// Package command implements the editor's pure command set: every key
// command is a function from (Buffer, kill ring) to a possibly-mutated
// buffer plus a list of Effects the caller (internal/editor) must perform.
package command

import (
	"time"

	"github.com/pkg/errors"

	"github.com/zee-editor/zee/internal/buffer"
	"github.com/zee-editor/zee/internal/cursor"
)

// Name identifies a command, matching the abridged key-command list of
// spec.md §4.4.
type Name string

const (
	ForwardChar      Name = "forward_char"
	BackwardChar     Name = "backward_char"
	ForwardWord      Name = "forward_word"
	BackwardWord     Name = "backward_word"
	NextLine         Name = "next_line"
	PreviousLine     Name = "previous_line"
	ForwardParagraph Name = "forward_paragraph"
	BackwardParagraph Name = "backward_paragraph"
	PageDown         Name = "page_down"
	PageUp           Name = "page_up"
	BufferStart      Name = "buffer_start"
	BufferEnd        Name = "buffer_end"
	BeginningOfLine  Name = "beginning_of_line"
	EndOfLine        Name = "end_of_line"
	CenterViewport   Name = "center_viewport"

	DeleteForwardChar Name = "delete_forward_char"
	DeleteBackwardChar Name = "delete_backward_char"
	KillLine          Name = "kill_line"
	KillRegion        Name = "kill_region"
	CopyRegion        Name = "copy_region"
	Yank              Name = "yank"
	SetMark           Name = "set_mark"
	ClearSelection    Name = "clear_selection"
	InsertNewline     Name = "insert_newline"
	InsertNewlineNoMove Name = "insert_newline_no_move"

	Undo Name = "undo"
	Redo Name = "redo"
	EditTreeUp    Name = "edit_tree_up"
	EditTreeDown  Name = "edit_tree_down"
	EditTreeLeft  Name = "edit_tree_left"
	EditTreeRight Name = "edit_tree_right"
	OpenEditTreeViewer Name = "open_edit_tree_viewer"

	MarkUndoGroup   Name = "mark_undo_group"
	GlueUndoGroup   Name = "glue_undo_group"

	Save Name = "save"

	OpenFilePicker      Name = "open_file_picker"
	RecursiveFilePicker Name = "recursive_file_picker"
	BufferPicker        Name = "buffer_picker"

	SplitWindowBelow Name = "split_window_below"
	SplitWindowRight Name = "split_window_right"
	CloseWindow      Name = "close_window"
	FullscreenWindow Name = "fullscreen_window"
	NextWindow       Name = "next_window"

	CycleTheme Name = "cycle_theme"
	Quit       Name = "quit"
)

// EffectKind enumerates the side effects a command can request; the
// command itself never performs them; internal/editor does.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectScheduleParse
	EffectScheduleSave
	EffectSetClipboard
	EffectRequestClipboard
	EffectOpenPicker
	EffectCloseWindow
	EffectSplitWindow
	EffectFullscreenWindow
	EffectNextWindow
	EffectCenterViewport
	EffectCycleTheme
	EffectOpenEditTreeViewer
	EffectQuit
)

// PickerKind distinguishes the three picker-opening effects of spec.md §4.4.
type PickerKind int

const (
	PickerOpenFile PickerKind = iota
	PickerRecursiveFile
	PickerBuffer
)

// Orientation is a window split direction.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// Effect is one side effect requested by a command.
type Effect struct {
	Kind        EffectKind
	Text        string      // EffectSetClipboard payload
	PickerKind  PickerKind  // EffectOpenPicker
	Orientation Orientation // EffectSplitWindow
}

// KillRing is the in-memory kill ring consulted by Yank; system-clipboard
// mirroring is a separate effect (EffectSetClipboard) dispatched by
// internal/editor as a scheduler job per SPEC_FULL.md §4.10.
type KillRing struct {
	text string
}

func (k *KillRing) Set(s string) { k.text = s }
func (k *KillRing) Get() string  { return k.text }

// Run executes cmd against buf, returning the effects the caller must
// perform. now is the coalescence clock (see internal/history).
func Run(buf *buffer.Buffer, cmd Name, kr *KillRing, now time.Time, clipboardRequest func() string) ([]Effect, error) {
	buf.ClearStatus()
	r := buf.Rope()

	switch cmd {
	case ForwardChar:
		buf.Cursor.MoveGraphemeForward(r)
	case BackwardChar:
		buf.Cursor.MoveGraphemeBackward(r)
	case ForwardWord:
		buf.Cursor.MoveWordForward(r)
	case BackwardWord:
		buf.Cursor.MoveWordBackward(r)
	case NextLine:
		buf.Cursor.MoveLine(r, 1)
	case PreviousLine:
		buf.Cursor.MoveLine(r, -1)
	case ForwardParagraph:
		buf.Cursor.MoveParagraph(r, 1)
	case BackwardParagraph:
		buf.Cursor.MoveParagraph(r, -1)
	case PageDown:
		buf.Cursor.MoveLine(r, pageLines)
	case PageUp:
		buf.Cursor.MoveLine(r, -pageLines)
	case BufferStart:
		buf.Cursor.MoveBufferStart(r)
	case BufferEnd:
		buf.Cursor.MoveBufferEnd(r)
	case BeginningOfLine:
		buf.Cursor.MoveLineStart(r)
	case EndOfLine:
		buf.Cursor.MoveLineEnd(r)
	case CenterViewport:
		return []Effect{{Kind: EffectCenterViewport}}, nil

	case DeleteForwardChar:
		end := r.GraphemeNext(buf.Cursor.Pos)
		buf.Remove(buf.Cursor.Pos, end, now)
		return []Effect{{Kind: EffectScheduleParse}}, nil

	case DeleteBackwardChar:
		end := buf.Cursor.Pos
		start := r.GraphemePrev(end)
		buf.Remove(start, end, now)
		buf.Cursor.Pos = start
		return []Effect{{Kind: EffectScheduleParse}}, nil

	case KillLine:
		line := r.ByteToLine(buf.Cursor.Pos)
		_, lineEnd := r.Line(line)
		end := lineEnd
		if buf.Cursor.Pos >= lineEnd {
			_, end = r.FullLine(line) // already at EOL: kill the newline too
		}
		killed := buf.Remove(buf.Cursor.Pos, end, now)
		kr.Set(killed)
		return []Effect{{Kind: EffectScheduleParse}, {Kind: EffectSetClipboard, Text: killed}}, nil

	case KillRegion:
		if !buf.Selection.Active {
			return nil, errors.New("no active selection")
		}
		lo, hi := buf.Selection.Range(buf.Cursor.Pos)
		killed := buf.Remove(lo, hi, now)
		buf.Cursor.Pos = lo
		buf.Selection.Active = false
		kr.Set(killed)
		return []Effect{{Kind: EffectScheduleParse}, {Kind: EffectSetClipboard, Text: killed}}, nil

	case CopyRegion:
		if !buf.Selection.Active {
			return nil, errors.New("no active selection")
		}
		lo, hi := buf.Selection.Range(buf.Cursor.Pos)
		copied := r.Slice(lo, hi)
		kr.Set(copied)
		buf.Selection.Active = false
		return []Effect{{Kind: EffectSetClipboard, Text: copied}}, nil

	case Yank:
		text := kr.Get()
		if clipboardRequest != nil {
			if fromSystem := clipboardRequest(); fromSystem != "" {
				text = fromSystem
			}
		}
		buf.Insert(buf.Cursor.Pos, text, now)
		buf.Cursor.Pos += len(text)
		return []Effect{{Kind: EffectScheduleParse}}, nil

	case SetMark:
		buf.Selection = cursor.Selection{Anchor: buf.Cursor.Pos, Active: true}
	case ClearSelection:
		buf.Selection.Active = false

	case InsertNewline:
		buf.Insert(buf.Cursor.Pos, "\n", now)
		buf.Cursor.Pos++
		return []Effect{{Kind: EffectScheduleParse}}, nil
	case InsertNewlineNoMove:
		pos := buf.Cursor.Pos
		buf.Insert(pos, "\n", now)
		buf.Cursor.Pos = pos
		return []Effect{{Kind: EffectScheduleParse}}, nil

	case Undo:
		if err := buf.Undo(); err != nil {
			buf.SetStatus(err.Error())
			return nil, nil
		}
		return []Effect{{Kind: EffectScheduleParse}}, nil
	case Redo:
		if err := buf.Redo(); err != nil {
			buf.SetStatus(err.Error())
			return nil, nil
		}
		return []Effect{{Kind: EffectScheduleParse}}, nil
	case EditTreeUp:
		return Run(buf, Undo, kr, now, clipboardRequest)
	case EditTreeDown:
		return Run(buf, Redo, kr, now, clipboardRequest)
	case EditTreeLeft:
		buf.SelectSibling(-1)
	case EditTreeRight:
		buf.SelectSibling(1)
	case OpenEditTreeViewer:
		return []Effect{{Kind: EffectOpenEditTreeViewer}}, nil

	case MarkUndoGroup:
		buf.MarkUndoGroup()
	case GlueUndoGroup:
		if err := buf.GlueUndoGroup(); err != nil {
			buf.SetStatus(err.Error())
		}

	case Save:
		return []Effect{{Kind: EffectScheduleSave}}, nil

	case OpenFilePicker:
		return []Effect{{Kind: EffectOpenPicker, PickerKind: PickerOpenFile}}, nil
	case RecursiveFilePicker:
		return []Effect{{Kind: EffectOpenPicker, PickerKind: PickerRecursiveFile}}, nil
	case BufferPicker:
		return []Effect{{Kind: EffectOpenPicker, PickerKind: PickerBuffer}}, nil

	case SplitWindowBelow:
		return []Effect{{Kind: EffectSplitWindow, Orientation: Vertical}}, nil
	case SplitWindowRight:
		return []Effect{{Kind: EffectSplitWindow, Orientation: Horizontal}}, nil
	case CloseWindow:
		return []Effect{{Kind: EffectCloseWindow}}, nil
	case FullscreenWindow:
		return []Effect{{Kind: EffectFullscreenWindow}}, nil
	case NextWindow:
		return []Effect{{Kind: EffectNextWindow}}, nil

	case CycleTheme:
		return []Effect{{Kind: EffectCycleTheme}}, nil
	case Quit:
		return []Effect{{Kind: EffectQuit}}, nil

	default:
		return nil, errors.Errorf("unknown command %q", cmd)
	}
	return nil, nil
}

// pageLines approximates a page of vertical motion; internal/editor may
// override with the focused window's actual viewport height by calling
// buf.Cursor.MoveLine directly instead of Run for PageUp/PageDown when a
// precise height is known.
const pageLines = 20
