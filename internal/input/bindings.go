package input

import "github.com/zee-editor/zee/internal/command"

// binding pairs a chord sequence with the command it resolves to, under a
// name distinct from the command name so the same command can be bound to
// more than one chord (e.g. both C-f and the right arrow resolve to
// forward-char).
type binding struct {
	name string
	seq  []KeyPress
	cmd  command.Name
}

func ctrl(r rune) KeyPress  { return New(r, false, true, false, false) }
func alt(r rune) KeyPress   { return New(r, false, false, true, false) }
func plain(r rune) KeyPress { return New(r, false, false, false, false) }

// DefaultBindings is the canonical Emacs-derived keymap of spec.md §4.4,
// grounded in the literal chords spec.md §8's scenarios exercise
// (C-a, C-k, C-y, C-SPC, A-w, C-z) and extended to cover the rest of the
// command set with the conventional Emacs chord for each.
func DefaultBindings() (map[string][]KeyPress, map[string]command.Name) {
	bindings := []binding{
		{"forward-char", []KeyPress{ctrl('f')}, command.ForwardChar},
		{"backward-char", []KeyPress{ctrl('b')}, command.BackwardChar},
		{"forward-word", []KeyPress{alt('f')}, command.ForwardWord},
		{"backward-word", []KeyPress{alt('b')}, command.BackwardWord},
		{"next-line", []KeyPress{ctrl('n')}, command.NextLine},
		{"previous-line", []KeyPress{ctrl('p')}, command.PreviousLine},
		{"forward-paragraph", []KeyPress{alt('}')}, command.ForwardParagraph},
		{"backward-paragraph", []KeyPress{alt('{')}, command.BackwardParagraph},
		{"page-down", []KeyPress{ctrl('v')}, command.PageDown},
		{"page-up", []KeyPress{alt('v')}, command.PageUp},
		{"buffer-start", []KeyPress{alt('<')}, command.BufferStart},
		{"buffer-end", []KeyPress{alt('>')}, command.BufferEnd},
		{"beginning-of-line", []KeyPress{ctrl('a')}, command.BeginningOfLine},
		{"end-of-line", []KeyPress{ctrl('e')}, command.EndOfLine},
		{"center-viewport", []KeyPress{ctrl('l')}, command.CenterViewport},

		{"delete-forward-char", []KeyPress{ctrl('d')}, command.DeleteForwardChar},
		{"delete-backward-char", []KeyPress{New(0xE002, false, false, false, false)}, command.DeleteBackwardChar}, // Backspace
		{"kill-line", []KeyPress{ctrl('k')}, command.KillLine},
		{"kill-region", []KeyPress{ctrl('w')}, command.KillRegion},
		{"copy-region", []KeyPress{alt('w')}, command.CopyRegion},
		{"yank", []KeyPress{ctrl('y')}, command.Yank},
		{"set-mark", []KeyPress{New(' ', false, true, false, false)}, command.SetMark}, // C-SPC
		{"clear-selection", []KeyPress{ctrl('g')}, command.ClearSelection},
		{"insert-newline", []KeyPress{New(0xE000, false, false, false, false)}, command.InsertNewline}, // Enter
		{"insert-newline-no-move", []KeyPress{ctrl('o')}, command.InsertNewlineNoMove},

		{"undo", []KeyPress{ctrl('z')}, command.Undo},
		{"redo", []KeyPress{ctrl('x'), ctrl('r')}, command.Redo},
		{"edit-tree-up", []KeyPress{ctrl('x'), plain('u')}, command.EditTreeUp},
		{"edit-tree-down", []KeyPress{ctrl('x'), plain('d')}, command.EditTreeDown},
		{"edit-tree-left", []KeyPress{ctrl('x'), plain('l')}, command.EditTreeLeft},
		{"edit-tree-right", []KeyPress{ctrl('x'), plain('r')}, command.EditTreeRight},
		{"open-edit-tree-viewer", []KeyPress{ctrl('x'), plain('t')}, command.OpenEditTreeViewer},

		{"mark-undo-group", []KeyPress{ctrl('x'), New(' ', false, true, false, false)}, command.MarkUndoGroup},
		{"glue-undo-group", []KeyPress{ctrl('x'), plain('g')}, command.GlueUndoGroup},

		{"save", []KeyPress{ctrl('x'), ctrl('s')}, command.Save},

		{"open-file-picker", []KeyPress{ctrl('x'), ctrl('f')}, command.OpenFilePicker},
		{"recursive-file-picker", []KeyPress{ctrl('x'), plain('f')}, command.RecursiveFilePicker},
		{"buffer-picker", []KeyPress{ctrl('x'), plain('b')}, command.BufferPicker},

		{"split-window-below", []KeyPress{ctrl('x'), plain('2')}, command.SplitWindowBelow},
		{"split-window-right", []KeyPress{ctrl('x'), plain('3')}, command.SplitWindowRight},
		{"close-window", []KeyPress{ctrl('x'), plain('0')}, command.CloseWindow},
		{"fullscreen-window", []KeyPress{ctrl('x'), plain('1')}, command.FullscreenWindow},
		{"next-window", []KeyPress{ctrl('x'), plain('o')}, command.NextWindow},

		{"cycle-theme", []KeyPress{ctrl('x'), plain('c')}, command.CycleTheme},
		{"quit", []KeyPress{ctrl('x'), ctrl('c')}, command.Quit},

		// named keys spec.md §4 lists alongside C-/A- chords: arrows mirror
		// the C-f/C-b/C-n/C-p motions, Home/End mirror C-a/C-e, PgUp/PgDn
		// mirror A-v/C-v. Bound under their own names so they augment
		// rather than replace the chord above resolving to the same command.
		{"previous-line-up", []KeyPress{New(0xE005, false, false, false, false)}, command.PreviousLine},
		{"next-line-down", []KeyPress{New(0xE006, false, false, false, false)}, command.NextLine},
		{"backward-char-left", []KeyPress{New(0xE007, false, false, false, false)}, command.BackwardChar},
		{"forward-char-right", []KeyPress{New(0xE008, false, false, false, false)}, command.ForwardChar},
		{"beginning-of-line-home", []KeyPress{New(0xE009, false, false, false, false)}, command.BeginningOfLine},
		{"end-of-line-end", []KeyPress{New(0xE00A, false, false, false, false)}, command.EndOfLine},
		{"page-up-pgup", []KeyPress{New(0xE00B, false, false, false, false)}, command.PageUp},
		{"page-down-pgdn", []KeyPress{New(0xE00C, false, false, false, false)}, command.PageDown},
		{"delete-forward-char-del", []KeyPress{New(0xE003, false, false, false, false)}, command.DeleteForwardChar},
	}

	rawBindings := make(map[string][]KeyPress, len(bindings))
	commands := make(map[string]command.Name, len(bindings))
	for _, b := range bindings {
		rawBindings[b.name] = b.seq
		commands[b.name] = b.cmd
	}
	return rawBindings, commands
}
