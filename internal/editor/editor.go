// Package editor wires together every other internal package into the
// running program: it owns the buffer table and window tree, dispatches
// resolved key chords through internal/command, performs the Effects
// those commands request, and drains scheduler results back onto
// buffers, all from a single goroutine per spec.md §5's cooperative
// single-threaded main loop.
package editor

import (
	"context"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/atotto/clipboard"
	"github.com/limetext/log4go"
	"github.com/pkg/errors"

	"github.com/zee-editor/zee/internal/buffer"
	bclipboard "github.com/zee-editor/zee/internal/clipboard"
	"github.com/zee-editor/zee/internal/command"
	"github.com/zee-editor/zee/internal/config"
	"github.com/zee-editor/zee/internal/grammar"
	"github.com/zee-editor/zee/internal/input"
	"github.com/zee-editor/zee/internal/picker"
	"github.com/zee-editor/zee/internal/scheduler"
	"github.com/zee-editor/zee/internal/syntax"
	"github.com/zee-editor/zee/internal/theme"
	"github.com/zee-editor/zee/internal/tui"
	"github.com/zee-editor/zee/internal/window"
)

// Editor owns every subsystem and drives the key -> command -> effect
// cycle described by spec.md §4.
type Editor struct {
	ConfigDir string
	Config    config.Config

	Themes     *theme.Registry
	ThemeIndex int

	Grammars  *grammar.Registry
	Scheduler *scheduler.Scheduler
	Term      tui.Terminal

	dispatcher *input.Dispatcher
	killRing   *command.KillRing

	buffers      map[buffer.ID]*buffer.Buffer
	nextBufferID buffer.ID
	scratchID    buffer.ID
	Windows      *window.Tree

	pendingEdits map[buffer.ID][]syntax.TreeEdit

	// treeViewers maps a source buffer to the read-only viewer buffer
	// rendering its edit tree, if one is currently open.
	treeViewers map[buffer.ID]buffer.ID

	ActivePicker *picker.Picker
	pickerKind   command.PickerKind
	pickerQuery  string
	pickerCancel context.CancelFunc

	watcher *watcher

	Quit     bool
	QuitCode int
}

// New loads config.ron (if present) from configDir and wires up every
// subsystem around an empty scratch buffer.
func New(configDir string, term tui.Terminal) (*Editor, error) {
	cfg, err := loadConfigOrDefault(configDir)
	if err != nil {
		return nil, &ConfigParseError{Cause: err}
	}

	themes, err := theme.NewRegistry(configDir)
	if err != nil {
		return nil, errors.Wrap(err, "editor: loading themes")
	}
	themeIndex := cfg.ThemeIndex
	if cfg.ThemeName != "" {
		if _, idx, err := themes.ByName(cfg.ThemeName); err == nil {
			themeIndex = idx
		}
	}

	bindings, commands := input.DefaultBindings()

	e := &Editor{
		ConfigDir:    configDir,
		Config:       cfg,
		Themes:       themes,
		ThemeIndex:   themeIndex,
		Grammars:     grammar.NewRegistry(filepath.Join(configDir, "grammars")),
		Scheduler:    scheduler.New(),
		Term:         term,
		dispatcher:   input.NewDispatcher(bindings, commands),
		killRing:     &command.KillRing{},
		buffers:      make(map[buffer.ID]*buffer.Buffer),
		pendingEdits: make(map[buffer.ID][]syntax.TreeEdit),
		treeViewers:  make(map[buffer.ID]buffer.ID),
	}

	scratch := e.newBuffer()
	e.scratchID = scratch.ID
	e.Windows = window.New(scratch.ID)

	e.watcher = newWatcher()
	configPath := filepath.Join(configDir, "config.ron")
	if err := e.watcher.Watch(configPath, e.reloadConfig); err != nil {
		log4go.Error("editor: could not watch %s: %s", configPath, err)
	}
	go e.watcher.Observe()

	return e, nil
}

func loadConfigOrDefault(configDir string) (config.Config, error) {
	path := filepath.Join(configDir, "config.ron")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Config{}, nil
	}
	return config.Load(path)
}

func (e *Editor) reloadConfig() {
	cfg, err := loadConfigOrDefault(e.ConfigDir)
	if err != nil {
		log4go.Error("editor: config.ron reload failed: %s", err)
		return
	}
	e.Config = cfg
}

// Close releases the scheduler, watcher, and terminal.
func (e *Editor) Close() {
	e.watcher.UnwatchAll()
	e.Scheduler.Close()
	if e.Term != nil {
		e.Term.Close()
	}
}

func (e *Editor) newBuffer() *buffer.Buffer {
	e.nextBufferID++
	b := buffer.New(e.nextBufferID)
	e.buffers[b.ID] = b
	return b
}

func (e *Editor) newBufferFromContent(content string) *buffer.Buffer {
	e.nextBufferID++
	b := buffer.NewFromContent(e.nextBufferID, content)
	e.buffers[b.ID] = b
	return b
}

// OpenFile reads a file from disk into a new buffer, detects its mode,
// and schedules an initial full parse.
func (e *Editor) OpenFile(path string) (buffer.ID, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, &IOError{Path: path, Cause: err}
	}
	b := e.newBufferFromContent(string(data))
	b.Path = path

	firstLine := data
	if i := strings.IndexByte(string(data), '\n'); i >= 0 {
		firstLine = data[:i]
	}
	modePtrs := make([]*buffer.Mode, len(e.Config.Modes))
	for i := range e.Config.Modes {
		modePtrs[i] = modeFromConfig(&e.Config.Modes[i])
	}
	b.Mode = buffer.DetectMode(modePtrs, filepath.Base(path), string(firstLine))
	if b.Mode.InjectionRegex != "" {
		if err := b.Mode.CompileInjection(); err != nil {
			log4go.Error("editor: compiling injection regex for mode %s: %s", b.Mode.Name, err)
		}
	}

	e.submitParse(b)
	return b.ID, nil
}

// OpenFilesAtStartup loads every path into its own buffer and points the
// editor's single window at the first one, per spec.md §6: "opening N
// files creates N buffers and a single window showing the first".
func (e *Editor) OpenFilesAtStartup(paths []string) error {
	for i, path := range paths {
		id, err := e.OpenFile(path)
		if err != nil {
			return err
		}
		if i == 0 {
			e.Windows.Focused().SetBuffer(id)
		}
	}
	return nil
}

func modeFromConfig(m *config.ModeConfig) *buffer.Mode {
	return &buffer.Mode{
		Name:           m.Name,
		Scope:          m.Scope,
		Patterns:       m.Patterns,
		Shebangs:       m.Shebangs,
		CommentToken:   m.CommentToken,
		Indent:         m.Indent,
		GrammarID:      grammarIDOf(m),
		InjectionRegex: m.InjectionRegex,
	}
}

func grammarIDOf(m *config.ModeConfig) string {
	if m.Grammar == nil {
		return ""
	}
	return m.Grammar.ID
}

// Buffer returns the buffer for id, if any.
func (e *Editor) Buffer(id buffer.ID) (*buffer.Buffer, bool) {
	b, ok := e.buffers[id]
	return b, ok
}

// FocusedBuffer returns the buffer shown by the focused window leaf.
func (e *Editor) FocusedBuffer() *buffer.Buffer {
	return e.buffers[e.Windows.Focused().BufferID()]
}

// HandleKey feeds one chord through the dispatcher and, on resolution,
// executes the resulting command against the focused buffer.
func (e *Editor) HandleKey(kp input.KeyPress) {
	if e.ActivePicker != nil {
		e.handlePickerKey(kp)
		return
	}

	buf := e.FocusedBuffer()
	wasIdle := !e.dispatcher.InProgress()
	state, cmd, ok := e.dispatcher.Feed(kp)
	if !ok {
		if wasIdle && kp.IsCharacter() {
			e.selfInsert(buf, kp.Key)
			return
		}
		buf.SetStatus((&BindingUnresolvedError{Sequence: kp.String()}).Error())
		return
	}
	if state != input.Resolved {
		return // still in-prefix; wait for the next chord
	}
	e.Dispatch(buf, cmd)
}

// selfInsert types a literal character at the cursor; per spec.md §4.9,
// plain self-inserting keys are resolved only when the dispatcher's prefix
// is empty, so any bound chord always takes priority over typing.
func (e *Editor) selfInsert(buf *buffer.Buffer, r rune) {
	buf.ClearStatus()
	before := buf.History().Position()
	buf.Insert(buf.Cursor.Pos, string(r), time.Now())
	buf.Cursor.Pos += len(string(r))
	if buf.History().Position() != before {
		e.recordEdit(buf)
		e.refreshTreeViewer(buf)
	}
	e.submitParse(buf)
}

// Dispatch runs a resolved command against buf and performs its Effects.
func (e *Editor) Dispatch(buf *buffer.Buffer, cmd command.Name) {
	before := buf.History().Position()
	effects, err := e.runCommand(buf, cmd)
	if err != nil {
		buf.SetStatus(err.Error())
		return
	}
	for _, eff := range effects {
		e.applyEffect(buf, eff)
	}
	if isEditTreeCommand(cmd) || buf.History().Position() != before {
		e.refreshTreeViewer(buf)
	}
}

// isEditTreeCommand reports whether cmd is one of the history navigation or
// undo-group commands, after which Dispatch always re-renders the edit-tree
// viewer; any other command re-renders it only when it moved the history
// position.
func isEditTreeCommand(cmd command.Name) bool {
	switch cmd {
	case command.Undo, command.Redo,
		command.EditTreeUp, command.EditTreeDown, command.EditTreeLeft, command.EditTreeRight,
		command.MarkUndoGroup, command.GlueUndoGroup:
		return true
	default:
		return false
	}
}

// runCommand executes cmd with a panic recovered and logged exactly as the
// teacher's Window.runCommand does, so a bug in one command degrades to a
// status message instead of taking down the whole process.
func (e *Editor) runCommand(buf *buffer.Buffer, cmd command.Name) (effects []command.Effect, err error) {
	before := buf.History().Position()
	defer func() {
		if r := recover(); r != nil {
			log4go.Error("editor: panic while running command %s: %v\n%s", cmd, r, string(debug.Stack()))
			err = errors.Errorf("command %s panicked: %v", cmd, r)
		}
	}()
	effects, err = command.Run(buf, cmd, e.killRing, time.Now(), e.syncClipboardPaste)
	if err == nil && buf.History().Position() != before {
		e.recordEdit(buf)
	}
	return effects, err
}

func (e *Editor) recordEdit(buf *buffer.Buffer) {
	edit, _ := buf.History().Current()
	if edit.Removed == "" && edit.Inserted == "" {
		return
	}
	te := syntax.TreeEdit{
		StartByte:  uint32(edit.StartByte),
		OldEndByte: uint32(edit.StartByte + len(edit.Removed)),
		NewEndByte: uint32(edit.StartByte + len(edit.Inserted)),
	}
	e.pendingEdits[buf.ID] = append(e.pendingEdits[buf.ID], te)
}

// syncClipboardPaste is the synchronous system-clipboard read Yank needs;
// a blocking local clipboard read is fast enough not to warrant a
// scheduler round trip the way the fire-and-forget copy-out does.
func (e *Editor) syncClipboardPaste() string {
	text, err := clipboard.ReadAll()
	if err != nil {
		return ""
	}
	return text
}

func (e *Editor) applyEffect(buf *buffer.Buffer, eff command.Effect) {
	switch eff.Kind {
	case command.EffectScheduleParse:
		e.submitParse(buf)
	case command.EffectScheduleSave:
		e.submitSave(buf)
	case command.EffectSetClipboard:
		bclipboard.Copy(e.Scheduler, eff.Text)
	case command.EffectOpenPicker:
		e.openPicker(eff.PickerKind)
	case command.EffectCloseWindow:
		e.Windows.Close(e.scratchID)
	case command.EffectSplitWindow:
		if eff.Orientation == command.Vertical {
			e.Windows.SplitBelow()
		} else {
			e.Windows.SplitRight()
		}
	case command.EffectFullscreenWindow:
		e.Windows.Fullscreen()
	case command.EffectNextWindow:
		e.Windows.NextFocus()
	case command.EffectCenterViewport:
		e.centerViewport(buf)
	case command.EffectCycleTheme:
		if e.Themes.Len() > 0 {
			e.ThemeIndex = (e.ThemeIndex + 1) % e.Themes.Len()
		}
	case command.EffectOpenEditTreeViewer:
		e.openEditTreeViewer(buf)
	case command.EffectQuit:
		e.Quit = true
	}
}

// openEditTreeViewer opens a real, read-only window rendering buf's edit
// tree in a new split, per SPEC_FULL.md §9.1. Focus stays on the original
// leaf so the Left/Right/Up/Down edit-tree commands of §8 scenario 5
// continue to act on buf; the new split is a passive view onto its history,
// re-rendered by refreshTreeViewer whenever the tree changes.
func (e *Editor) openEditTreeViewer(buf *buffer.Buffer) {
	original := e.Windows.Focused()

	viewer := e.newBufferFromContent(buf.History().Render())
	viewer.ReadOnly = true
	e.treeViewers[buf.ID] = viewer.ID

	e.Windows.SplitBelow()
	e.Windows.Focused().SetBuffer(viewer.ID)
	e.Windows.Focus(original)
}

// refreshTreeViewer re-renders buf's edit tree into its open viewer buffer,
// if any, after a command that may have changed the tree (undo, redo,
// branch navigation, or a fresh edit).
func (e *Editor) refreshTreeViewer(buf *buffer.Buffer) {
	viewerID, ok := e.treeViewers[buf.ID]
	if !ok {
		return
	}
	viewer, ok := e.buffers[viewerID]
	if !ok {
		delete(e.treeViewers, buf.ID)
		return
	}
	viewer.ReadOnly = false
	viewer.Replace(0, len(viewer.Rope().String()), buf.History().Render(), time.Now())
	viewer.ReadOnly = true
}

func (e *Editor) centerViewport(buf *buffer.Buffer) {
	leaf := e.Windows.Focused()
	_, h := e.Term.Size()
	line := buf.Rope().ByteToLine(buf.Cursor.Pos)
	top := line - h/2
	if top < 0 {
		top = 0
	}
	_, col := leaf.Viewport()
	leaf.SetViewport(top, col)
}

// submitParse schedules a reparse for buf reflecting its current edit
// version, carrying forward the accumulated pending tree edits against
// the last accepted tree.
func (e *Editor) submitParse(buf *buffer.Buffer) {
	var g *grammar.Grammar
	if buf.Mode != nil && buf.Mode.GrammarID != "" {
		g = e.Grammars.Get(buf.Mode.GrammarID)
	}
	var oldTree *sitter.Tree
	if t, ok := buf.Parse.Tree.(*sitter.Tree); ok {
		oldTree = t
	}
	job := syntax.Job{
		BufferID:     buf.ID,
		PostVer:      buf.Version(),
		Content:      buf.Rope().String(),
		OldTree:      oldTree,
		PendingEdits: append([]syntax.TreeEdit(nil), e.pendingEdits[buf.ID]...),
		Grammar:      g,
	}
	key := scheduler.Key{Kind: scheduler.KindParse, ID: bufferKey(buf.ID)}
	e.Scheduler.Submit(key, func(ctx context.Context) (any, error) {
		return syntax.Execute(ctx, job), nil
	})
}

func (e *Editor) submitSave(buf *buffer.Buffer) {
	before := buf.History().Position()
	path, content, err := buf.PrepareSave(time.Now())
	if err != nil {
		buf.SetStatus(err.Error())
		return
	}
	if buf.History().Position() != before {
		e.recordEdit(buf)
		e.submitParse(buf)
	}
	key := scheduler.Key{Kind: scheduler.KindWrite, ID: bufferKey(buf.ID)}
	e.Scheduler.Submit(key, func(ctx context.Context) (any, error) {
		return nil, os.WriteFile(path, []byte(content), 0644)
	})
}

func bufferKey(id buffer.ID) string {
	return strings.TrimSpace(strings_Itoa(int(id)))
}

// strings_Itoa avoids importing strconv solely for one call site; kept
// local since Key.ID is just an opaque comparable string.
func strings_Itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// PumpResults drains every scheduler result currently available without
// blocking, applying parse results and save completions to their
// buffers. Call once per main-loop tick.
func (e *Editor) PumpResults() {
	for {
		select {
		case r := <-e.Scheduler.Results:
			e.applyResult(r)
		default:
			return
		}
	}
}

func (e *Editor) applyResult(r scheduler.Result) {
	e.Scheduler.Forget(r.Key)
	switch r.Key.Kind {
	case scheduler.KindParse:
		res, ok := r.Value.(syntax.Result)
		if !ok {
			return
		}
		buf, ok := e.buffers[res.BufferID]
		if !ok {
			return
		}
		next, accepted := syntax.Accept(buf.Parse, res, buf.Version())
		if !accepted {
			return
		}
		buf.Parse = next
		delete(e.pendingEdits, buf.ID)
	case scheduler.KindWrite:
		buf := e.bufferForKey(r.Key.ID)
		if buf == nil {
			return
		}
		if r.Err != nil {
			buf.CancelSave()
			buf.SetStatus((&IOError{Path: buf.Path, Cause: r.Err}).Error())
			return
		}
		buf.MarkSaved()
	case scheduler.KindClipboard:
		// fire-and-forget; failures are not surfaced per SPEC_FULL.md §4.10.
	}
}

func (e *Editor) bufferForKey(key string) *buffer.Buffer {
	for _, b := range e.buffers {
		if bufferKey(b.ID) == key {
			return b
		}
	}
	return nil
}

// openPicker starts a picker session of the given kind, feeding it
// candidates from a source appropriate to that kind.
func (e *Editor) openPicker(kind command.PickerKind) {
	ctx, cancel := context.WithCancel(context.Background())
	e.pickerCancel = cancel
	e.pickerKind = kind

	p := picker.New(pickerKind(kind), 50)
	e.ActivePicker = p

	src := make(chan picker.Candidate, 64)
	switch kind {
	case command.PickerBuffer:
		go func() {
			defer close(src)
			for _, id := range e.sortedBufferIDs() {
				b := e.buffers[id]
				name := b.Path
				if name == "" {
					name = "*scratch*"
				}
				select {
				case src <- picker.Candidate{Text: name, Meta: b.ID}:
				case <-ctx.Done():
					return
				}
			}
		}()
	case command.PickerOpenFile:
		go func() {
			defer close(src)
			entries, err := os.ReadDir(".")
			if err != nil {
				return
			}
			for _, en := range entries {
				select {
				case src <- picker.Candidate{Text: en.Name()}:
				case <-ctx.Done():
					return
				}
			}
		}()
	case command.PickerRecursiveFile:
		go e.walkForPicker(ctx, ".", src)
	}
	go p.Feed(ctx, src)
}

func (e *Editor) walkForPicker(ctx context.Context, root string, out chan<- picker.Candidate) {
	defer close(out)
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if info.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		select {
		case out <- picker.Candidate{Text: path}:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	})
}

func pickerKind(k command.PickerKind) picker.Kind {
	switch k {
	case command.PickerBuffer:
		return picker.KindBuffer
	case command.PickerRecursiveFile:
		return picker.KindFile
	default:
		return picker.KindFile
	}
}

// handlePickerKey routes a key event to the active picker: Enter accepts
// the top result, Escape cancels, C-l ascends one directory in a path
// query, Tab expands the selection into the query, any other character
// key edits the query.
func (e *Editor) handlePickerKey(kp input.KeyPress) {
	const enter, escape, tab = rune(0xE000), rune(0xE004), rune(0xE001)
	switch {
	case kp.Key == escape:
		e.closePicker()
	case kp.Key == enter:
		e.acceptPicker()
	case kp.Key == tab:
		results := e.ActivePicker.Results()
		if len(results) > 0 {
			e.pickerQuery = results[0].Text
			e.ActivePicker.SetQuery(e.pickerQuery)
		}
	case kp.Ctrl && kp.Key == 'l':
		e.pickerQuery = parentDir(e.pickerQuery)
		e.ActivePicker.SetQuery(e.pickerQuery)
	case kp.IsCharacter():
		e.pickerQuery += string(kp.Key)
		e.ActivePicker.SetQuery(e.pickerQuery)
	}
}

func parentDir(q string) string {
	dir := filepath.Dir(q)
	if dir == "." {
		return ""
	}
	return dir + string(filepath.Separator)
}

func (e *Editor) acceptPicker() {
	results := e.ActivePicker.Results()
	kind := e.pickerKind
	e.closePicker()
	if len(results) == 0 {
		return
	}
	top := results[0]
	switch kind {
	case command.PickerBuffer:
		if id, ok := top.Meta.(buffer.ID); ok {
			e.Windows.Focused().SetBuffer(id)
		}
	case command.PickerOpenFile, command.PickerRecursiveFile:
		id, err := e.OpenFile(top.Text)
		if err != nil {
			e.FocusedBuffer().SetStatus(err.Error())
			return
		}
		e.Windows.Focused().SetBuffer(id)
	}
}

func (e *Editor) closePicker() {
	if e.pickerCancel != nil {
		e.pickerCancel()
	}
	e.ActivePicker = nil
	e.pickerQuery = ""
}

// sortedBufferIDs returns every open buffer id in a stable order, used by
// the buffer picker and tests.
func (e *Editor) sortedBufferIDs() []buffer.ID {
	ids := make([]buffer.ID, 0, len(e.buffers))
	for id := range e.buffers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
