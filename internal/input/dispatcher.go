package input

import "github.com/zee-editor/zee/internal/command"

// State is the dispatcher's position in a key sequence, per spec.md §4.9.
type State int

const (
	// Idle: no chords consumed since the last resolution or reset.
	Idle State = iota
	// InPrefix: one or more chords consumed that are a strict prefix of
	// at least one binding, but not yet a binding themselves.
	InPrefix
	// Resolved: the consumed chords exactly match a binding.
	Resolved
)

type node struct {
	cmd      command.Name
	hasCmd   bool
	children map[int]*node
}

func newNode() *node { return &node{children: make(map[int]*node)} }

// Dispatcher resolves chord sequences to commands via a prefix tree built
// from the active keymap.
type Dispatcher struct {
	root    *node
	current *node
}

// NewDispatcher builds a dispatcher from a set of bindings, each a
// sequence of chords mapped to a command name.
func NewDispatcher(bindings map[string][]KeyPress, commands map[string]command.Name) *Dispatcher {
	d := &Dispatcher{root: newNode()}
	d.current = d.root
	for name, seq := range bindings {
		cmd, ok := commands[name]
		if !ok || len(seq) == 0 {
			continue
		}
		n := d.root
		for _, kp := range seq {
			idx := kp.Index()
			child, ok := n.children[idx]
			if !ok {
				child = newNode()
				n.children[idx] = child
			}
			n = child
		}
		n.cmd = cmd
		n.hasCmd = true
	}
	return d
}

// Feed advances the dispatcher by one chord. On Resolved, the caller
// should invoke cmd and then the dispatcher auto-resets to Idle. On a
// chord that matches no binding at all from the current state, the
// dispatcher resets to Idle and reports unresolved so the caller can
// surface spec.md §7's BindingUnresolvedError.
func (d *Dispatcher) Feed(kp KeyPress) (State, command.Name, bool) {
	idx := kp.Index()
	child, ok := d.current.children[idx]
	if !ok {
		d.current = d.root
		return Idle, "", false
	}
	d.current = child
	if child.hasCmd && len(child.children) == 0 {
		d.current = d.root
		return Resolved, child.cmd, true
	}
	if child.hasCmd {
		// A full binding but also a prefix of a longer one: resolve now,
		// per spec.md's "a binding resolves as soon as it matches exactly".
		d.current = d.root
		return Resolved, child.cmd, true
	}
	return InPrefix, "", true
}

// Reset returns the dispatcher to Idle, e.g. after an idle timeout or
// explicit cancel (Escape) while InPrefix.
func (d *Dispatcher) Reset() { d.current = d.root }

// InProgress reports whether a chord sequence is currently pending.
func (d *Dispatcher) InProgress() bool { return d.current != d.root }
