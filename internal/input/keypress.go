// Package input implements the key-sequence dispatcher of spec.md §4.9:
// a prefix tree of chords mapping to commands, fed one physical key event
// at a time and tracking whether the dispatcher is idle, mid-sequence, or
// has just resolved a binding.
package input

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// modifier bit weights, mirroring the teacher's backend/keys.KeyPress.Index
// encoding (shift/ctrl/alt/super packed above the rune's own bit range).
const (
	shift = 1 << 26
	ctrl  = 1 << 27
	alt   = 1 << 28
	super = 1 << 29
)

// KeyPress is one physical chord: a rune plus modifier flags.
type KeyPress struct {
	Key   rune
	Shift bool
	Ctrl  bool
	Alt   bool
	Super bool
}

// fix normalizes an upper-case letter typed with Shift into its lower-case
// rune plus an explicit Shift flag, matching the teacher's keys.fix.
func (k *KeyPress) fix() {
	if k.Key >= 'A' && k.Key <= 'Z' {
		k.Key += 'a' - 'A'
		k.Shift = true
	}
}

// Index returns a unique integer identifying this chord, used as a map
// key by the dispatcher's prefix tree.
func (k KeyPress) Index() int {
	i := int(k.Key)
	if k.Shift {
		i += shift
	}
	if k.Ctrl {
		i += ctrl
	}
	if k.Alt {
		i += alt
	}
	if k.Super {
		i += super
	}
	return i
}

// NamedKeyStart is the first private-use-area rune reserved for named keys
// (Enter, arrows, ...); a KeyPress.Key at or above this is never a literal
// printable character, however its modifier bits look.
const NamedKeyStart rune = 0xE000

// IsCharacter reports whether this chord, on its own, types a literal
// character rather than invoking a binding: only a bare key or Shift+key,
// and not one of the reserved named-key runes.
func (k KeyPress) IsCharacter() bool {
	return !k.Ctrl && !k.Alt && !k.Super && k.Key < NamedKeyStart
}

// String renders a chord as its modifier names and key joined by "+", e.g.
// "ctrl+x" or "super+shift+a".
func (k KeyPress) String() string {
	var parts []string
	if k.Super {
		parts = append(parts, "super")
	}
	if k.Ctrl {
		parts = append(parts, "ctrl")
	}
	if k.Alt {
		parts = append(parts, "alt")
	}
	if k.Shift {
		parts = append(parts, "shift")
	}
	parts = append(parts, string(k.Key))
	return strings.Join(parts, "+")
}

// New constructs a normalized KeyPress.
func New(key rune, shift, ctrl, alt, super bool) KeyPress {
	k := KeyPress{Key: key, Shift: shift, Ctrl: ctrl, Alt: alt, Super: super}
	k.fix()
	return k
}

// FromTcellEvent converts a tcell key event into a KeyPress, resolving
// named keys (arrows, Enter, Tab, ...) to the private-use runes spec.md
// §4.9 reserves for them.
func FromTcellEvent(ev *tcell.EventKey) (KeyPress, error) {
	mod := ev.Modifiers()
	ctrlSet := mod&tcell.ModCtrl != 0
	altSet := mod&tcell.ModAlt != 0
	superSet := mod&tcell.ModMeta != 0
	shiftSet := mod&tcell.ModShift != 0

	if ev.Key() == tcell.KeyRune {
		return New(ev.Rune(), shiftSet, ctrlSet, altSet, superSet), nil
	}
	if r, ok := namedKeyRunes[ev.Key()]; ok {
		return New(r, shiftSet, ctrlSet, altSet, superSet), nil
	}
	// Ctrl+letter arrives as a tcell.Key control code (e.g. KeyCtrlX);
	// recover the underlying letter so ctrl+x and Ctrl-held-x collapse
	// to the same KeyPress.
	if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
		letter := rune(ev.Key()) + 'a' - rune(tcell.KeyCtrlA)
		return New(letter, shiftSet, true, altSet, superSet), nil
	}
	return KeyPress{}, fmt.Errorf("input: unmapped tcell key %v", ev.Key())
}

// namedKeyRunes maps non-character tcell keys to the private-use-area
// runes spec.md §4.9 uses so named keys can share KeyPress's rune field.
var namedKeyRunes = map[tcell.Key]rune{
	tcell.KeyEnter:     0xE000,
	tcell.KeyTab:       0xE001,
	tcell.KeyBackspace: 0xE002,
	tcell.KeyBackspace2: 0xE002,
	tcell.KeyDelete:    0xE003,
	tcell.KeyEscape:    0xE004,
	tcell.KeyUp:        0xE005,
	tcell.KeyDown:      0xE006,
	tcell.KeyLeft:      0xE007,
	tcell.KeyRight:     0xE008,
	tcell.KeyHome:      0xE009,
	tcell.KeyEnd:       0xE00A,
	tcell.KeyPgUp:      0xE00B,
	tcell.KeyPgDn:      0xE00C,
}
