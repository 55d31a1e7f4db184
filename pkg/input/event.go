package input

import (
	"strings"
	"unicode"
)

// Kind distinguishes key presses from auto-repeat and release reports.
type Kind uint8

const (
	Press Kind = iota
	Repeat
	Release
)

// Event is a single key event.
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
	Kind      Kind
}

// NewRune creates a press event for a character key.
func NewRune(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewKey creates a press event for a special key.
func NewKey(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// Ctrl creates a Control+character press event.
func Ctrl(r rune) Event {
	return NewRune(r, ModCtrl)
}

// IsRune returns true for character key events.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar returns true for a printable character typed without Control or Alt.
// Shift is part of the character itself.
func (e Event) IsChar() bool {
	return e.IsRune() && !e.Modifiers.Has(ModCtrl) && !e.Modifiers.Has(ModAlt) && unicode.IsPrint(e.Rune)
}

// IsCtrl returns true if e is Control plus the given character, ignoring case.
func (e Event) IsCtrl(r rune) bool {
	return e.IsRune() && e.Modifiers.Has(ModCtrl) && !e.Modifiers.Has(ModAlt) &&
		unicode.ToLower(e.Rune) == unicode.ToLower(r)
}

// IsKey returns true if e is the given special key with no Control or Alt.
func (e Event) IsKey(k Key) bool {
	return e.Key == k && !e.Modifiers.Has(ModCtrl) && !e.Modifiers.Has(ModAlt)
}

// Handled reports whether the event should be acted on. Release reports are not.
func (e Event) Handled() bool {
	return e.Kind == Press || e.Kind == Repeat
}

// Matches compares two events by key, character and modifiers, ignoring Kind.
// Shift is ignored for character keys.
func (e Event) Matches(other Event) bool {
	if e.Key != other.Key {
		return false
	}
	mask := ModCtrl | ModAlt | ModShift
	if e.Key == KeyRune {
		if e.Modifiers.Has(ModCtrl) {
			if unicode.ToLower(e.Rune) != unicode.ToLower(other.Rune) {
				return false
			}
		} else if e.Rune != other.Rune {
			return false
		}
		mask = ModCtrl | ModAlt
	}
	return e.Modifiers&mask == other.Modifiers&mask
}

// Caret returns the short label used in keybind hints, e.g. "^\" or "^A".
func (e Event) Caret() string {
	var b strings.Builder
	if e.Modifiers.Has(ModAlt) {
		b.WriteString("M-")
	}
	if e.Key == KeyRune {
		if e.Modifiers.Has(ModCtrl) {
			b.WriteByte('^')
			b.WriteRune(unicode.ToUpper(e.Rune))
		} else {
			b.WriteRune(e.Rune)
		}
		return b.String()
	}
	if e.Modifiers.Has(ModCtrl) {
		b.WriteByte('^')
	}
	b.WriteString(e.Key.String())
	return b.String()
}

// String returns a canonical string such as "Ctrl+a" or "Enter".
func (e Event) String() string {
	var parts []string
	if e.Modifiers.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if e.Modifiers.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if e.Modifiers.Has(ModShift) && e.Key != KeyRune {
		parts = append(parts, "Shift")
	}
	switch {
	case e.Key == KeyRune && e.Rune == ' ':
		parts = append(parts, "Space")
	case e.Key == KeyRune:
		parts = append(parts, string(e.Rune))
	default:
		parts = append(parts, e.Key.String())
	}
	return strings.Join(parts, "+")
}
