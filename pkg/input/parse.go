package input

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidKeySpec is returned when a key specification can't be parsed.
var ErrInvalidKeySpec = errors.New("invalid key specification")

// ParseKey parses a key specification into an Event.
//
// Accepted forms:
//   - "a", "Z", "€": a single character
//   - "enter", "esc", "up": a named key
//   - "ctrl+\", "Ctrl-a", "alt+x", "ctrl+alt+left": modifier prefixes
//   - "C-a", "M-x", "<C-a>": Vim/Emacs style prefixes
//   - "^\", "^A": caret notation for Control
func ParseKey(spec string) (Event, error) {
	s := strings.TrimSpace(spec)
	if s == "" {
		return Event{}, fmt.Errorf("%w: empty", ErrInvalidKeySpec)
	}
	if len(s) > 2 && s[0] == '<' && s[len(s)-1] == '>' {
		s = s[1 : len(s)-1]
	}

	if len(s) > 1 && s[0] == '^' {
		ev, err := parseBase(s[1:])
		if err != nil || ev.Key != KeyRune {
			return Event{}, fmt.Errorf("%w: %q", ErrInvalidKeySpec, spec)
		}
		ev.Modifiers = ev.Modifiers.With(ModCtrl)
		return normalize(ev), nil
	}

	mods := ModNone
	for {
		prefix, rest, ok := splitModifier(s)
		if !ok {
			break
		}
		mod, known := modifierFromName(prefix)
		if !known {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidKeySpec, prefix)
		}
		mods = mods.With(mod)
		s = rest
	}

	ev, err := parseBase(s)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %q", ErrInvalidKeySpec, spec)
	}
	ev.Modifiers = ev.Modifiers.With(mods)
	return normalize(ev), nil
}

// MustParseKey is like ParseKey but panics on error.
func MustParseKey(spec string) Event {
	ev, err := ParseKey(spec)
	if err != nil {
		panic(err)
	}
	return ev
}

// splitModifier splits "ctrl+x" or "C-x" into its first modifier and the rest.
// A trailing separator on its own ("ctrl++") leaves the separator as the key.
func splitModifier(s string) (string, string, bool) {
	for i := 1; i < len(s)-1; i++ {
		if s[i] == '+' || s[i] == '-' {
			if _, ok := modifierFromName(s[:i]); ok {
				return s[:i], s[i+1:], true
			}
			return s[:i], s[i+1:], isWord(s[:i])
		}
	}
	return "", s, false
}

func isWord(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return len(s) > 1
}

func modifierFromName(name string) (Modifier, bool) {
	switch strings.ToLower(name) {
	case "ctrl", "control", "c":
		return ModCtrl, true
	case "alt", "meta", "m", "a", "option", "opt":
		return ModAlt, true
	case "shift", "s":
		return ModShift, true
	}
	return ModNone, false
}

func parseBase(s string) (Event, error) {
	if s == "" {
		return Event{}, ErrInvalidKeySpec
	}
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		return NewRune(r, ModNone), nil
	}
	lower := strings.ToLower(s)
	if lower == "space" {
		return NewRune(' ', ModNone), nil
	}
	if k := keyFromName(lower); k != KeyNone {
		return NewKey(k, ModNone), nil
	}
	return Event{}, ErrInvalidKeySpec
}

// normalize lower-cases Control+letter so that it compares equal to what
// Decode produces for the matching control byte.
func normalize(ev Event) Event {
	if ev.Key == KeyRune && ev.Modifiers.Has(ModCtrl) && ev.Rune >= 'A' && ev.Rune <= 'Z' {
		ev.Rune += 'a' - 'A'
	}
	return ev
}
