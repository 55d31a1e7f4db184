package mode

import (
	"github.com/alantheprice/exoshell/pkg/input"
)

// rawKeys maps special keys to the bytes a terminal would send for them.
var rawKeys = map[input.Key][]byte{
	input.KeyEnter:     {'\n'},
	input.KeyBackspace: {0x7f},
	input.KeyEscape:    {0x1b},
	input.KeyTab:       {'\t'},
	input.KeyUp:        []byte("\x1b[A"),
	input.KeyDown:      []byte("\x1b[B"),
	input.KeyRight:     []byte("\x1b[C"),
	input.KeyLeft:      []byte("\x1b[D"),
	input.KeyHome:      []byte("\x1b[H"),
	input.KeyEnd:       []byte("\x1b[F"),
	input.KeyDelete:    []byte("\x1b[3~"),
}

// RawBytes translates a key event into the bytes to forward, or nil if the
// key has no raw form.
func RawBytes(ev input.Event) []byte {
	switch {
	case ev.IsChar():
		return []byte(string(ev.Rune))
	case ev.IsRune() && ev.Modifiers.Has(input.ModCtrl) && !ev.Modifiers.Has(input.ModAlt):
		r := ev.Rune | 0x20 // lower case
		if r >= 'a' && r <= 'z' {
			return []byte{byte(r-'a') + 1}
		}
		return nil
	case ev.Modifiers.Has(input.ModCtrl), ev.Modifiers.Has(input.ModAlt):
		return nil
	}

	if b, ok := rawKeys[ev.Key]; ok {
		return append([]byte(nil), b...)
	}
	return nil
}

func onRawKey(m Mode, ms *Modes, ev input.Event) (Mode, *Action) {
	if ms.isLeader(ev) {
		return NewPrefix(m), nil
	}
	if b := RawBytes(ev); b != nil {
		return m, &Action{Kind: ActionWrite, Bytes: b}
	}
	return m, nil
}
