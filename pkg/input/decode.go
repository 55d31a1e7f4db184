package input

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const esc = 0x1b

// Decode reads the first key event from buf and returns it together with the
// number of bytes consumed.
//
// A return of n == 0 means buf starts with an incomplete sequence and more
// bytes are needed. When final is true no more bytes are expected soon, so a
// lone ESC is reported as the Escape key and truncated sequences are resolved
// as far as possible. Bytes that do not form a known key yield KeyNone with
// n > 0 so the caller can skip them.
func Decode(buf []byte, final bool) (Event, int) {
	if len(buf) == 0 {
		return Event{}, 0
	}

	b := buf[0]
	switch {
	case b == esc:
		return decodeEscape(buf, final)
	case b == '\r':
		return NewKey(KeyEnter, ModNone), 1
	case b == '\t':
		return NewKey(KeyTab, ModNone), 1
	case b == 0x7f, b == 0x08:
		return NewKey(KeyBackspace, ModNone), 1
	case b == 0x00:
		return Ctrl(' '), 1
	case b >= 0x01 && b <= 0x1a:
		return Ctrl(rune('a' + b - 1)), 1
	case b >= 0x1c && b <= 0x1f:
		return Ctrl(rune(`\]^_`[b-0x1c])), 1
	case b < utf8.RuneSelf:
		return NewRune(rune(b), ModNone), 1
	}

	if !utf8.FullRune(buf) {
		if final {
			return Event{}, 1
		}
		return Event{}, 0
	}
	r, size := utf8.DecodeRune(buf)
	if r == utf8.RuneError && size <= 1 {
		return Event{}, 1
	}
	return NewRune(r, ModNone), size
}

// DecodeAll decodes every complete event in buf, dropping KeyNone events. It
// returns the events and the unconsumed remainder.
func DecodeAll(buf []byte, final bool) ([]Event, []byte) {
	var events []Event
	for len(buf) > 0 {
		ev, n := Decode(buf, final)
		if n == 0 {
			break
		}
		buf = buf[n:]
		if ev.Key != KeyNone {
			events = append(events, ev)
		}
	}
	return events, buf
}

func decodeEscape(buf []byte, final bool) (Event, int) {
	if len(buf) == 1 {
		if final {
			return NewKey(KeyEscape, ModNone), 1
		}
		return Event{}, 0
	}

	switch buf[1] {
	case '[':
		return decodeCSI(buf, final)
	case 'O':
		return decodeSS3(buf, final)
	case esc:
		return NewKey(KeyEscape, ModNone), 1
	}

	// ESC followed by a key is how terminals report Alt.
	ev, n := Decode(buf[1:], final)
	if n == 0 {
		return Event{}, 0
	}
	if ev.Key == KeyNone {
		return Event{}, n + 1
	}
	ev.Modifiers = ev.Modifiers.With(ModAlt)
	return ev, n + 1
}

func decodeCSI(buf []byte, final bool) (Event, int) {
	end := -1
	for i := 2; i < len(buf); i++ {
		if buf[i] >= 0x40 && buf[i] <= 0x7e {
			end = i
			break
		}
	}
	if end < 0 {
		if final {
			return NewKey(KeyEscape, ModNone), 1
		}
		return Event{}, 0
	}

	params := strings.Split(string(buf[2:end]), ";")
	mods := ModNone
	if len(params) > 1 {
		mods = parseModifierParam(params[1])
	}
	n := end + 1

	switch buf[end] {
	case 'A':
		return NewKey(KeyUp, mods), n
	case 'B':
		return NewKey(KeyDown, mods), n
	case 'C':
		return NewKey(KeyRight, mods), n
	case 'D':
		return NewKey(KeyLeft, mods), n
	case 'H':
		return NewKey(KeyHome, mods), n
	case 'F':
		return NewKey(KeyEnd, mods), n
	case 'Z':
		return NewKey(KeyTab, ModShift), n
	case '~':
		switch params[0] {
		case "1", "7":
			return NewKey(KeyHome, mods), n
		case "2":
			return NewKey(KeyInsert, mods), n
		case "3":
			return NewKey(KeyDelete, mods), n
		case "4", "8":
			return NewKey(KeyEnd, mods), n
		case "5":
			return NewKey(KeyPageUp, mods), n
		case "6":
			return NewKey(KeyPageDown, mods), n
		}
	}
	return Event{}, n
}

func decodeSS3(buf []byte, final bool) (Event, int) {
	if len(buf) < 3 {
		if final {
			return NewKey(KeyEscape, ModNone), 1
		}
		return Event{}, 0
	}
	switch buf[2] {
	case 'A':
		return NewKey(KeyUp, ModNone), 3
	case 'B':
		return NewKey(KeyDown, ModNone), 3
	case 'C':
		return NewKey(KeyRight, ModNone), 3
	case 'D':
		return NewKey(KeyLeft, ModNone), 3
	case 'H':
		return NewKey(KeyHome, ModNone), 3
	case 'F':
		return NewKey(KeyEnd, ModNone), 3
	}
	return Event{}, 3
}

// parseModifierParam decodes the xterm modifier parameter, which is one plus
// a bit set of shift=1, alt=2, ctrl=4.
func parseModifierParam(s string) Modifier {
	v, err := strconv.Atoi(s)
	if err != nil || v < 2 {
		return ModNone
	}
	bits := v - 1
	mods := ModNone
	if bits&1 != 0 {
		mods = mods.With(ModShift)
	}
	if bits&2 != 0 {
		mods = mods.With(ModAlt)
	}
	if bits&4 != 0 {
		mods = mods.With(ModCtrl)
	}
	return mods
}
