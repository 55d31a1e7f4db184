package mode

import (
	"github.com/alantheprice/exoshell/pkg/input"
)

// Line is an editable single line of text. All positions are rune indexes
// and 0 <= cursor <= len(buffer) always holds.
type Line struct {
	buffer []rune
	cursor int
	// selection is the history position being shown; 0 is the live buffer.
	selection int
	// stash keeps the live buffer while cycling through history.
	stash []rune
}

// NewLineText creates a line holding text with the cursor at the end.
func NewLineText(text string) Line {
	buf := []rune(text)
	return Line{buffer: buf, cursor: len(buf)}
}

func (l Line) String() string {
	return string(l.buffer)
}

// Cursor returns the cursor position.
func (l Line) Cursor() int {
	return l.cursor
}

// Len returns the number of runes in the buffer.
func (l Line) Len() int {
	return len(l.buffer)
}

// Selection returns the history position being shown.
func (l Line) Selection() int {
	return l.selection
}

func (l Line) clone() Line {
	out := l
	out.buffer = append([]rune(nil), l.buffer...)
	if l.stash != nil {
		out.stash = append([]rune(nil), l.stash...)
	}
	return out
}

// live drops any history selection, keeping what is shown as the buffer.
func (l *Line) live() {
	l.selection = 0
	l.stash = nil
}

func (l *Line) insert(r rune) {
	l.buffer = append(l.buffer, 0)
	copy(l.buffer[l.cursor+1:], l.buffer[l.cursor:])
	l.buffer[l.cursor] = r
	l.cursor++
	l.live()
}

func (l *Line) backspace() {
	if l.cursor == 0 {
		return
	}
	l.buffer = append(l.buffer[:l.cursor-1], l.buffer[l.cursor:]...)
	l.cursor--
	l.live()
}

func (l *Line) delete() {
	if l.cursor >= len(l.buffer) {
		return
	}
	l.buffer = append(l.buffer[:l.cursor], l.buffer[l.cursor+1:]...)
	l.live()
}

func (l *Line) left() {
	if l.cursor > 0 {
		l.cursor--
	}
}

func (l *Line) right() {
	if l.cursor < len(l.buffer) {
		l.cursor++
	}
}

func (l *Line) home() { l.cursor = 0 }
func (l *Line) end()  { l.cursor = len(l.buffer) }

func (l *Line) clear() {
	l.buffer = nil
	l.cursor = 0
	l.live()
}

func (l *Line) show(text []rune) {
	l.buffer = append([]rune(nil), text...)
	l.cursor = len(l.buffer)
}

// older moves one step back through the ranked history.
func (l *Line) older(ranked []string) {
	if l.selection >= len(ranked) {
		return
	}
	if l.selection == 0 {
		l.stash = append([]rune(nil), l.buffer...)
	}
	l.selection++
	l.show([]rune(ranked[l.selection-1]))
}

// newer moves one step forward, back to the live buffer at the end.
func (l *Line) newer(ranked []string) {
	if l.selection == 0 {
		return
	}
	l.selection--
	if l.selection == 0 || l.selection > len(ranked) {
		l.show(l.stash)
		l.live()
		return
	}
	l.show([]rune(ranked[l.selection-1]))
}

func onLineKey(m Mode, ms *Modes, ev input.Event) (Mode, *Action) {
	if ms.isLeader(ev) {
		return NewPrefix(m), nil
	}

	l := m.line
	var action *Action

	switch {
	case ev.IsChar():
		l.insert(ev.Rune)
	case ev.IsKey(input.KeyLeft):
		l.left()
	case ev.IsKey(input.KeyRight):
		l.right()
	case ev.IsKey(input.KeyHome), ev.IsCtrl('a'):
		l.home()
	case ev.IsKey(input.KeyEnd), ev.IsCtrl('e'):
		l.end()
	case ev.IsKey(input.KeyBackspace):
		l.backspace()
	case ev.IsKey(input.KeyDelete):
		l.delete()
	case ev.IsKey(input.KeyUp):
		l.older(ms.rankedCommands(l.selection))
	case ev.IsKey(input.KeyDown):
		l.newer(ms.rankedCommands(l.selection))
	case ev.IsKey(input.KeyEnter):
		text := l.String()
		ms.commit(text)
		l = Line{}
		ms.ranked = nil
		action = &Action{Kind: ActionSubmit, Line: text}
	case ev.IsCtrl('c'):
		l.clear()
	case ev.IsCtrl('d'):
		action = &Action{Kind: ActionQuit}
	}

	m.line = l
	return m, action
}
