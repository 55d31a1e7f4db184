// Package mode implements the input modes of the prompt as a closed set of
// variants with one key handler per variant.
//
//	LINE    edits a line of text and submits it on Enter
//	RAW     forwards every key to the host as terminal bytes
//	PREFIX  waits for one command key after the leader key
//
// The active variant lives in Modes, which turns key events into the
// host-visible Actions and applies mode changes itself.
package mode

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alantheprice/exoshell/pkg/input"
)

// Kind tags the active variant of a Mode.
type Kind int

const (
	KindLine Kind = iota
	KindRaw
	KindPrefix
)

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kinds) {
		return kinds[k].name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Mode is one of Line, Raw or Prefix. Only the fields of the tagged variant
// are meaningful: line for KindLine and previous for KindPrefix.
type Mode struct {
	Kind     Kind
	line     Line
	previous *Mode
}

// NewLine returns a Line mode holding line.
func NewLine(line Line) Mode {
	return Mode{Kind: KindLine, line: line}
}

// NewRaw returns a Raw mode.
func NewRaw() Mode {
	return Mode{Kind: KindRaw}
}

// NewPrefix returns a Prefix mode that remembers a copy of previous.
func NewPrefix(previous Mode) Mode {
	p := previous.clone()
	return Mode{Kind: KindPrefix, previous: &p}
}

// Line returns the line state. It is the zero Line unless Kind is KindLine.
func (m Mode) Line() Line {
	return m.line
}

// Previous returns the mode a Prefix will return to.
func (m Mode) Previous() (Mode, bool) {
	if m.Kind != KindPrefix || m.previous == nil {
		return Mode{}, false
	}
	return *m.previous, true
}

func (m Mode) clone() Mode {
	out := Mode{Kind: m.Kind, line: m.line.clone()}
	if m.previous != nil {
		p := m.previous.clone()
		out.previous = &p
	}
	return out
}

// Contents is the text shown inside the box.
func (m Mode) Contents() string {
	if m.Kind == KindLine {
		return m.line.String()
	}
	return ""
}

// Cursor is the rune index of the cursor within Contents.
func (m Mode) Cursor() int {
	if m.Kind == KindLine {
		return m.line.cursor
	}
	return 0
}

// Name is shown in the footer.
func (m Mode) Name() string {
	return m.Kind.String()
}

// Color is the foreground color of the box.
func (m Mode) Color() lipgloss.TerminalColor {
	return kinds[m.Kind].color
}

// Keybinds returns the footer hints, with the leader shown as label.
func (m Mode) Keybinds(label string) []string {
	binds := kinds[m.Kind].keybinds
	out := make([]string, len(binds))
	for i, b := range binds {
		out[i] = strings.ReplaceAll(b, leaderPlaceholder, label)
	}
	return out
}

// handler processes one key for the active variant and returns the next mode.
type handler func(m Mode, ms *Modes, ev input.Event) (Mode, *Action)

type kindInfo struct {
	name     string
	color    lipgloss.Color
	keybinds []string
	handle   handler
}

// leaderPlaceholder stands for the leader label in keybind hints.
const leaderPlaceholder = "<leader>"

// kinds is the dispatch table, indexed by Kind.
var kinds = [...]kindInfo{
	KindLine: {
		name:     "LINE",
		color:    lipgloss.Color("2"),
		keybinds: []string{"^D Quit", "<leader> Prefix"},
		handle:   onLineKey,
	},
	KindRaw: {
		name:     "RAW",
		color:    lipgloss.Color("1"),
		keybinds: []string{"<leader> Prefix"},
		handle:   onRawKey,
	},
	KindPrefix: {
		name:     "PREFIX",
		color:    lipgloss.Color("3"),
		keybinds: []string{"q Quit", "r Raw", "l Line", "<leader> Return"},
		handle:   onPrefixKey,
	},
}

func onPrefixKey(m Mode, ms *Modes, ev input.Event) (Mode, *Action) {
	if ms.isLeader(ev) {
		if prev, ok := m.Previous(); ok {
			return prev, nil
		}
		return NewLine(Line{}), nil
	}
	if !ev.IsChar() {
		return m, nil
	}

	switch ev.Rune {
	case 'q':
		return m, &Action{Kind: ActionQuit}
	case 'l':
		if prev, ok := m.Previous(); ok && prev.Kind == KindLine {
			return prev, nil
		}
		return NewLine(Line{}), nil
	case 'r':
		return NewRaw(), nil
	}
	return m, nil
}
