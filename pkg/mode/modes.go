package mode

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/alantheprice/exoshell/pkg/history"
	"github.com/alantheprice/exoshell/pkg/input"
	"github.com/alantheprice/exoshell/pkg/utils"
)

// ActionKind identifies what the host should do.
type ActionKind int

const (
	// ActionSubmit carries a finished line in Line.
	ActionSubmit ActionKind = iota + 1
	// ActionWrite carries raw terminal bytes in Bytes.
	ActionWrite
	// ActionQuit asks the host to exit.
	ActionQuit
)

func (k ActionKind) String() string {
	switch k {
	case ActionSubmit:
		return "Submit"
	case ActionWrite:
		return "Write"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Action is a request produced by a key event.
type Action struct {
	Kind  ActionKind
	Line  string
	Bytes []byte
}

// DefaultLeader is Ctrl-\.
var DefaultLeader = input.Ctrl('\\')

// Modes holds the active mode and the history used by Line mode. It is the
// view the shell draws.
type Modes struct {
	active  Mode
	history *history.History
	leader  input.Event
	label   string
	// ranked is the history order captured when cycling starts, so the order
	// does not shift while the user steps through it.
	ranked []string
}

// New creates Modes starting in an empty Line mode. A nil history is
// replaced by one that is never written.
func New(h *history.History, leader input.Event) *Modes {
	if h == nil {
		h = history.New("")
	}
	return &Modes{
		active:  NewLine(Line{}),
		history: h,
		leader:  leader,
		label:   leader.Caret(),
	}
}

// OnKey handles one key event. Mode changes are applied internally; only
// Submit, Write and Quit are returned.
func (ms *Modes) OnKey(ev input.Event) *Action {
	if !ev.Handled() {
		return nil
	}
	next, action := kinds[ms.active.Kind].handle(ms.active, ms, ev)
	ms.active = next
	return action
}

// Active returns the current mode.
func (ms *Modes) Active() Mode {
	return ms.active
}

// SetActive replaces the current mode.
func (ms *Modes) SetActive(m Mode) {
	ms.active = m
	ms.ranked = nil
}

// History returns the history used for submitted lines.
func (ms *Modes) History() *history.History {
	return ms.history
}

// Leader returns the configured leader key.
func (ms *Modes) Leader() input.Event {
	return ms.leader
}

func (ms *Modes) Name() string                  { return ms.active.Name() }
func (ms *Modes) Contents() string              { return ms.active.Contents() }
func (ms *Modes) Cursor() int                   { return ms.active.Cursor() }
func (ms *Modes) Color() lipgloss.TerminalColor { return ms.active.Color() }
func (ms *Modes) Keybinds() []string            { return ms.active.Keybinds(ms.label) }

func (ms *Modes) isLeader(ev input.Event) bool {
	return ms.leader.Matches(ev)
}

// commit records a submitted line. Persistence problems are logged and never
// interrupt editing.
func (ms *Modes) commit(text string) {
	if text == "" {
		return
	}
	if err := ms.history.Update(text); err != nil {
		utils.GetLogger().LogError(err)
	}
}

// rankedCommands returns the history order for cycling, capturing it when
// selection is at the live buffer.
func (ms *Modes) rankedCommands(selection int) []string {
	if selection == 0 || ms.ranked == nil {
		entries := ms.history.Rank()
		ms.ranked = make([]string, len(entries))
		for i, e := range entries {
			ms.ranked[i] = e.Command
		}
	}
	return ms.ranked
}
