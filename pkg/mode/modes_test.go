package mode

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alantheprice/exoshell/pkg/history"
	"github.com/alantheprice/exoshell/pkg/input"
)

var (
	keyEnter = input.NewKey(input.KeyEnter, input.ModNone)
	keyUp    = input.NewKey(input.KeyUp, input.ModNone)
	keyDown  = input.NewKey(input.KeyDown, input.ModNone)
	keyLeft  = input.NewKey(input.KeyLeft, input.ModNone)
	keyRight = input.NewKey(input.KeyRight, input.ModNone)
	keyBS    = input.NewKey(input.KeyBackspace, input.ModNone)
	keyDel   = input.NewKey(input.KeyDelete, input.ModNone)
	keyHome  = input.NewKey(input.KeyHome, input.ModNone)
	keyEnd   = input.NewKey(input.KeyEnd, input.ModNone)
)

func newModes(t *testing.T) (*Modes, *history.History) {
	t.Helper()
	h := history.New(filepath.Join(t.TempDir(), "test.yaml"))
	h.SetClock(func() time.Time { return time.Unix(1_700_000_000, 0) })
	return New(h, DefaultLeader), h
}

func typeText(ms *Modes, text string) {
	for _, r := range text {
		ms.OnKey(input.NewRune(r, input.ModNone))
	}
}

func TestLine_SubmitCommitsToHistory(t *testing.T) {
	ms, h := newModes(t)
	typeText(ms, "ls")

	action := ms.OnKey(keyEnter)
	require.NotNil(t, action)
	assert.Equal(t, Action{Kind: ActionSubmit, Line: "ls"}, *action)
	assert.Equal(t, "", ms.Contents())
	assert.Equal(t, 0, ms.Cursor())

	e, ok := h.Lookup("ls")
	require.True(t, ok)
	assert.Equal(t, uint64(1), e.Count)
	assert.Equal(t, 1, h.Len())
}

func TestLine_EmptySubmitLeavesHistoryAlone(t *testing.T) {
	ms, h := newModes(t)

	action := ms.OnKey(keyEnter)
	require.NotNil(t, action)
	assert.Equal(t, Action{Kind: ActionSubmit, Line: ""}, *action)
	assert.Equal(t, 0, h.Len())
	_, err := os.Stat(h.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestLine_HistoryWriteFailureIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))

	ms := New(history.New(filepath.Join(blocker, "h.yaml")), DefaultLeader)
	typeText(ms, "pwd")
	action := ms.OnKey(keyEnter)
	require.NotNil(t, action)
	assert.Equal(t, "pwd", action.Line)
	assert.Equal(t, 1, ms.History().Len(), "entry is kept in memory")
}

func TestLine_Editing(t *testing.T) {
	tests := []struct {
		name       string
		keys       []input.Event
		wantText   string
		wantCursor int
	}{
		{"insert in middle", []input.Event{r('a'), r('c'), keyLeft, r('b')}, "abc", 2},
		{"left saturates", []input.Event{r('a'), keyLeft, keyLeft, keyLeft}, "a", 0},
		{"right clamps", []input.Event{r('a'), keyRight, keyRight}, "a", 1},
		{"home and end", []input.Event{r('a'), r('b'), keyHome, r('x'), keyEnd, r('y')}, "xaby", 4},
		{"ctrl-a and ctrl-e", []input.Event{r('a'), input.Ctrl('a'), r('0'), input.Ctrl('e'), r('9')}, "0a9", 3},
		{"backspace at start is noop", []input.Event{r('a'), keyHome, keyBS}, "a", 0},
		{"backspace removes before cursor", []input.Event{r('a'), r('b'), r('c'), keyLeft, keyBS}, "ac", 1},
		{"delete removes after cursor", []input.Event{r('a'), r('b'), keyHome, keyDel}, "b", 0},
		{"delete at end is noop", []input.Event{r('a'), keyDel}, "a", 1},
		{"ctrl-c clears", []input.Event{r('a'), r('b'), input.Ctrl('c')}, "", 0},
		{"multibyte runes", []input.Event{r('日'), r('本'), keyLeft, keyBS, r('é')}, "é本", 1},
		{"shifted letter inserts", []input.Event{input.NewRune('A', input.ModShift)}, "A", 1},
		{"alt letter is ignored", []input.Event{input.NewRune('x', input.ModAlt)}, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms, _ := newModes(t)
			for _, k := range tt.keys {
				assert.Nil(t, ms.OnKey(k))
				line := ms.Active().Line()
				require.GreaterOrEqual(t, line.Cursor(), 0)
				require.LessOrEqual(t, line.Cursor(), line.Len())
			}
			assert.Equal(t, tt.wantText, ms.Contents())
			assert.Equal(t, tt.wantCursor, ms.Cursor())
		})
	}
}

func r(c rune) input.Event {
	return input.NewRune(c, input.ModNone)
}

func TestLine_CtrlDQuits(t *testing.T) {
	ms, _ := newModes(t)
	typeText(ms, "abc")
	action := ms.OnKey(input.Ctrl('d'))
	require.NotNil(t, action)
	assert.Equal(t, ActionQuit, action.Kind)
	assert.Equal(t, "abc", ms.Contents(), "quit does not clear the buffer")
}

func TestLine_ReleaseEventsIgnored(t *testing.T) {
	ms, _ := newModes(t)
	ev := r('a')
	ev.Kind = input.Release
	assert.Nil(t, ms.OnKey(ev))
	assert.Equal(t, "", ms.Contents())

	ev.Kind = input.Repeat
	ms.OnKey(ev)
	assert.Equal(t, "a", ms.Contents())
}

func TestLine_HistoryCycling(t *testing.T) {
	ms, h := newModes(t)
	now := time.Unix(1_700_000_000, 0).Unix()
	h.Add("old", now-30*24*3600)
	h.Add("recent", now-60)
	h.Add("recent", now-30)

	typeText(ms, "dra")
	ms.OnKey(keyUp)
	assert.Equal(t, "recent", ms.Contents())
	assert.Equal(t, 6, ms.Cursor())

	ms.OnKey(keyUp)
	assert.Equal(t, "old", ms.Contents())

	ms.OnKey(keyUp)
	assert.Equal(t, "old", ms.Contents(), "selection stops at the oldest entry")
	assert.Equal(t, 2, ms.Active().Line().Selection())

	ms.OnKey(keyDown)
	assert.Equal(t, "recent", ms.Contents())

	ms.OnKey(keyDown)
	assert.Equal(t, "dra", ms.Contents(), "live buffer is restored")
	assert.Equal(t, 0, ms.Active().Line().Selection())

	ms.OnKey(keyDown)
	assert.Equal(t, "dra", ms.Contents())
}

func TestLine_EditingHistoryEntryGoesLive(t *testing.T) {
	ms, h := newModes(t)
	h.Add("make", time.Now().Unix())

	ms.OnKey(keyUp)
	ms.OnKey(r('!'))
	assert.Equal(t, "make!", ms.Contents())
	assert.Equal(t, 0, ms.Active().Line().Selection())

	ms.OnKey(keyDown)
	assert.Equal(t, "make!", ms.Contents())
}

func TestLine_UpWithEmptyHistory(t *testing.T) {
	ms, _ := newModes(t)
	typeText(ms, "x")
	ms.OnKey(keyUp)
	assert.Equal(t, "x", ms.Contents())
	assert.Equal(t, 0, ms.Active().Line().Selection())
}

func TestRaw_Translation(t *testing.T) {
	tests := []struct {
		name string
		ev   input.Event
		want []byte
	}{
		{"letter", r('a'), []byte("a")},
		{"multibyte", r('é'), []byte("é")},
		{"ctrl-c", input.Ctrl('c'), []byte{0x03}},
		{"ctrl-a", input.Ctrl('a'), []byte{0x01}},
		{"ctrl-z", input.Ctrl('z'), []byte{0x1a}},
		{"ctrl-upper", input.Ctrl('D'), []byte{0x04}},
		{"enter", keyEnter, []byte{'\n'}},
		{"backspace", keyBS, []byte{0x7f}},
		{"escape", input.NewKey(input.KeyEscape, input.ModNone), []byte{0x1b}},
		{"tab", input.NewKey(input.KeyTab, input.ModNone), []byte{'\t'}},
		{"up", keyUp, []byte("\x1b[A")},
		{"down", keyDown, []byte("\x1b[B")},
		{"right", keyRight, []byte("\x1b[C")},
		{"left", keyLeft, []byte("\x1b[D")},
		{"home", keyHome, []byte("\x1b[H")},
		{"end", keyEnd, []byte("\x1b[F")},
		{"delete", keyDel, []byte("\x1b[3~")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms, _ := newModes(t)
			ms.SetActive(NewRaw())
			action := ms.OnKey(tt.ev)
			require.NotNil(t, action)
			assert.Equal(t, ActionWrite, action.Kind)
			assert.Equal(t, tt.want, action.Bytes)
			assert.Equal(t, KindRaw, ms.Active().Kind)
		})
	}
}

func TestRaw_UnmappedKeysAreNoops(t *testing.T) {
	ms, _ := newModes(t)
	ms.SetActive(NewRaw())
	assert.Nil(t, ms.OnKey(input.NewKey(input.KeyPageUp, input.ModNone)))
	assert.Nil(t, ms.OnKey(input.Ctrl('1')))
	assert.Nil(t, ms.OnKey(input.NewKey(input.KeyLeft, input.ModCtrl)))
}

func TestPrefix_LeaderRestoresLineExactly(t *testing.T) {
	ms, _ := newModes(t)
	typeText(ms, "git st")
	before := ms.Active().Line()

	assert.Nil(t, ms.OnKey(DefaultLeader))
	assert.Equal(t, KindPrefix, ms.Active().Kind)
	assert.Equal(t, "", ms.Contents())

	assert.Nil(t, ms.OnKey(DefaultLeader))
	assert.Equal(t, KindLine, ms.Active().Kind)
	assert.Equal(t, before, ms.Active().Line())
	assert.Equal(t, "git st", ms.Contents())
	assert.Equal(t, 6, ms.Cursor())
}

func TestPrefix_Commands(t *testing.T) {
	t.Run("q quits and stays in prefix", func(t *testing.T) {
		ms, _ := newModes(t)
		ms.OnKey(DefaultLeader)
		action := ms.OnKey(r('q'))
		require.NotNil(t, action)
		assert.Equal(t, ActionQuit, action.Kind)
		assert.Equal(t, KindPrefix, ms.Active().Kind)
	})

	t.Run("l restores previous line", func(t *testing.T) {
		ms, _ := newModes(t)
		typeText(ms, "draft")
		ms.OnKey(keyLeft)
		ms.OnKey(DefaultLeader)
		ms.OnKey(r('l'))
		assert.Equal(t, KindLine, ms.Active().Kind)
		assert.Equal(t, "draft", ms.Contents())
		assert.Equal(t, 4, ms.Cursor())
	})

	t.Run("l from raw gives a fresh line", func(t *testing.T) {
		ms, _ := newModes(t)
		ms.SetActive(NewRaw())
		ms.OnKey(DefaultLeader)
		ms.OnKey(r('l'))
		assert.Equal(t, KindLine, ms.Active().Kind)
		assert.Equal(t, "", ms.Contents())
	})

	t.Run("r switches to raw", func(t *testing.T) {
		ms, _ := newModes(t)
		ms.OnKey(DefaultLeader)
		ms.OnKey(r('r'))
		assert.Equal(t, KindRaw, ms.Active().Kind)
	})

	t.Run("leader from raw prefix returns to raw", func(t *testing.T) {
		ms, _ := newModes(t)
		ms.SetActive(NewRaw())
		ms.OnKey(DefaultLeader)
		assert.Equal(t, KindPrefix, ms.Active().Kind)
		ms.OnKey(DefaultLeader)
		assert.Equal(t, KindRaw, ms.Active().Kind)
	})

	t.Run("other keys are noops", func(t *testing.T) {
		ms, _ := newModes(t)
		ms.OnKey(DefaultLeader)
		assert.Nil(t, ms.OnKey(r('x')))
		assert.Nil(t, ms.OnKey(keyEnter))
		assert.Equal(t, KindPrefix, ms.Active().Kind)
	})
}

func TestPrefix_OwnsCopyOfPrevious(t *testing.T) {
	line := NewLineText("abc")
	prefix := NewPrefix(NewLine(line))

	line.buffer[0] = 'z'
	prev, ok := prefix.Previous()
	require.True(t, ok)
	assert.Equal(t, "abc", prev.Contents())
}

func TestCustomLeader(t *testing.T) {
	h := history.New("")
	ms := New(h, input.MustParseKey("<C-a>"))

	assert.Equal(t, []string{"^D Quit", "^A Prefix"}, ms.Keybinds())
	ms.OnKey(input.Ctrl('a'))
	assert.Equal(t, KindPrefix, ms.Active().Kind)
	assert.Equal(t, []string{"q Quit", "r Raw", "l Line", "^A Return"}, ms.Keybinds())
}

func TestView(t *testing.T) {
	ms, _ := newModes(t)

	assert.Equal(t, "LINE", ms.Name())
	assert.Equal(t, lipgloss.Color("2"), ms.Color())
	assert.Equal(t, []string{"^D Quit", `^\ Prefix`}, ms.Keybinds())

	ms.SetActive(NewRaw())
	assert.Equal(t, "RAW", ms.Name())
	assert.Equal(t, lipgloss.Color("1"), ms.Color())
	assert.Equal(t, []string{`^\ Prefix`}, ms.Keybinds())
	assert.Equal(t, "", ms.Contents())
	assert.Equal(t, 0, ms.Cursor())

	ms.SetActive(NewPrefix(NewRaw()))
	assert.Equal(t, "PREFIX", ms.Name())
	assert.Equal(t, lipgloss.Color("3"), ms.Color())
	assert.Equal(t, []string{"q Quit", "r Raw", "l Line", `^\ Return`}, ms.Keybinds())
}

func TestKeybinds_LeaderOnlyWhereReferenced(t *testing.T) {
	for _, m := range []Mode{NewLine(Line{}), NewRaw(), NewPrefix(NewRaw())} {
		binds := m.Keybinds("<C-x>")
		var withLeader int
		for _, b := range binds {
			assert.NotContains(t, b, "%")
			assert.NotContains(t, b, leaderPlaceholder)
			if strings.HasPrefix(b, "<C-x> ") {
				withLeader++
			}
		}
		assert.Equal(t, 1, withLeader, m.Name())
	}
}
