// Package shell draws the bordered prompt box and keeps track of where the
// terminal cursor was left so the box can be erased and redrawn in place.
//
// A drawn box looks like this, with the real cursor placed inside the content:
//
//	╭(exoshell)──────────╮
//	│ls -la              │
//	╰(LINE)─(^D Quit)────╯
//
// The footer line ends with a carriage return and no newline so that the box
// never scrolls the terminal by an extra row.
package shell

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/alantheprice/exoshell/pkg/banner"
	"github.com/alantheprice/exoshell/pkg/utils"
)

const (
	componentLeft  = '('
	componentRight = ')'
)

// View is what the shell needs to know about the active input mode.
type View interface {
	Name() string
	Contents() string
	// Cursor is a rune index into Contents, len(Contents) meaning after the end.
	Cursor() int
	Color() lipgloss.TerminalColor
	Keybinds() []string
}

// RenderState records the geometry of the last draw.
type RenderState struct {
	// CursorRow and CursorCol locate the cursor within the content area,
	// zero based, not counting the header line or the left border.
	CursorRow int
	CursorCol int
	// Rows is the number of content rows drawn.
	Rows int
	// Width is the content width used for the draw.
	Width int
}

// Shell renders the prompt box.
type Shell struct {
	border   Border
	titles   []string
	cols     int
	state    RenderState
	drawn    bool
	renderer *lipgloss.Renderer
}

// New creates a shell for a terminal cols columns wide.
func New(border Border, cols int) *Shell {
	// The renderer never writes itself, so its output cannot tell it the
	// profile. Frames always carry ANSI colors.
	renderer := lipgloss.NewRenderer(io.Discard)
	renderer.SetColorProfile(termenv.ANSI)
	return &Shell{
		border:   border,
		cols:     max(cols, 1),
		renderer: renderer,
	}
}

// PushTitle adds a title component to the header.
func (s *Shell) PushTitle(title string) {
	s.titles = append(s.titles, title)
}

// Cols returns the terminal width the shell draws for.
func (s *Shell) Cols() int {
	return s.cols
}

// State returns the geometry of the last draw.
func (s *Shell) State() RenderState {
	return s.state
}

func (s *Shell) width() int {
	return max(s.cols-2, 1)
}

// Draw writes the whole box for view and leaves the terminal cursor on the
// view's cursor position.
func (s *Shell) Draw(w io.Writer, view View) error {
	width := s.width()
	style := s.renderer.NewStyle().Foreground(view.Color())
	paint := func(str string) string { return style.Render(str) }
	vertical := paint(string(s.border.Vertical))

	header := banner.New(s.border.Horizontal)
	for _, title := range s.titles {
		header.PushLeft(banner.NewComponent(componentLeft, title, componentRight))
	}

	var sb strings.Builder
	sb.WriteString(paint(string(s.border.TopLeft) + header.Render(width) + string(s.border.TopRight)))
	sb.WriteString("\r\n")
	sb.WriteString(vertical)

	content := append([]rune(view.Contents()), ' ')
	cursor := view.Cursor()
	row, col := 0, 0
	cursorRow, cursorCol := 0, 0

	for i, r := range content {
		rw := banner.RuneWidth(r)
		// A rune wider than the whole row still goes on a row of its own.
		if col+rw > width && col > 0 {
			sb.WriteString(strings.Repeat(" ", max(width-col, 0)))
			sb.WriteString(vertical)
			sb.WriteString("\r\n")
			sb.WriteString(vertical)
			row++
			col = 0
		}
		if i == cursor {
			cursorRow, cursorCol = row, col
		}
		sb.WriteRune(r)
		col += rw
	}

	if col < width {
		sb.WriteString(strings.Repeat(" ", width-col))
	}
	sb.WriteString(vertical)
	sb.WriteString("\r\n")

	footer := banner.New(s.border.Horizontal).
		PushLeft(banner.NewComponent(componentLeft, view.Name(), componentRight))
	for _, keybind := range view.Keybinds() {
		footer.PushRight(banner.NewComponent(componentLeft, keybind, componentRight))
	}
	sb.WriteString(paint(string(s.border.BottomLeft) + footer.Render(width) + string(s.border.BottomRight)))
	sb.WriteString("\r")

	// From the footer line back up to the cursor row, then past the border.
	cursorUp(&sb, row-cursorRow+1)
	cursorForward(&sb, cursorCol+1)

	s.state = RenderState{
		CursorRow: cursorRow,
		CursorCol: cursorCol,
		Rows:      row + 1,
		Width:     width,
	}
	s.drawn = true

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return utils.NewTerminalError("draw", err)
	}
	return nil
}

// Clear erases the last drawn box and leaves the cursor at the start of the
// line where the header was.
func (s *Shell) Clear(w io.Writer) error {
	if !s.drawn {
		return nil
	}
	return s.eraseFrom(w, "clear", s.state.CursorRow+1)
}

// Resize erases the last drawn box for a terminal that is now cols wide and
// updates the width used for later draws.
//
// When the terminal narrows, every previously drawn line (all of them padded
// to the old width) reflows onto ceil(old/new) rows, and the cursor itself
// may have moved down within its own line.
func (s *Shell) Resize(w io.Writer, cols int) error {
	cols = max(cols, 1)
	old := s.cols
	s.cols = cols

	if !s.drawn {
		return nil
	}
	if cols >= old {
		return s.eraseFrom(w, "resize", s.state.CursorRow+1)
	}

	perLine := (old + cols - 1) / cols
	rows := (s.state.CursorRow+1)*perLine + (s.state.CursorCol+1)/cols
	return s.eraseFrom(w, "resize", rows)
}

func (s *Shell) eraseFrom(w io.Writer, op string, rows int) error {
	var sb strings.Builder
	cursorUp(&sb, rows)
	sb.WriteString("\r")
	fmt.Fprintf(&sb, termenv.CSI+termenv.EraseDisplaySeq, 0)

	s.drawn = false
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return utils.NewTerminalError(op, err)
	}
	return nil
}

// Moves of zero are skipped: most terminals treat a zero count as one.
func cursorUp(sb *strings.Builder, n int) {
	if n > 0 {
		fmt.Fprintf(sb, termenv.CSI+termenv.CursorUpSeq, n)
	}
}

func cursorForward(sb *strings.Builder, n int) {
	if n > 0 {
		fmt.Fprintf(sb, termenv.CSI+termenv.CursorForwardSeq, n)
	}
}
