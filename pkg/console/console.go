// Package console drives the prompt box on a terminal for a host program.
//
// A host creates a Console, calls Start, then calls Update in its loop to get
// Actions while using Print for its own output, and finally calls Stop:
//
//	c, err := console.New("python", []string{"python"})
//	...
//	if err := c.Start(); err != nil { ... }
//	defer c.Stop()
//	for {
//		action, err := c.Update(50 * time.Millisecond)
//		...
//	}
package console

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/alantheprice/exoshell/pkg/configuration"
	"github.com/alantheprice/exoshell/pkg/history"
	"github.com/alantheprice/exoshell/pkg/mode"
	"github.com/alantheprice/exoshell/pkg/shell"
	"github.com/alantheprice/exoshell/pkg/terminal"
	"github.com/alantheprice/exoshell/pkg/utils"
)

// Action is what an Update asks the host to do.
type Action = mode.Action

const (
	ActionSubmit = mode.ActionSubmit
	ActionWrite  = mode.ActionWrite
	ActionQuit   = mode.ActionQuit
)

// frameBufferSize is large enough that one frame never triggers an early
// flush of the output buffer.
const frameBufferSize = 64 * 1024

type options struct {
	term    terminal.Terminal
	history *history.History
	config  *configuration.Config
}

// Option configures a Console.
type Option func(*options)

// WithTerminal uses t instead of the process terminal.
func WithTerminal(t terminal.Terminal) Option {
	return func(o *options) { o.term = t }
}

// WithHistory uses h instead of the history file for the session name.
func WithHistory(h *history.History) Option {
	return func(o *options) { o.history = h }
}

// WithConfig uses c instead of the default configuration.
func WithConfig(c *configuration.Config) Option {
	return func(o *options) { o.config = c }
}

// Console is the composition root: it owns the terminal, the box renderer
// and the input modes.
type Console struct {
	term      terminal.Terminal
	out       *bufio.Writer
	shell     *shell.Shell
	modes     *mode.Modes
	cols      int
	outputCol int
}

// New creates a console for session name with the given header titles.
// Problems with the history file never fail construction; a terminal whose
// size cannot be read does.
func New(name string, titles []string, opts ...Option) (*Console, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.config == nil {
		o.config = configuration.NewConfig()
	}
	if err := o.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	border, _ := o.config.BorderGlyphs()
	leader, _ := o.config.LeaderKey()

	if o.term == nil {
		tty, err := terminal.New()
		if err != nil {
			return nil, err
		}
		o.term = tty
	}

	cols, _, err := o.term.Size()
	if err != nil {
		return nil, fmt.Errorf("failed to get terminal size: %w", err)
	}

	if o.history == nil {
		o.history = history.Open(name)
	}
	utils.GetLogger().SetSession(name)

	sh := shell.New(border, cols)
	for _, title := range append(append([]string(nil), titles...), o.config.Titles...) {
		sh.PushTitle(title)
	}

	return &Console{
		term:  o.term,
		out:   bufio.NewWriterSize(o.term, frameBufferSize),
		shell: sh,
		modes: mode.New(o.history, leader),
		cols:  cols,
	}, nil
}

// Modes returns the input modes, e.g. to inspect the active one.
func (c *Console) Modes() *mode.Modes {
	return c.modes
}

// Start enables raw mode and draws the box.
func (c *Console) Start() error {
	if err := c.term.EnableRawMode(); err != nil {
		return err
	}

	if err := c.redraw(); err != nil {
		// Leave the terminal usable even though drawing failed.
		if rawErr := c.term.DisableRawMode(); rawErr != nil {
			utils.GetLogger().LogError(rawErr)
		}
		return err
	}
	return nil
}

// Stop erases the box and restores the terminal. Raw mode is released even
// if erasing fails; the first error is returned.
func (c *Console) Stop() error {
	err := c.shell.Clear(c.out)
	if flushErr := c.flush(); err == nil {
		err = flushErr
	}
	if rawErr := c.term.DisableRawMode(); err == nil {
		err = rawErr
	}
	return err
}

// Update waits up to timeout for one terminal event and handles it. It
// returns nil without touching the screen if nothing arrived.
func (c *Console) Update(timeout time.Duration) (*Action, error) {
	ev, ok, err := c.term.Poll(timeout)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	switch ev.Kind {
	case terminal.EventKey:
		if err := c.shell.Clear(c.out); err != nil {
			return nil, err
		}
		action := c.modes.OnKey(ev.Key)
		if err := c.redraw(); err != nil {
			return nil, err
		}
		return action, nil

	case terminal.EventResize:
		c.cols = max(ev.Cols, 1)
		c.outputCol %= c.cols
		if err := c.shell.Resize(c.out, c.cols); err != nil {
			return nil, err
		}
		return nil, c.redraw()
	}
	return nil, nil
}

// Print writes host output above the box. Text without a trailing newline
// is continued by the next Print on the same line.
func (c *Console) Print(text string) error {
	if err := c.shell.Clear(c.out); err != nil {
		return err
	}

	o := termenv.NewOutput(c.out, termenv.WithProfile(termenv.ANSI))
	if c.outputCol > 0 {
		o.CursorUp(1)
		o.CursorForward(c.outputCol)
	}

	lines := strings.Split(text, "\n")
	var end int
	if len(lines) == 1 {
		end = c.outputCol + lipgloss.Width(lines[0])
	} else {
		end = lipgloss.Width(lines[len(lines)-1])
	}

	for _, line := range lines {
		c.out.WriteString(line)
		c.out.WriteString("\r\n")
	}

	c.outputCol = end % c.cols
	// An empty last line is reused by the box. A line that ended exactly at
	// the right margin has already moved the cursor to a fresh line.
	if end == 0 {
		o.CursorUp(1)
	}

	return c.redraw()
}

func (c *Console) redraw() error {
	if err := c.shell.Draw(c.out, c.modes); err != nil {
		return err
	}
	return c.flush()
}

func (c *Console) flush() error {
	if err := c.out.Flush(); err != nil {
		return utils.NewTerminalError("flush", err)
	}
	return nil
}
