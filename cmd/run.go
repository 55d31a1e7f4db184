package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/alantheprice/exoshell/pkg/console"
	"github.com/alantheprice/exoshell/pkg/utils"
)

const defaultSession = "exoshell"

var runTitles []string

var runCmd = &cobra.Command{
	Use:   "run [session]",
	Short: "Start an echo host inside the prompt box",
	Long: `Starts a minimal host program that echoes every submitted line above the
prompt box. Bytes produced in Raw mode are echoed on one line, with control
characters escaped. The session name selects the history file.

Examples:
  exoshell run
  exoshell run python --title "python 3.12"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := defaultSession
		if len(args) == 1 {
			name = args[0]
		}

		config, err := loadConfig()
		if err != nil {
			return err
		}

		if path, err := config.LogPath(); err == nil {
			defer utils.InitLogger(path).Close()
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "logging disabled: %v\n", err)
		}

		titles := append([]string{defaultSession, name}, runTitles...)
		c, err := console.New(name, titles, console.WithConfig(config))
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), shutdownSignals()...)
		defer stop()
		return runSession(ctx, c, config.PollInterval())
	},
}

func init() {
	runCmd.Flags().StringSliceVar(&runTitles, "title", nil, "extra header title (repeatable)")
}

// host is the part of the console the echo loop drives.
type host interface {
	Start() error
	Stop() error
	Update(timeout time.Duration) (*console.Action, error)
	Print(text string) error
}

// runSession drives c until the user quits or ctx is done. The terminal is
// restored on every return path, including a panic.
func runSession(ctx context.Context, c host, poll time.Duration) (err error) {
	if err := c.Start(); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			if stopErr := c.Stop(); stopErr != nil {
				utils.GetLogger().LogError(stopErr)
			}
			panic(r)
		}
		if stopErr := c.Stop(); err == nil {
			err = stopErr
		}
	}()

	for {
		if ctx.Err() != nil {
			utils.GetLogger().Logf("session stopped: %v", context.Cause(ctx))
			return nil
		}

		action, err := c.Update(poll)
		if err != nil {
			return err
		}
		if action == nil {
			continue
		}

		switch action.Kind {
		case console.ActionQuit:
			utils.GetLogger().Log("quit requested")
			return nil
		case console.ActionSubmit:
			err = c.Print(action.Line + "\n")
		case console.ActionWrite:
			err = c.Print(echoRaw(action.Bytes))
		}
		if err != nil {
			return err
		}
	}
}

// echoRaw renders forwarded bytes for display. Newlines end the line and
// other control bytes are escaped.
func echoRaw(b []byte) string {
	if len(b) == 1 && b[0] == '\n' {
		return "\n"
	}
	quoted := strconv.Quote(string(b))
	return quoted[1 : len(quoted)-1]
}
