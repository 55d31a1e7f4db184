//go:build !windows

package cmd

import (
	"os"
	"syscall"
)

// shutdownSignals are the signals that end a session and restore the terminal.
// Ctrl-C does not raise SIGINT while the terminal is raw; these come from
// outside, e.g. kill or a closed terminal.
func shutdownSignals() []os.Signal {
	return []os.Signal{
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
		syscall.SIGHUP,
	}
}
