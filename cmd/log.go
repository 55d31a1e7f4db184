package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alantheprice/exoshell/pkg/utils"
)

var logLines int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Print the end of the log file",
	Long: `Prints the last lines of the log file written by "exoshell run". The file
is the log_file from the config, or exoshell.log in the data directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		path, err := config.LogPath()
		if err != nil {
			return err
		}
		return displayLog(cmd.OutOrStdout(), path, logLines)
	},
}

func init() {
	logCmd.Flags().IntVarP(&logLines, "lines", "n", 100, "number of lines to print")
}

// displayLog prints the last n lines of the log file at path.
func displayLog(w io.Writer, path string, n int) error {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(w, "Log file not found at %s. No log entries yet.\n", path)
		return nil
	}
	if err != nil {
		return utils.NewIOError("open log", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if n > 0 && len(lines) > n {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return utils.NewIOError("read log", path, err)
	}

	if len(lines) == 0 {
		fmt.Fprintln(w, "Log file is empty.")
		return nil
	}

	fmt.Fprintf(w, "Last %d lines of %s:\n", len(lines), path)
	fmt.Fprintln(w, strings.Repeat("=", 80))
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, strings.Repeat("=", 80))
	return nil
}
