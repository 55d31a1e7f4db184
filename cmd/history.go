package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alantheprice/exoshell/pkg/configuration"
	"github.com/alantheprice/exoshell/pkg/history"
)

var (
	clearHistory bool
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history [session]",
	Short: "Show or clear the ranked history of a session",
	Long: `Lists the commands recorded for a session in the order Up cycles through
them: use count weighted by how recently the command was last used.
Use --clear to remove every entry.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := defaultSession
		if len(args) == 1 {
			name = args[0]
		}

		path, err := configuration.HistoryPath(name)
		if err != nil {
			return err
		}
		h, err := history.Load(path)
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(cmd.OutOrStdout(), "No history for session %q yet.\n", name)
			return nil
		}
		if err != nil {
			return err
		}

		if clearHistory {
			if err := h.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared history for session %q.\n", name)
			return nil
		}
		return printHistory(cmd.OutOrStdout(), h, historyLimit)
	},
}

func init() {
	historyCmd.Flags().BoolVar(&clearHistory, "clear", false, "remove every entry of the session")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "show at most this many entries (0 shows all)")
}

// printHistory writes the ranked entries of h as a table.
func printHistory(w io.Writer, h *history.History, limit int) error {
	scored := h.Score()
	if len(scored) == 0 {
		_, err := fmt.Fprintln(w, "History is empty.")
		return err
	}
	if limit > 0 && limit < len(scored) {
		scored = scored[:limit]
	}

	title := cases.Title(language.English)
	rows := make([][]string, len(scored))
	for i, s := range scored {
		lastUsed := time.Unix(s.Timestamp, 0).Format(time.DateTime)
		rows[i] = []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(s.Score, 'f', 2, 64),
			strconv.FormatUint(s.Count, 10),
			lastUsed + " (" + title.String(s.Bucket.String()) + ")",
			s.Command,
		}
	}

	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style { return cell }).
		Headers("RANK", "SCORE", "COUNT", "LAST USED", "COMMAND").
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.String())
	return err
}
