package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alantheprice/exoshell/pkg/configuration"
	"github.com/alantheprice/exoshell/pkg/history"
)

func executeRoot(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		clearHistory = false
		historyLimit = 0
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func seedHistory(t *testing.T, session string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(configuration.HistoryDirEnv, dir)

	h := history.New(filepath.Join(dir, session+".yaml"))
	now := time.Now().Unix()
	h.Add("make test", now)
	h.Add("make test", now)
	h.Add("git status", now-3*24*3600)
	require.NoError(t, h.Write())
	return h.Path()
}

func TestPrintHistory(t *testing.T) {
	now := time.Now()
	h := history.New("")
	h.SetClock(func() time.Time { return now })
	h.Add("ls", now.Unix())
	h.Add("ls", now.Unix())
	h.Add("pwd", now.Add(-2*time.Hour).Unix())

	var out bytes.Buffer
	require.NoError(t, printHistory(&out, h, 0))

	text := out.String()
	assert.Contains(t, text, "COMMAND")
	assert.Contains(t, text, "8.00")
	assert.Contains(t, text, "2.00")
	assert.Contains(t, text, "Last Hour")
	assert.Contains(t, text, "Last Day")
	assert.Less(t, strings.Index(text, " ls "), strings.Index(text, " pwd "))
}

func TestPrintHistory_Limit(t *testing.T) {
	h := history.New("")
	h.Add("a", time.Now().Unix())
	h.Add("b", time.Now().Unix())

	var out bytes.Buffer
	require.NoError(t, printHistory(&out, h, 1))
	assert.Contains(t, out.String(), " a ")
	assert.NotContains(t, out.String(), " b ")
}

func TestPrintHistory_Empty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printHistory(&out, history.New(""), 0))
	assert.Equal(t, "History is empty.\n", out.String())
}

func TestHistoryCommand(t *testing.T) {
	seedHistory(t, "demo")

	out := executeRoot(t, "history", "demo")
	assert.Contains(t, out, "make test")
	assert.Contains(t, out, "Last Week")
	assert.Less(t, strings.Index(out, "make test"), strings.Index(out, "git status"))
}

func TestHistoryCommand_MissingSession(t *testing.T) {
	t.Setenv(configuration.HistoryDirEnv, t.TempDir())

	out := executeRoot(t, "history", "nothing")
	assert.Contains(t, out, `No history for session "nothing" yet.`)
}

func TestHistoryCommand_Clear(t *testing.T) {
	path := seedHistory(t, "demo")

	out := executeRoot(t, "history", "demo", "--clear")
	assert.Contains(t, out, "Cleared history")

	h, err := history.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, h.Len())
}
