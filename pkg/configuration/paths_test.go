package configuration

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alantheprice/exoshell/pkg/utils"
)

func TestDataDir(t *testing.T) {
	t.Run("override", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(DataDirEnv, dir)

		got, err := DataDir()
		require.NoError(t, err)
		assert.Equal(t, dir, got)
	})

	t.Run("relative override is rejected", func(t *testing.T) {
		t.Setenv(DataDirEnv, "data")

		_, err := DataDir()
		require.Error(t, err)
		assert.True(t, utils.IsKind(err, utils.KindPath))
		assert.Contains(t, err.Error(), "EXOSHELL_DATA_DIR must be an absolute path")
	})

	t.Run("platform default ends in app dir", func(t *testing.T) {
		t.Setenv(DataDirEnv, "")
		t.Setenv("XDG_DATA_HOME", t.TempDir())

		got, err := DataDir()
		require.NoError(t, err)
		assert.Equal(t, AppDirName, filepath.Base(got))
	})
}

func TestHistoryDir(t *testing.T) {
	t.Run("defaults under data dir", func(t *testing.T) {
		data := t.TempDir()
		t.Setenv(DataDirEnv, data)
		t.Setenv(HistoryDirEnv, "")

		got, err := HistoryDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(data, HistoryDirName), got)
	})

	t.Run("override wins over data dir", func(t *testing.T) {
		hist := t.TempDir()
		t.Setenv(DataDirEnv, "relative-is-ignored")
		t.Setenv(HistoryDirEnv, hist)

		got, err := HistoryDir()
		require.NoError(t, err)
		assert.Equal(t, hist, got)
	})

	t.Run("relative override is rejected", func(t *testing.T) {
		t.Setenv(HistoryDirEnv, "hist")

		_, err := HistoryDir()
		assert.True(t, utils.IsKind(err, utils.KindPath))
	})

	t.Run("invalid data dir propagates", func(t *testing.T) {
		t.Setenv(DataDirEnv, "data")
		t.Setenv(HistoryDirEnv, "")

		_, err := HistoryPath("demo")
		assert.True(t, utils.IsKind(err, utils.KindPath))
	})
}

func TestHistoryPath(t *testing.T) {
	hist := t.TempDir()
	t.Setenv(HistoryDirEnv, hist)

	got, err := HistoryPath("python")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(hist, "python.yaml"), got)
}

func TestDefaultLogPath(t *testing.T) {
	data := t.TempDir()
	t.Setenv(DataDirEnv, data)

	got, err := DefaultLogPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(data, LogFileName), got)
}
