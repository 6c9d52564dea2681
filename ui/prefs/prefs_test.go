package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefs_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", prefsFile)

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, p.FloatWithFallback(KeyWindowWidth, 1200))
	assert.Equal(t, "", p.String(KeyLastDir))

	p.SetFloat(KeyWindowWidth, 1440)
	p.SetString(KeyLastDir, "/tmp/charts")
	require.NoError(t, p.SaveIfChanged())

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1440.0, again.FloatWithFallback(KeyWindowWidth, 0))
	assert.Equal(t, "/tmp/charts", again.String(KeyLastDir))
}

func TestPrefs_SaveIfChangedSkipsClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), prefsFile)
	p, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, p.SaveIfChanged())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "nothing changed, nothing written")

	p.SetString(KeyChartType, "Line")
	require.NoError(t, p.SaveIfChanged())
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestPrefs_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), prefsFile)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	p, err := Load(path)
	assert.Error(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 5.0, p.FloatWithFallback(KeyWindowHeight, 5))
}
