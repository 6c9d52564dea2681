package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHotReloader_DetectsNewerBuild(t *testing.T) {
	h, err := NewHotReloader(5 * time.Millisecond)
	require.NoError(t, err)
	assert.NotEmpty(t, h.ExecPath())

	// Point the watcher at a scratch file standing in for the binary.
	bin := filepath.Join(t.TempDir(), "nibra-chart")
	require.NoError(t, os.WriteFile(bin, []byte("v1"), 0o755))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(bin, old, old))
	h.execPath = bin
	h.ResetBaseline()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.False(t, h.Watch(ctx), "unchanged binary")

	require.NoError(t, os.Chtimes(bin, time.Now(), time.Now()))
	ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	assert.True(t, h.Watch(ctx2))

	h.ResetBaseline()
	ctx3, cancel3 := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel3()
	assert.False(t, h.Watch(ctx3), "accepted build is not reported again")
}
