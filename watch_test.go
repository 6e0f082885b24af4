package warviz

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestDataWatcherReloads(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := writeFile(t, dir, "casualties.json", testDatasetJSON)

	w, err := NewDataWatcher(path, 20*time.Millisecond, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	_, ok := w.Poll()
	assert.False(t, ok, "nothing before the first change")

	writeFile(t, dir, "unrelated.json", `[]`)
	require.NoError(t, os.WriteFile(path, []byte(`[
  {"Country": "A", "Total_Casualties": 1},
  {"Country": "B", "Total_Casualties": 2},
  {"Country": "C", "Total_Casualties": 3}
]`), 0o644))

	var got Dataset
	require.Eventually(t, func() bool {
		ds, ok := w.Poll()
		if ok {
			got = ds
		}
		return ok
	}, 2*time.Second, 10*time.Millisecond)
	assert.Len(t, got.Records, 3)

	require.NoError(t, w.Close())
}

func TestDataWatcherIgnoresBadFile(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := writeFile(t, dir, "casualties.json", testDatasetJSON)
	w, err := NewDataWatcher(path, 10*time.Millisecond, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, os.WriteFile(path, []byte(`[{"Country": `), 0o644))
	time.Sleep(150 * time.Millisecond)
	_, ok := w.Poll()
	assert.False(t, ok)

	require.NoError(t, w.Close())
}

func TestDataWatcherCloseWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewDataWatcher(filepath.Join(t.TempDir(), "x.json"), time.Millisecond, nil)
	require.NoError(t, err)
	assert.NoError(t, w.Close())
}
