package scratch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/veduco/EFTSuite-Public/compress"
)

func TestDir_PlaneRoundTrip(t *testing.T) {
	dir, err := New(t.TempDir(), compress.KindZstd, nil)
	require.NoError(t, err)
	defer dir.Remove()

	plane := make([]byte, 64*1024)
	for i := range plane {
		plane[i] = byte(i % 7)
	}

	id, err := dir.PutPlane(plane)
	require.NoError(t, err)

	restored, err := dir.GetPlane(id)
	require.NoError(t, err)
	require.Equal(t, plane, restored)
}

func TestDir_PutPlaneDeduplicates(t *testing.T) {
	dir, err := New(t.TempDir(), compress.KindS2, nil)
	require.NoError(t, err)
	defer dir.Remove()

	plane := []byte("identical content")
	id1, err := dir.PutPlane(plane)
	require.NoError(t, err)
	id2, err := dir.PutPlane(plane)
	require.NoError(t, err)
	require.Equal(t, id1, id2)

	entries, err := os.ReadDir(dir.Path())
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestDir_RemoveIdempotent(t *testing.T) {
	dir, err := New(t.TempDir(), compress.KindNone, nil)
	require.NoError(t, err)

	require.NoError(t, dir.Remove())
	require.NoError(t, dir.Remove())
	_, err = os.Stat(dir.Path())
	require.True(t, os.IsNotExist(err))
}

func TestDir_GetMissingPlane(t *testing.T) {
	dir, err := New(t.TempDir(), compress.KindZstd, nil)
	require.NoError(t, err)
	defer dir.Remove()

	_, err = dir.GetPlane(0xDEADBEEF)
	require.Error(t, err)
}

func TestSweep(t *testing.T) {
	root := t.TempDir()

	stale := filepath.Join(root, "op-stale")
	fresh := filepath.Join(root, "op-fresh")
	require.NoError(t, os.Mkdir(stale, 0o700))
	require.NoError(t, os.Mkdir(fresh, 0o700))

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	removed, err := Sweep(root, time.Hour, nil)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	_, err = os.Stat(stale)
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh)
	require.NoError(t, err)
}

func TestSweep_MissingRoot(t *testing.T) {
	removed, err := Sweep(filepath.Join(t.TempDir(), "nope"), time.Hour, nil)
	require.NoError(t, err)
	require.Zero(t, removed)
}
