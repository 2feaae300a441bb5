package store

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/apperr"
)

type fitted struct {
	Name  string
	Means []float64
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "obj.gob")
	in := fitted{Name: "scaler", Means: []float64{1.5, 2.5}}
	require.NoError(t, Save(in, path))
	assert.True(t, Exists(path))

	var out fitted
	require.NoError(t, Load(path, &out))
	assert.Equal(t, in, out)

	v1, err := Stamp(path)
	require.NoError(t, err)
	v2, err := Stamp(path)
	require.NoError(t, err)
	assert.True(t, v1.Equal(v2))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	var out fitted

	err := Load(filepath.Join(dir, "absent.gob"), &out)
	assert.True(t, apperr.IsKind(err, apperr.KindArtifact))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	garbage := filepath.Join(dir, "garbage.gob")
	require.NoError(t, os.WriteFile(garbage, []byte("not gob"), 0o644))
	assert.True(t, apperr.IsKind(Load(garbage, &out), apperr.KindArtifact))

	_, err = Stamp(filepath.Join(dir, "absent.gob"))
	assert.True(t, apperr.IsKind(err, apperr.KindArtifact))
	assert.False(t, Exists(dir))
}

func TestWriteAtomicKeepsOldFileOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.gob")
	require.NoError(t, Save(fitted{Name: "old"}, path))

	boom := errors.New("boom")
	err := WriteAtomic(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var out fitted
	require.NoError(t, Load(path, &out))
	assert.Equal(t, "old", out.Name)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
