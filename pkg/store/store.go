// Package store persists fitted pipeline objects to disk.
package store

import (
	"bufio"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/apperr"
)

// Version identifies one on-disk revision of an artifact.
type Version struct {
	Size    int64
	ModTime time.Time
}

// Equal reports whether two versions describe the same file revision.
func (v Version) Equal(o Version) bool {
	return v.Size == o.Size && v.ModTime.Equal(o.ModTime)
}

// Save gob-encodes v into path. The file is replaced atomically, so readers
// see either the previous artifact or the new one.
func Save(v any, path string) error {
	err := WriteAtomic(path, func(w io.Writer) error {
		return gob.NewEncoder(w).Encode(v)
	})
	if err != nil {
		return apperr.NewArtifactError(path, err)
	}
	return nil
}

// Load decodes the artifact at path into v, which must be a pointer.
func Load(path string, v any) error {
	err := ReadWith(path, func(r io.Reader) error {
		if err := gob.NewDecoder(r).Decode(v); err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		return nil
	})
	if err != nil {
		return apperr.NewArtifactError(path, err)
	}
	return nil
}

// ReadWith opens path and hands a buffered reader to read.
func ReadWith(path string, read func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return read(bufio.NewReader(f))
}

// Stamp returns the current version of the file at path.
func Stamp(path string) (Version, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Version{}, apperr.NewArtifactError(path, err)
	}
	return Version{Size: info.Size(), ModTime: info.ModTime()}, nil
}

// Exists reports whether a regular file is present at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// WriteAtomic creates the parent directories of path, streams write into a
// temporary sibling file, syncs it and renames it over path.
func WriteAtomic(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			if rmErr := os.Remove(tmp.Name()); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				err = errors.Join(err, rmErr)
			}
		}
	}()

	buf := bufio.NewWriter(tmp)
	if err = write(buf); err != nil {
		return err
	}
	if err = buf.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
