// Package output provides the filesystem implementation of the batch blob
// writer: each blob lands in a single directory, written atomically so a
// failed or canceled write never leaves a partial image behind.
package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// dirPerm is the mode for a created output directory.
const dirPerm = 0o755

// DirWriter writes named blobs into one directory via temp-file-then-rename,
// so from the caller's perspective a write is all or nothing.
type DirWriter struct {
	dir string
}

// NewDirWriter creates the directory if needed and returns a writer for it.
func NewDirWriter(dir string) (*DirWriter, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	return &DirWriter{dir: dir}, nil
}

// Dir returns the destination directory.
func (w *DirWriter) Dir() string {
	return w.dir
}

// Write persists data under name. The blob is staged in a temp file in the
// same directory and renamed into place, so readers never observe a partial
// file. An existing blob of the same name is replaced.
func (w *DirWriter) Write(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(w.dir, ".blob-*")
	if err != nil {
		return fmt.Errorf("staging blob %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing blob %s: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing blob %s: %w", name, err)
	}

	if err = os.Rename(tmpName, filepath.Join(w.dir, name)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("publishing blob %s: %w", name, err)
	}
	return nil
}
