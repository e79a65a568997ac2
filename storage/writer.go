package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/profile-readme/readme-gen/model"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

type Writer struct {
	fs   afero.Fs
	path string
}

// NewWriter writes to path on the given filesystem, afero.NewOsFs() in production
func NewWriter(fs afero.Fs, path string) *Writer {
	return &Writer{fs: fs, path: path}
}

func (w *Writer) Path() string {
	return w.path
}

// Write replaces the output file with content
// the content goes to a temp file in the same directory which is then renamed over the target,
// so the previous file is kept intact if anything fails
func (w *Writer) Write(content string) error {
	dir := filepath.Dir(w.path)

	tmp, err := afero.TempFile(w.fs, dir, "."+filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: unable to create temp file in %s: %v", model.ErrWrite, dir, err)
	}

	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		w.cleanup(tmpName)
		return fmt.Errorf("%w: unable to write %s: %v", model.ErrWrite, tmpName, err)
	}

	if err := tmp.Close(); err != nil {
		w.cleanup(tmpName)
		return fmt.Errorf("%w: unable to close %s: %v", model.ErrWrite, tmpName, err)
	}

	if err := w.fs.Chmod(tmpName, w.targetMode()); err != nil {
		w.cleanup(tmpName)
		return fmt.Errorf("%w: unable to chmod %s: %v", model.ErrWrite, tmpName, err)
	}

	if err := w.fs.Rename(tmpName, w.path); err != nil {
		w.cleanup(tmpName)
		return fmt.Errorf("%w: unable to replace %s: %v", model.ErrWrite, w.path, err)
	}

	log.WithFields(log.Fields{
		"path":  w.path,
		"bytes": len(content),
	}).Info("readme written")

	return nil
}

// targetMode keeps the permissions of the file being replaced, 0644 for a new file
func (w *Writer) targetMode() os.FileMode {
	info, err := w.fs.Stat(w.path)
	if err != nil {
		return 0o644
	}

	return info.Mode().Perm()
}

func (w *Writer) cleanup(name string) {
	if err := w.fs.Remove(name); err != nil {
		log.WithError(err).WithField("path", name).Warning("unable to remove temp file")
	}
}
