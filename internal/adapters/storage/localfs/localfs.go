package localfs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mvp3/tablegen/internal/domain"
)

// Store writes artifacts under a single directory. Files land under a
// temp name first and are renamed on Close, so the static file handler
// never serves a partial write.
type Store struct {
	dir string
}

func New(dir string) *Store {
	_ = os.MkdirAll(dir, 0755)
	return &Store{dir: dir}
}

func (s *Store) Create(name string) (domain.ArtifactWriter, error) {
	name = filepath.Base(name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create artifact: %w", err)
	}
	return &writer{f: tmp, final: filepath.Join(s.dir, name)}, nil
}

func (s *Store) Remove(name string) error {
	return os.Remove(filepath.Join(s.dir, filepath.Base(name)))
}

// Path resolves an artifact name inside the store directory.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

func (s *Store) Dir() string { return s.dir }

type writer struct {
	f     *os.File
	final string
	size  int64
}

func (w *writer) Write(p []byte) (int, error) {
	n, err := w.f.Write(p)
	w.size += int64(n)
	return n, err
}

func (w *writer) Size() int64 { return w.size }

func (w *writer) Close() error {
	if err := w.f.Close(); err != nil {
		_ = os.Remove(w.f.Name())
		return err
	}
	if err := os.Rename(w.f.Name(), w.final); err != nil {
		_ = os.Remove(w.f.Name())
		return err
	}
	return nil
}
