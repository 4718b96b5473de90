package filesystem

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ImageStore implements repository.ImageStore on a local directory.
type ImageStore struct {
	dir string
}

// NewImageStore creates the directory if it is missing and returns a store rooted at it.
func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &ImageStore{dir: dir}, nil
}

// Save streams r into a temporary file beside dir/name and renames it into
// place, so concurrent saves of one name never interleave and the last to
// finish wins. A partially written file still replaces name on error.
func (s *ImageStore) Save(name string, r io.Reader) (int64, error) {
	if name != filepath.Base(name) || name == "." || name == ".." {
		return 0, fmt.Errorf("invalid file name %q", name)
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*.part")
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", name, err)
	}

	written, copyErr := io.Copy(tmp, r)
	closeErr := tmp.Close()

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp.Name())
		return written, fmt.Errorf("failed to move %s into place: %w", name, err)
	}
	if copyErr != nil {
		return written, fmt.Errorf("failed to write %s: %w", name, copyErr)
	}
	if closeErr != nil {
		return written, fmt.Errorf("failed to close %s: %w", name, closeErr)
	}
	return written, nil
}

// List reads the directory entries sorted by name.
func (s *ImageStore) List() ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload directory: %w", err)
	}
	return entries, nil
}

func (s *ImageStore) Dir() string {
	return s.dir
}
