package repository

import (
	"io"
	"io/fs"
)

// ImageStore defines the operations on the flat directory of stored captures.
type ImageStore interface {
	// Save stream-copies r into name, replacing any existing file of that name.
	Save(name string, r io.Reader) (int64, error)

	// List returns every entry in the directory, including non-image files.
	List() ([]fs.DirEntry, error)

	// Dir is the directory backing the store.
	Dir() string
}

// LocationLog defines the append-only plaintext record of captures.
type LocationLog interface {
	Append(line string) error

	// ReadAll returns the whole log verbatim, or "" if nothing was written yet.
	ReadAll() (string, error)

	Path() string
}
