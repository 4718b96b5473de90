package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// LocationLog implements repository.LocationLog as a single append-only text file.
// Appends from concurrent requests are serialized.
type LocationLog struct {
	path string
	mu   sync.Mutex
}

func NewLocationLog(path string) *LocationLog {
	return &LocationLog{path: path}
}

// Append writes line as-is, creating the file on first use.
func (l *LocationLog) Append(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open location log: %w", err)
	}

	if _, err := file.WriteString(line); err != nil {
		file.Close()
		return fmt.Errorf("failed to append to location log: %w", err)
	}
	return file.Close()
}

func (l *LocationLog) ReadAll() (string, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read location log: %w", err)
	}
	return string(data), nil
}

func (l *LocationLog) Path() string {
	return l.path
}
