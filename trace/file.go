package trace

import (
	"fmt"
	"os"
)

// File is a Reader bound to an open trace file. The caller must Close it.
type File struct {
	*Reader

	path string
	file *os.File
}

// Open opens the trace file at path.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}

	return &File{
		Reader: NewReader(f),
		path:   path,
		file:   f,
	}, nil
}

// Path returns the path the file was opened from.
func (f *File) Path() string {
	return f.path
}

// Close releases the file. Closing twice is a no-op.
func (f *File) Close() error {
	if f.file == nil {
		return nil
	}

	err := f.file.Close()
	f.file = nil

	return err
}
