package transport

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileClipboard implements Clipboard by writing the image to a fixed file in
// an outbox directory, the paste target for the manual mail hand-off. Like a
// real clipboard it holds one item: every copy overwrites the last.
type FileClipboard struct {
	dir string
}

func NewFileClipboard(dir string) (*FileClipboard, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create outbox directory: %w", err)
	}
	return &FileClipboard{dir: dir}, nil
}

func (c *FileClipboard) Path() string {
	return filepath.Join(c.dir, "clipboard.png")
}

func (c *FileClipboard) Copy(image []byte) error {
	if err := os.WriteFile(c.Path(), image, 0644); err != nil {
		return fmt.Errorf("failed to write clipboard file: %w", err)
	}
	return nil
}
