// Package templates loads contract template text from a flat directory: one
// file per product kind (dedicated.txt, private.txt, virtual.txt). Templates
// are plain text with {{namespace.field}} placeholders.
package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"inspirehub/pkg/model"
)

var ErrTemplateNotFound = errors.New("contract template not found")

type Store interface {
	Load(kind model.ProductKind) (string, error)
}

type fileStore struct {
	dir string
}

func NewFileStore(dir string) Store {
	return &fileStore{dir: dir}
}

func (s *fileStore) Load(kind model.ProductKind) (string, error) {
	name, ok := fileFor(kind)
	if !ok {
		return "", fmt.Errorf("%w: unknown kind %q", ErrTemplateNotFound, kind)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
		}
		return "", fmt.Errorf("failed to read template %s: %w", name, err)
	}

	return string(data), nil
}

func fileFor(kind model.ProductKind) (string, bool) {
	switch kind {
	case model.ProductDedicatedDesk:
		return "dedicated.txt", true
	case model.ProductPrivateOffice:
		return "private.txt", true
	case model.ProductVirtualOffice:
		return "virtual.txt", true
	}
	return "", false
}
