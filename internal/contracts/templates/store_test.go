package templates

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"inspirehub/pkg/model"
)

func TestFileStore_LoadsTemplatesByKind(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"dedicated.txt": "desk contract for {{tenant.name}}",
		"private.txt":   "office contract",
		"virtual.txt":   "virtual contract",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	store := NewFileStore(dir)

	tests := []struct {
		kind model.ProductKind
		want string
	}{
		{model.ProductDedicatedDesk, "desk contract for {{tenant.name}}"},
		{model.ProductPrivateOffice, "office contract"},
		{model.ProductVirtualOffice, "virtual contract"},
	}
	for _, tt := range tests {
		got, err := store.Load(tt.kind)
		if err != nil {
			t.Fatalf("Load(%s): %v", tt.kind, err)
		}
		if got != tt.want {
			t.Errorf("Load(%s) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestFileStore_MissingFile(t *testing.T) {
	store := NewFileStore(t.TempDir())

	_, err := store.Load(model.ProductDedicatedDesk)
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestFileStore_UnknownKind(t *testing.T) {
	store := NewFileStore(t.TempDir())

	_, err := store.Load("garage")
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("expected ErrTemplateNotFound for unknown kind, got %v", err)
	}
}
