package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wagnerlima/kg-notebook/internal/document"
)

// ErrNotFound is returned when reading a document that does not exist.
var ErrNotFound = errors.New("document not found")

// ErrInvalidName is returned for entity names that cannot be used as
// document file names.
var ErrInvalidName = errors.New("invalid entity name")

// maxNameLength bounds entity names to what common filesystems accept for a
// single path component, leaving room for the ".md" suffix.
const maxNameLength = 250

// ValidateEntityName rejects names that are empty, oversized, or would
// escape the notebook directory or corrupt the [[...]] link syntax. Names
// are rejected rather than escaped so that the file name on disk always
// equals the entity name.
func ValidateEntityName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case len(name) > maxNameLength:
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidName, maxNameLength)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: contains path separator or NUL", ErrInvalidName)
	case strings.Contains(name, "[[") || strings.Contains(name, "]]"):
		return fmt.Errorf("%w: contains link delimiter", ErrInvalidName)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: starts with a dot", ErrInvalidName)
	case strings.ContainsAny(name, "\n\r"):
		return fmt.Errorf("%w: contains newline", ErrInvalidName)
	}
	return nil
}

// DocStore maps entity names to markdown documents inside one notebook
// directory. It holds no in-memory state: every call reflects durable state
// at call time.
type DocStore struct {
	dir string
}

// NewDocStore opens (or creates) a notebook document directory.
func NewDocStore(dir string) (*DocStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create notebook dir: %w", err)
	}
	return &DocStore{dir: dir}, nil
}

// Dir returns the directory backing this store.
func (s *DocStore) Dir() string {
	return s.dir
}

func (s *DocStore) path(name string) string {
	return filepath.Join(s.dir, name+".md")
}

// Exists reports whether a document exists for name. Invalid names never
// exist.
func (s *DocStore) Exists(name string) bool {
	if ValidateEntityName(name) != nil {
		return false
	}
	_, err := os.Stat(s.path(name))
	return err == nil
}

// Create writes a new document seeded with just the title line. It returns
// false without error when a document for name already exists.
func (s *DocStore) Create(name string) (bool, error) {
	if err := ValidateEntityName(name); err != nil {
		return false, err
	}
	f, err := os.OpenFile(s.path(name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create document %q: %w", name, err)
	}
	defer f.Close()

	if _, err := f.WriteString(document.Title(name)); err != nil {
		return false, fmt.Errorf("seed document %q: %w", name, err)
	}
	return true, nil
}

// ReadRaw returns the full document text for name, or ErrNotFound.
func (s *DocStore) ReadRaw(name string) (string, error) {
	if err := ValidateEntityName(name); err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("read document %q: %w", name, err)
	}
	return string(data), nil
}

// WriteRaw replaces the full document text for name.
func (s *DocStore) WriteRaw(name, text string) error {
	if err := ValidateEntityName(name); err != nil {
		return err
	}
	if err := os.WriteFile(s.path(name), []byte(text), 0o644); err != nil {
		return fmt.Errorf("write document %q: %w", name, err)
	}
	return nil
}

// Delete removes the document for name. It returns false without error when
// no document exists.
func (s *DocStore) Delete(name string) (bool, error) {
	if err := ValidateEntityName(name); err != nil {
		return false, err
	}
	err := os.Remove(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete document %q: %w", name, err)
	}
	return true, nil
}

// ListAll returns the names of every entity currently stored, in no
// significant order.
func (s *DocStore) ListAll() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(filepath.Base(m), ".md"))
	}
	return names, nil
}
