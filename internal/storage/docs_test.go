package storage

import (
	"errors"
	"path/filepath"
	"sort"
	"testing"
)

func setupDocStore(t *testing.T) *DocStore {
	t.Helper()
	s, err := NewDocStore(filepath.Join(tempDir(t), "docs"))
	if err != nil {
		t.Fatalf("NewDocStore: %v", err)
	}
	return s
}

func TestCreateAndExists(t *testing.T) {
	s := setupDocStore(t)

	if s.Exists("TestEntity") {
		t.Error("entity should not exist before creation")
	}

	created, err := s.Create("TestEntity")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !created {
		t.Fatal("Create should report true for a new entity")
	}
	if !s.Exists("TestEntity") {
		t.Error("entity should exist after creation")
	}

	text, err := s.ReadRaw("TestEntity")
	if err != nil {
		t.Fatalf("ReadRaw: %v", err)
	}
	if text != "# TestEntity\n\n" {
		t.Errorf("seed content = %q, want %q", text, "# TestEntity\n\n")
	}
}

func TestCreateExistingIsNoOp(t *testing.T) {
	s := setupDocStore(t)

	s.Create("E")
	if err := s.WriteRaw("E", "# E\n\ncustom content\n\n"); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}

	created, err := s.Create("E")
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}
	if created {
		t.Error("second Create should report false")
	}

	text, _ := s.ReadRaw("E")
	if text != "# E\n\ncustom content\n\n" {
		t.Errorf("second Create altered the document: %q", text)
	}
}

func TestReadRawNotFound(t *testing.T) {
	s := setupDocStore(t)

	_, err := s.ReadRaw("Missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := setupDocStore(t)

	s.Create("E")
	deleted, err := s.Delete("E")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Error("Delete should report true")
	}
	if s.Exists("E") {
		t.Error("entity should be gone")
	}

	deleted, err = s.Delete("E")
	if err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if deleted {
		t.Error("deleting an absent entity should report false")
	}
}

func TestListAll(t *testing.T) {
	s := setupDocStore(t)

	names, err := s.ListAll()
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("expected empty store, got %v", names)
	}

	for _, name := range []string{"Alice", "Bob", "Carol"} {
		s.Create(name)
	}
	names, err = s.ListAll()
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	sort.Strings(names)
	want := []string{"Alice", "Bob", "Carol"}
	if len(names) != len(want) {
		t.Fatalf("ListAll = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("ListAll[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestValidateEntityName(t *testing.T) {
	valid := []string{"Alice", "Colonial Williamsburg", "entity-with-dash", "with.dot.inside"}
	for _, name := range valid {
		if err := ValidateEntityName(name); err != nil {
			t.Errorf("ValidateEntityName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{
		"",
		"../escape",
		"nested/name",
		"back\\slash",
		".hidden",
		"..",
		"has[[link]]delimiters",
		"line\nbreak",
		string(make([]byte, 300)),
	}
	for _, name := range invalid {
		if err := ValidateEntityName(name); err == nil {
			t.Errorf("ValidateEntityName(%q) = nil, want error", name)
		}
	}
}

func TestInvalidNameCreatesNoFile(t *testing.T) {
	s := setupDocStore(t)

	if _, err := s.Create("../escape"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("expected ErrInvalidName, got %v", err)
	}
	names, _ := s.ListAll()
	if len(names) != 0 {
		t.Errorf("invalid name must not create a document: %v", names)
	}
}
