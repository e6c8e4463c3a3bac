package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "kg-notebook-test-*")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func openTestMeta(t *testing.T) *MetaStore {
	t.Helper()
	meta, err := OpenMeta(tempDir(t))
	if err != nil {
		t.Fatalf("OpenMeta: %v", err)
	}
	t.Cleanup(func() { meta.Close() })
	return meta
}

func TestOpenMeta(t *testing.T) {
	dir := tempDir(t)
	meta, err := OpenMeta(dir)
	if err != nil {
		t.Fatalf("OpenMeta: %v", err)
	}
	defer meta.Close()

	// Verify directories were created
	for _, sub := range []string{"notebooks", "archive"} {
		if _, err := os.Stat(filepath.Join(dir, sub)); err != nil {
			t.Errorf("Expected %s dir to exist: %v", sub, err)
		}
	}
	// Verify _meta.db was created
	if _, err := os.Stat(filepath.Join(dir, "_meta.db")); err != nil {
		t.Errorf("Expected _meta.db to exist: %v", err)
	}
}

func TestCreateAndGetNotebook(t *testing.T) {
	meta := openTestMeta(t)

	nb, err := meta.CreateNotebook("research", "A research notebook")
	if err != nil {
		t.Fatalf("CreateNotebook: %v", err)
	}

	if nb.Name != "research" {
		t.Errorf("Name = %q, want %q", nb.Name, "research")
	}
	if nb.Description != "A research notebook" {
		t.Errorf("Description = %q, want %q", nb.Description, "A research notebook")
	}
	if nb.Status != "active" {
		t.Errorf("Status = %q, want %q", nb.Status, "active")
	}
	if nb.ID == "" {
		t.Error("ID should not be empty")
	}

	// The document directory must exist.
	if _, err := os.Stat(meta.NotebookDir(nb)); err != nil {
		t.Errorf("notebook dir should exist: %v", err)
	}

	byID, err := meta.GetNotebookByID(nb.ID)
	if err != nil {
		t.Fatalf("GetNotebookByID: %v", err)
	}
	if byID.Name != nb.Name {
		t.Errorf("GetNotebookByID returned %q, want %q", byID.Name, nb.Name)
	}
}

func TestCreateDuplicateNotebookFails(t *testing.T) {
	meta := openTestMeta(t)

	if _, err := meta.CreateNotebook("dup", ""); err != nil {
		t.Fatalf("CreateNotebook: %v", err)
	}
	if _, err := meta.CreateNotebook("dup", ""); err == nil {
		t.Error("expected error for duplicate notebook name")
	}
}

func TestListNotebooks(t *testing.T) {
	meta := openTestMeta(t)

	meta.CreateNotebook("alpha", "")
	meta.CreateNotebook("beta", "")
	meta.ArchiveNotebook("beta")

	active, err := meta.ListNotebooks("active")
	if err != nil {
		t.Fatalf("ListNotebooks(active): %v", err)
	}
	if len(active) != 1 || active[0].Name != "alpha" {
		t.Errorf("active = %+v, want just alpha", active)
	}

	all, err := meta.ListNotebooks("all")
	if err != nil {
		t.Fatalf("ListNotebooks(all): %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 notebooks, got %d", len(all))
	}
}

func TestArchiveAndRestoreNotebook(t *testing.T) {
	meta := openTestMeta(t)

	nb, err := meta.CreateNotebook("project", "")
	if err != nil {
		t.Fatal(err)
	}
	oldDir := meta.NotebookDir(nb)

	archived, err := meta.ArchiveNotebook("project")
	if err != nil {
		t.Fatalf("ArchiveNotebook: %v", err)
	}
	if archived.Status != "archived" {
		t.Errorf("Status = %q, want archived", archived.Status)
	}
	if _, err := os.Stat(oldDir); !os.IsNotExist(err) {
		t.Error("original dir should have been moved")
	}
	if _, err := os.Stat(meta.NotebookDir(archived)); err != nil {
		t.Errorf("archived dir should exist: %v", err)
	}

	// Archiving twice is rejected.
	if _, err := meta.ArchiveNotebook("project"); err == nil {
		t.Error("expected error archiving an archived notebook")
	}

	restored, err := meta.RestoreNotebook("project")
	if err != nil {
		t.Fatalf("RestoreNotebook: %v", err)
	}
	if restored.Status != "active" {
		t.Errorf("Status = %q, want active", restored.Status)
	}
	if _, err := os.Stat(meta.NotebookDir(restored)); err != nil {
		t.Errorf("restored dir should exist: %v", err)
	}
}

func TestDeleteNotebookRemovesDirectory(t *testing.T) {
	meta := openTestMeta(t)

	nb, err := meta.CreateNotebook("doomed", "")
	if err != nil {
		t.Fatal(err)
	}
	dir := meta.NotebookDir(nb)
	// Drop a document in so RemoveAll has real work to do.
	if err := os.WriteFile(filepath.Join(dir, "E.md"), []byte("# E\n\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := meta.DeleteNotebook("doomed"); err != nil {
		t.Fatalf("DeleteNotebook: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("notebook dir should be gone")
	}
	if _, err := meta.GetNotebookByName("doomed"); err == nil {
		t.Error("registry row should be gone")
	}
}
