package graph

import (
	"path/filepath"
	"testing"
)

func TestManagerReturnsSameService(t *testing.T) {
	mgr := NewManager()
	dir := t.TempDir()

	a, err := mgr.Get("nb-1", dir)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	b, err := mgr.Get("nb-1", dir)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if a != b {
		t.Error("same notebook ID should yield the same service")
	}
}

func TestManagerDistinctNotebooks(t *testing.T) {
	mgr := NewManager()
	root := t.TempDir()

	a, err := mgr.Get("nb-1", filepath.Join(root, "one"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	b, err := mgr.Get("nb-2", filepath.Join(root, "two"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if a == b {
		t.Error("distinct notebooks should have distinct services")
	}
}

func TestManagerEvict(t *testing.T) {
	mgr := NewManager()
	dir := t.TempDir()

	a, err := mgr.Get("nb-1", dir)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	mgr.Evict("nb-1")

	b, err := mgr.Get("nb-1", dir)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if a == b {
		t.Error("Evict should force a fresh service on the next Get")
	}
}
