package session

import (
	"fmt"
	"sync"

	"github.com/wagnerlima/kg-notebook/internal/graph"
	"github.com/wagnerlima/kg-notebook/internal/models"
	"github.com/wagnerlima/kg-notebook/internal/storage"
)

// Session holds the active notebook context for an MCP session. Graph
// services come from a shared Manager, so sessions pointing at the same
// notebook always operate through the same lock.
type Session struct {
	mu                  sync.Mutex
	mgr                 *graph.Manager
	currentNotebookID   string
	currentNotebookName string
	svc                 *graph.Service
}

// New creates a new empty session with no active notebook.
func New(mgr *graph.Manager) *Session {
	return &Session{mgr: mgr}
}

// SwitchNotebook makes the named notebook the active one, resolving its
// graph service through the shared manager.
func (s *Session) SwitchNotebook(meta *storage.MetaStore, name string) (*models.Notebook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nb, err := meta.GetNotebookByName(name)
	if err != nil {
		return nil, err
	}
	if nb.Status == "archived" {
		return nil, fmt.Errorf("notebook %q is archived — restore it first", name)
	}

	svc, err := s.mgr.Get(nb.ID, meta.NotebookDir(nb))
	if err != nil {
		return nil, fmt.Errorf("open notebook dir: %w", err)
	}

	s.currentNotebookID = nb.ID
	s.currentNotebookName = nb.Name
	s.svc = svc

	return nb, nil
}

// GetCurrent returns info about the active notebook, or ok=false if none.
func (s *Session) GetCurrent() (id, name string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.svc == nil {
		return "", "", false
	}
	return s.currentNotebookID, s.currentNotebookName, true
}

// Graph returns the active notebook's graph service, or nil if no notebook
// is active.
func (s *Session) Graph() *graph.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.svc
}

// Clear resets session state so no notebook is active.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentNotebookID = ""
	s.currentNotebookName = ""
	s.svc = nil
}
