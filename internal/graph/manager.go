package graph

import (
	"sync"

	"github.com/wagnerlima/kg-notebook/internal/storage"
)

// Manager hands out graph services keyed by notebook ID. Every caller asking
// for the same notebook receives the same *Service, so one mutex covers all
// writers to that notebook's directory regardless of how many sessions have
// it open.
type Manager struct {
	mu       sync.Mutex
	services map[string]*Service
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{services: make(map[string]*Service)}
}

// Get returns the service for the given notebook, opening its document store
// on first use.
func (m *Manager) Get(notebookID, dir string) (*Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if svc, ok := m.services[notebookID]; ok {
		return svc, nil
	}
	store, err := storage.NewDocStore(dir)
	if err != nil {
		return nil, err
	}
	svc := NewService(store)
	m.services[notebookID] = svc
	return svc, nil
}

// Evict drops the cached service for a notebook. Archiving and deleting move
// or remove the notebook's directory, so the next Get must open a fresh store
// at the current path.
func (m *Manager) Evict(notebookID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.services, notebookID)
}
