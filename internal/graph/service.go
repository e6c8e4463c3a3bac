// Package graph implements the mutation and query API over a notebook's
// document store. Every operation runs under a single per-service mutex held
// for the whole read-mutate-write sequence, so concurrent callers never
// observe a half-written document and writes never interleave.
package graph

import (
	"sync"

	"github.com/wagnerlima/kg-notebook/internal/document"
	"github.com/wagnerlima/kg-notebook/internal/models"
	"github.com/wagnerlima/kg-notebook/internal/storage"
)

// Status classifies the outcome of a graph operation. Storage failures are
// reported through the separate error return, never collapsed into a status.
// The zero value is the unset status, so an error path can never be misread
// as StatusOK.
type Status int

const (
	statusUnset Status = iota
	StatusOK
	StatusAlreadyExists
	StatusNotFound
	StatusSelfReference
	StatusNoMatch
	StatusInvalidName
)

// String returns a short lowercase tag for logging.
func (s Status) String() string {
	switch s {
	case statusUnset:
		return "unset"
	case StatusOK:
		return "ok"
	case StatusAlreadyExists:
		return "already_exists"
	case StatusNotFound:
		return "not_found"
	case StatusSelfReference:
		return "self_reference"
	case StatusNoMatch:
		return "no_match"
	case StatusInvalidName:
		return "invalid_name"
	default:
		return "unknown"
	}
}

// Service owns one notebook's graph. Multiple services over distinct stores
// are fully independent; there is no process-wide state.
type Service struct {
	mu    sync.Mutex
	store *storage.DocStore
}

// NewService creates a graph service over the given document store.
func NewService(store *storage.DocStore) *Service {
	return &Service{store: store}
}

// CreateEntity creates a new entity document seeded with its title line.
func (s *Service) CreateEntity(name string) (Status, error) {
	if storage.ValidateEntityName(name) != nil {
		return StatusInvalidName, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created, err := s.store.Create(name)
	if err != nil {
		return statusUnset, err
	}
	if !created {
		return StatusAlreadyExists, nil
	}
	return StatusOK, nil
}

// AddObservation appends an observation paragraph to an existing entity.
// Observations are always inserted before the relationships section.
func (s *Service) AddObservation(entityName, observation string) (Status, error) {
	if storage.ValidateEntityName(entityName) != nil {
		return StatusInvalidName, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.Exists(entityName) {
		return StatusNotFound, nil
	}
	text, err := s.store.ReadRaw(entityName)
	if err != nil {
		return statusUnset, err
	}
	text = document.AppendObservation(text, observation)
	if err := s.store.WriteRaw(entityName, text); err != nil {
		return statusUnset, err
	}
	return StatusOK, nil
}

// AddRelationship appends a relationship line to the source entity's
// document. Self-loops are rejected and both endpoints must already exist.
func (s *Service) AddRelationship(source, verb, target, context string) (Status, error) {
	if storage.ValidateEntityName(source) != nil || storage.ValidateEntityName(target) != nil {
		return StatusInvalidName, nil
	}
	if source == target {
		return StatusSelfReference, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.Exists(source) || !s.store.Exists(target) {
		return StatusNotFound, nil
	}
	text, err := s.store.ReadRaw(source)
	if err != nil {
		return statusUnset, err
	}
	text = document.AppendRelationship(text, verb, target, context)
	if err := s.store.WriteRaw(source, text); err != nil {
		return statusUnset, err
	}
	return StatusOK, nil
}

// DeleteEntity removes the entity's document and strips every line
// referencing [[name]] from every other document. The cascade scans the
// whole store, so the lock is held for a duration proportional to entity
// count.
func (s *Service) DeleteEntity(name string) (Status, error) {
	if storage.ValidateEntityName(name) != nil {
		return StatusInvalidName, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	deleted, err := s.store.Delete(name)
	if err != nil {
		return statusUnset, err
	}
	if !deleted {
		return StatusNotFound, nil
	}

	names, err := s.store.ListAll()
	if err != nil {
		return statusUnset, err
	}
	for _, other := range names {
		text, err := s.store.ReadRaw(other)
		if err != nil {
			return statusUnset, err
		}
		stripped := document.RemoveAllReferences(text, name)
		if stripped == text {
			continue
		}
		if err := s.store.WriteRaw(other, stripped); err != nil {
			return statusUnset, err
		}
	}
	return StatusOK, nil
}

// DeleteObservation removes the first line whose trimmed text equals the
// trimmed observation. Duplicates require one call each.
func (s *Service) DeleteObservation(entityName, observation string) (Status, error) {
	if storage.ValidateEntityName(entityName) != nil {
		return StatusInvalidName, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.Exists(entityName) {
		return StatusNotFound, nil
	}
	text, err := s.store.ReadRaw(entityName)
	if err != nil {
		return statusUnset, err
	}
	text, removed := document.RemoveExactLine(text, observation)
	if !removed {
		return StatusNoMatch, nil
	}
	if err := s.store.WriteRaw(entityName, text); err != nil {
		return statusUnset, err
	}
	return StatusOK, nil
}

// DeleteRelationship removes the first line exactly matching the
// reconstructed relationship. All fields must match, including empty context
// meaning the stored line carries no trailing context.
func (s *Service) DeleteRelationship(source, verb, target, context string) (Status, error) {
	if storage.ValidateEntityName(source) != nil || storage.ValidateEntityName(target) != nil {
		return StatusInvalidName, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.Exists(source) {
		return StatusNotFound, nil
	}
	text, err := s.store.ReadRaw(source)
	if err != nil {
		return statusUnset, err
	}
	text, removed := document.RemoveExactLine(text, document.RelationshipLine(verb, target, context))
	if !removed {
		return StatusNoMatch, nil
	}
	if err := s.store.WriteRaw(source, text); err != nil {
		return statusUnset, err
	}
	return StatusOK, nil
}

// Graph decodes every stored document and returns the aggregated snapshot.
// The lock is taken so the snapshot never observes a document mid-write.
func (s *Service) Graph() (*models.KnowledgeGraph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.store.ListAll()
	if err != nil {
		return nil, err
	}

	kg := &models.KnowledgeGraph{
		Entities:      make(map[string]models.Entity, len(names)),
		Relationships: []models.Relationship{},
	}
	for _, name := range names {
		text, err := s.store.ReadRaw(name)
		if err != nil {
			return nil, err
		}
		entity := document.Decode(name, text)
		kg.Entities[name] = entity
		kg.Relationships = append(kg.Relationships, entity.Relationships...)
	}
	return kg, nil
}
