package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/drawspace/drawspace-backend/internal/board/domain"
)

// BoardStore is the injected storage behind the room registry: an in-memory
// mapping by default, swappable for Redis.
type BoardStore interface {
	Create(ctx context.Context, b *domain.Board) error
	Get(ctx context.Context, id string) (*domain.Board, error)
	Save(ctx context.Context, b *domain.Board) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Board, error)
	Ping(ctx context.Context) error
}

// MemoryStore keeps board records in a process-local map.
type MemoryStore struct {
	boards map[string]*domain.Board
	mu     sync.RWMutex
}

// NewMemoryStore creates an empty in-memory board store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		boards: make(map[string]*domain.Board),
	}
}

// Create stores a new board record.
func (s *MemoryStore) Create(_ context.Context, b *domain.Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.boards[b.ID]; exists {
		return domain.ErrBoardAlreadyExists
	}
	s.boards[b.ID] = b.Clone()
	return nil
}

// Get returns a copy of the board record.
func (s *MemoryStore) Get(_ context.Context, id string) (*domain.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.boards[id]
	if !ok {
		return nil, domain.ErrBoardNotFound
	}
	return b.Clone(), nil
}

// Save overwrites the stored board record.
func (s *MemoryStore) Save(_ context.Context, b *domain.Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.boards[b.ID]; !ok {
		return domain.ErrBoardNotFound
	}
	s.boards[b.ID] = b.Clone()
	return nil
}

// Delete removes the board record.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.boards[id]; !ok {
		return domain.ErrBoardNotFound
	}
	delete(s.boards, id)
	return nil
}

// List returns all board records, newest first.
func (s *MemoryStore) List(_ context.Context) ([]*domain.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Board, 0, len(s.boards))
	for _, b := range s.boards {
		out = append(out, b.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(_ context.Context) error { return nil }
