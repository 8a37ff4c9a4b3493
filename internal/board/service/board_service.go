package service

import (
	"context"
	"time"

	"github.com/drawspace/drawspace-backend/internal/board/domain"
	"github.com/drawspace/drawspace-backend/internal/board/repository"
)

// BoardService handles board lifecycle: creation, lookup and the initial
// state a participant is seeded with before the realtime path takes over.
type BoardService struct {
	store repository.BoardStore
}

// NewBoardService creates a new BoardService.
func NewBoardService(store repository.BoardStore) *BoardService {
	return &BoardService{store: store}
}

// CreateBoard creates an empty board owned by the given host.
func (s *BoardService) CreateBoard(ctx context.Context, hostID, hostName string) (*domain.Board, error) {
	if hostID == "" || hostName == "" {
		return nil, domain.ErrInvalidJoin
	}

	b := domain.NewBoard(hostID, hostName)
	if err := s.store.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// GetBoard retrieves a board by ID.
func (s *BoardService) GetBoard(ctx context.Context, id string) (*domain.Board, error) {
	return s.store.Get(ctx, id)
}

// ListBoards returns all known boards, newest first.
func (s *BoardService) ListBoards(ctx context.Context) ([]*domain.Board, error) {
	return s.store.List(ctx)
}

// JoinBoard validates a join request and returns the board's current shapes
// and collaborators. This seeds the sync protocol's initial state; the
// realtime join happens over the websocket.
func (s *BoardService) JoinBoard(ctx context.Context, boardID, userID, userName string) (*domain.Board, error) {
	if userID == "" || userName == "" {
		return nil, domain.ErrInvalidJoin
	}

	b, err := s.store.Get(ctx, boardID)
	if err != nil {
		return nil, err
	}

	b.LastModified = time.Now()
	if err := s.store.Save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}
