package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/drawspace/drawspace-backend/internal/board/domain"
)

const (
	boardKeyPrefix = "board:"      // Board record: board:{board_id}
	boardIndexKey  = "boards:all"  // Set of known board IDs
	boardTTL       = 24 * time.Hour
)

// RedisStore persists board records as JSON blobs in Redis. Records expire
// after boardTTL of inactivity; every Save refreshes the clock.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed board store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Create stores a new board record.
func (s *RedisStore) Create(ctx context.Context, b *domain.Board) error {
	key := s.boardKey(b.ID)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to check board existence: %w", err)
	}
	if exists > 0 {
		return domain.ErrBoardAlreadyExists
	}

	return s.write(ctx, b)
}

// Get returns the board record.
func (s *RedisStore) Get(ctx context.Context, id string) (*domain.Board, error) {
	data, err := s.client.Get(ctx, s.boardKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrBoardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}

	var b domain.Board
	if err := json.Unmarshal([]byte(data), &b); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board data: %w", err)
	}
	return &b, nil
}

// Save overwrites the stored board record.
func (s *RedisStore) Save(ctx context.Context, b *domain.Board) error {
	exists, err := s.client.Exists(ctx, s.boardKey(b.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check board existence: %w", err)
	}
	if exists == 0 {
		return domain.ErrBoardNotFound
	}
	return s.write(ctx, b)
}

// Delete removes the board record.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	removed, err := s.client.Del(ctx, s.boardKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}
	if removed == 0 {
		return domain.ErrBoardNotFound
	}
	if err := s.client.SRem(ctx, boardIndexKey, id).Err(); err != nil {
		return fmt.Errorf("failed to deindex board: %w", err)
	}
	return nil
}

// List returns all live board records, newest first. IDs whose record has
// expired are dropped from the index as a side effect.
func (s *RedisStore) List(ctx context.Context) ([]*domain.Board, error) {
	ids, err := s.client.SMembers(ctx, boardIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}

	out := make([]*domain.Board, 0, len(ids))
	for _, id := range ids {
		b, err := s.Get(ctx, id)
		if err == domain.ErrBoardNotFound {
			_ = s.client.SRem(ctx, boardIndexKey, id).Err()
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Ping checks connectivity to Redis.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) write(ctx context.Context, b *domain.Board) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal board data: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.boardKey(b.ID), data, boardTTL)
	pipe.SAdd(ctx, boardIndexKey, b.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save board: %w", err)
	}
	return nil
}

func (s *RedisStore) boardKey(id string) string {
	return boardKeyPrefix + id
}
