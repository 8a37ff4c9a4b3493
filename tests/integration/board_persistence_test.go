package integration

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drawspace/drawspace-backend/internal/board/domain"
	"github.com/drawspace/drawspace-backend/internal/board/repository"
	"github.com/drawspace/drawspace-backend/internal/board/service"
	"github.com/drawspace/drawspace-backend/internal/geometry"
	"github.com/drawspace/drawspace-backend/internal/protocol"
	"github.com/drawspace/drawspace-backend/internal/room"
)

func setupRedisBackedService(t *testing.T) (*service.BoardService, *repository.RedisStore) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := repository.NewRedisStore(client)
	return service.NewBoardService(store), store
}

func TestBoardLifecycleOverRedis(t *testing.T) {
	svc, _ := setupRedisBackedService(t)
	ctx := context.Background()

	t.Run("create and join", func(t *testing.T) {
		b, err := svc.CreateBoard(ctx, "u1", "alice")
		require.NoError(t, err)

		joined, err := svc.JoinBoard(ctx, b.ID, "u2", "bob")
		require.NoError(t, err)
		assert.Equal(t, b.ID, joined.ID)
		assert.Equal(t, "alice", joined.HostName)
	})

	t.Run("join unknown board", func(t *testing.T) {
		_, err := svc.JoinBoard(ctx, "missing", "u2", "bob")
		assert.ErrorIs(t, err, domain.ErrBoardNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		boards, err := svc.ListBoards(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, boards)
	})
}

// Shapes drawn while a room is active must survive the room being released
// and come back for the next participant, via Redis.
func TestRoomStateSurvivesReleaseOverRedis(t *testing.T) {
	svc, store := setupRedisBackedService(t)
	ctx := context.Background()

	b, err := svc.CreateBoard(ctx, "u1", "alice")
	require.NoError(t, err)

	hub := room.NewHub()
	registry := room.NewRegistry(store, hub)

	alice := room.NewClient(nil)
	registry.HandleMessage(ctx, alice, &protocol.Message{
		Event: protocol.EventJoin, BoardID: b.ID, UserID: "u1", UserName: "alice",
	})

	registry.HandleMessage(ctx, alice, &protocol.Message{
		Event: protocol.EventFullSync,
		Shapes: domain.ShapeList{
			&domain.Stroke{ID: "s1", Type: domain.ShapePen, Color: "#000000", StrokeWidth: 2, Opacity: 1,
				Points: []geometry.Point{{X: 0, Y: 0}, {X: 5, Y: 5}}},
		},
	})

	// Leaving empties the room; the registry persists before releasing it.
	registry.HandleMessage(ctx, alice, &protocol.Message{Event: protocol.EventLeave})

	restored, err := store.Get(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, restored.Shapes, 1)
	assert.Equal(t, "s1", restored.Shapes[0].ShapeID())

	// A fresh registry (process restart) seeds the next participant from Redis.
	registry2 := room.NewRegistry(store, room.NewHub())
	bob := room.NewClient(nil)
	registry2.HandleMessage(ctx, bob, &protocol.Message{
		Event: protocol.EventJoin, BoardID: b.ID, UserID: "u2", UserName: "bob",
	})
	registry2.Flush(ctx)

	again, err := store.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, again.Shapes, 1)
}
