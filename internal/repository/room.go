package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

const roomKeyPrefix = "room:"

// RoomRepository - write-only redis mirror of live room snapshots, the server
// never reads it back.
type RoomRepository interface {
	Save(ctx context.Context, snapshot entity.Snapshot) error
	DeleteByCode(ctx context.Context, code string) error
}

type dbRoom struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRoomRepository - ttl of zero keeps keys until deleted.
func NewRoomRepository(client *redis.Client, ttl time.Duration) RoomRepository {
	return &dbRoom{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbRoom) Save(ctx context.Context, snapshot entity.Snapshot) error {
	roomJSON, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("could not marshal room: %w", err)
	}

	err = that.client.Set(ctx, roomKeyPrefix+snapshot.Code, roomJSON, that.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set room: %w", err)
	}

	return nil
}

func (that *dbRoom) DeleteByCode(ctx context.Context, code string) error {
	if err := that.client.Del(ctx, roomKeyPrefix+code).Err(); err != nil {
		return fmt.Errorf("failed to delete room by code: %w", err)
	}

	return nil
}
