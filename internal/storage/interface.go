package storage

import (
	"context"

	"github.com/dropfour/dropfour/internal/model"
)

// Storage is the room registry: it maps a room token to at most one live
// room. Rooms are created lazily on first join and deleted the moment their
// roster empties, so a token after a full drain always yields a brand-new
// room.
type Storage interface {
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, token model.RoomToken) (*model.Room, error)
	DeleteRoom(ctx context.Context, token model.RoomToken) error
	RoomExists(ctx context.Context, token model.RoomToken) (bool, error)
	ListRoomTokens(ctx context.Context) ([]model.RoomToken, error)
}
