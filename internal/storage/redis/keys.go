package redis

import (
	"fmt"

	"github.com/dropfour/dropfour/internal/model"
)

// Key prefix for all room data
const keyPrefix = "dropfour"

// roomKey returns the Redis key for a Room
func roomKey(token model.RoomToken) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, token)
}

// roomIndexKey returns the Redis key for the SET of live room tokens
func roomIndexKey() string {
	return fmt.Sprintf("%s:idx:rooms", keyPrefix)
}
