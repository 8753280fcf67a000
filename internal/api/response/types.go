package response

import (
	"time"

	"github.com/dropfour/dropfour/internal/model"
)

// RoomSummary is one row in the room listing
type RoomSummary struct {
	Token       string    `json:"token"`
	Status      string    `json:"status"`
	PlayerCount int       `json:"playerCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RoomSummaryFromModel converts a model.Room to a listing row
func RoomSummaryFromModel(rm *model.Room) RoomSummary {
	return RoomSummary{
		Token:       string(rm.Token),
		Status:      string(rm.Status),
		PlayerCount: rm.PlayerCount(),
		CreatedAt:   rm.CreatedAt,
	}
}

// RoomList wraps the room listing
type RoomList struct {
	Rooms []RoomSummary `json:"rooms"`
}

// Room is the full public view of a single room
type Room struct {
	Token string `json:"token"`
	model.Snapshot
}

// RoomFromModel converts a model.Room to its public view
func RoomFromModel(rm *model.Room) Room {
	return Room{
		Token:    string(rm.Token),
		Snapshot: rm.Snapshot(),
	}
}
