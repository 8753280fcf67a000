package model

import "time"

// SessionID identifies a live websocket connection. It changes whenever the
// client reconnects.
type SessionID string

// SeatToken is the application-level identity for a seat in a room. It is
// issued on the first join and echoed back by the client so a reconnect with
// a fresh connection can reclaim the same seat.
type SeatToken string

// Player is one seated participant in a room
type Player struct {
	SessionID   SessionID `json:"id"`
	SeatToken   SeatToken `json:"seatToken"`
	Color       Color     `json:"color"`
	DisplayName string    `json:"name"`
	Ready       bool      `json:"ready"`
	Avatar      string    `json:"avatar"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// PlayerInfo is the broadcast-safe view of a Player. It carries no seat
// token, which would let any room member steal the seat.
type PlayerInfo struct {
	Color  Color  `json:"color"`
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Avatar string `json:"avatar"`
}

// Info returns the public view of the player
func (p *Player) Info() PlayerInfo {
	return PlayerInfo{
		Color:  p.Color,
		Name:   p.DisplayName,
		Ready:  p.Ready,
		Avatar: p.Avatar,
	}
}
