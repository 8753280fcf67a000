package model

import "time"

// RoomToken is the client-chosen identifier for a room
type RoomToken string

// GameStatus represents the current phase of a room
type GameStatus string

const (
	StatusLobby    GameStatus = "lobby"    // Waiting for players/ready
	StatusPlaying  GameStatus = "playing"  // Moves accepted
	StatusFinished GameStatus = "finished" // Round over, awaiting next round
)

// MaxPlayers is the number of seats in a room
const MaxPlayers = 2

// Room is one isolated game session: a board, up to two seated players,
// scores across rounds and the round lifecycle state.
type Room struct {
	Token      RoomToken `json:"token"`
	SecretHash string    `json:"secretHash"` // bcrypt hash of the join secret

	Board   *Board   `json:"board"`
	Players []Player `json:"players"` // ordered, first joiner is red

	Scores       map[Color]int `json:"scores"`
	CurrentTurn  Color         `json:"currentTurn"`
	RoundStarter Color         `json:"roundStarter"` // flips each round
	Status       GameStatus    `json:"status"`

	// Set while Status is finished; Winner is ColorNone for a draw
	Winner       Color  `json:"winner"`
	WinningCells []Cell `json:"winningCells"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewRoom creates a room in the lobby state with an empty board.
// Red always starts the first round.
func NewRoom(token RoomToken, secretHash string, now time.Time) *Room {
	return &Room{
		Token:        token,
		SecretHash:   secretHash,
		Board:        NewBoard(),
		Players:      []Player{},
		Scores:       map[Color]int{ColorRed: 0, ColorYellow: 0},
		CurrentTurn:  ColorRed,
		RoundStarter: ColorRed,
		Status:       StatusLobby,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// PlayerBySession returns the seated player with the given session id, or nil
func (r *Room) PlayerBySession(id SessionID) *Player {
	for i := range r.Players {
		if r.Players[i].SessionID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// PlayerBySeat returns the seated player holding the given seat token, or nil
func (r *Room) PlayerBySeat(token SeatToken) *Player {
	if token == "" {
		return nil
	}
	for i := range r.Players {
		if r.Players[i].SeatToken == token {
			return &r.Players[i]
		}
	}
	return nil
}

// ColorTaken returns true if a seated player holds the given color
func (r *Room) ColorTaken(c Color) bool {
	for i := range r.Players {
		if r.Players[i].Color == c {
			return true
		}
	}
	return false
}

// PlayerCount returns the number of seated players
func (r *Room) PlayerCount() int {
	return len(r.Players)
}

// AllReady returns true if every seated player has readied up
func (r *Room) AllReady() bool {
	for i := range r.Players {
		if !r.Players[i].Ready {
			return false
		}
	}
	return true
}

// Snapshot is the full public state broadcast to every room member after any
// state-changing operation. A client that misses one update recovers on the
// next, since snapshots are never deltas.
type Snapshot struct {
	Board        [BoardRows][BoardCols]Color `json:"board"`
	CurrentTurn  Color                       `json:"currentPlayer"`
	Scores       map[Color]int               `json:"scores"`
	Status       GameStatus                  `json:"gameStatus"`
	WinningCells []Cell                      `json:"winningCells"`
	Winner       Color                       `json:"winner"`
	PlayerCount  int                         `json:"playerCount"`
	Players      []PlayerInfo                `json:"players"`
}

// Snapshot returns the room's public state
func (r *Room) Snapshot() Snapshot {
	players := make([]PlayerInfo, 0, len(r.Players))
	for i := range r.Players {
		players = append(players, r.Players[i].Info())
	}

	scores := make(map[Color]int, len(r.Scores))
	for c, n := range r.Scores {
		scores[c] = n
	}

	return Snapshot{
		Board:        r.Board.Cells,
		CurrentTurn:  r.CurrentTurn,
		Scores:       scores,
		Status:       r.Status,
		WinningCells: r.WinningCells,
		Winner:       r.Winner,
		PlayerCount:  len(r.Players),
		Players:      players,
	}
}
