package memory

import (
	"context"
	"sync"

	"github.com/dropfour/dropfour/internal/model"
	"github.com/dropfour/dropfour/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu    sync.RWMutex
	rooms map[model.RoomToken]*model.Room
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		rooms: make(map[model.RoomToken]*model.Room),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.Token] = cloneRoom(room)
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, token model.RoomToken) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[token]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return cloneRoom(room), nil
}

func (s *Storage) DeleteRoom(ctx context.Context, token model.RoomToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, token)
	return nil
}

// cloneRoom copies a room so callers never share mutable state with the
// store or with each other. The redis backend gets the same isolation from
// its JSON round-trip.
func cloneRoom(rm *model.Room) *model.Room {
	cp := *rm
	if rm.Board != nil {
		board := *rm.Board
		cp.Board = &board
	}
	cp.Players = append([]model.Player(nil), rm.Players...)
	cp.WinningCells = append([]model.Cell(nil), rm.WinningCells...)
	cp.Scores = make(map[model.Color]int, len(rm.Scores))
	for c, n := range rm.Scores {
		cp.Scores[c] = n
	}
	return &cp
}

func (s *Storage) RoomExists(ctx context.Context, token model.RoomToken) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[token]
	return ok, nil
}

func (s *Storage) ListRoomTokens(ctx context.Context) ([]model.RoomToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tokens := make([]model.RoomToken, 0, len(s.rooms))
	for token := range s.rooms {
		tokens = append(tokens, token)
	}
	return tokens, nil
}
