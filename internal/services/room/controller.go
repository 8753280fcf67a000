package room

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/dropfour/dropfour/internal/dependencies/clock"
	"github.com/dropfour/dropfour/internal/dependencies/ident"
	"github.com/dropfour/dropfour/internal/model"
	"github.com/dropfour/dropfour/internal/services/board"
	"github.com/dropfour/dropfour/internal/storage"
)

// DefaultDisplayName is used when a join carries no name
const DefaultDisplayName = "Player"

// Controller owns the room state machine. Every mutating operation runs
// under a per-token lock, so no connection ever observes a half-applied
// operation.
type Controller struct {
	storage storage.Storage
	board   *board.Service
	clock   clock.Clock
	ident   ident.Source
	logger  *slog.Logger

	mu    sync.Mutex
	locks map[model.RoomToken]*sync.Mutex
}

// NewController creates a new room controller
func NewController(
	storage storage.Storage,
	boardService *board.Service,
	clock clock.Clock,
	ident ident.Source,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		board:   boardService,
		clock:   clock,
		ident:   ident,
		logger:  logger.With(slog.String("component", "room")),
		locks:   make(map[model.RoomToken]*sync.Mutex),
	}
}

// lock acquires the per-token mutex and returns its release func
func (c *Controller) lock(token model.RoomToken) func() {
	c.mu.Lock()
	l, ok := c.locks[token]
	if !ok {
		l = &sync.Mutex{}
		c.locks[token] = l
	}
	c.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// forgetLock drops the mutex for a destroyed room
func (c *Controller) forgetLock(token model.RoomToken) {
	c.mu.Lock()
	delete(c.locks, token)
	c.mu.Unlock()
}

// JoinResult describes the outcome of a successful join
type JoinResult struct {
	Room     *model.Room
	Player   model.Player
	Created  bool // room was created by this join
	Reseated bool // an existing seat was reclaimed
}

// Join seats a connection in the room for token, creating the room if this
// is the first join for the token. The supplied secret becomes the room's
// password on creation and must match it afterwards. A connection already
// seated (same session, or a valid seat token from a previous connection)
// reclaims its seat and color.
func (c *Controller) Join(ctx context.Context, token model.RoomToken, secret string, session model.SessionID, seat model.SeatToken, displayName string) (*JoinResult, error) {
	unlock := c.lock(token)
	defer unlock()

	now := c.clock.Now()
	created := false
	rm, err := c.storage.GetRoom(ctx, token)
	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, hashErr
		}
		rm = model.NewRoom(token, string(hash), now)
		created = true
	case err != nil:
		return nil, err
	default:
		if bcrypt.CompareHashAndPassword([]byte(rm.SecretHash), []byte(secret)) != nil {
			return nil, model.ErrWrongSecret
		}
	}

	// Reconnect: same live session, or a seat token issued earlier
	existing := rm.PlayerBySession(session)
	if existing == nil {
		existing = rm.PlayerBySeat(seat)
	}
	if existing != nil {
		existing.SessionID = session
		if displayName != "" {
			existing.DisplayName = displayName
		}
		rm.UpdatedAt = now
		if err := c.storage.SaveRoom(ctx, rm); err != nil {
			return nil, err
		}
		c.logger.Info("player reseated",
			slog.String("room", string(token)),
			slog.String("color", string(existing.Color)))
		return &JoinResult{Room: rm, Player: *existing, Reseated: true}, nil
	}

	if rm.PlayerCount() >= model.MaxPlayers {
		return nil, model.ErrRoomFull
	}

	if displayName == "" {
		displayName = DefaultDisplayName
	}

	color := model.ColorRed
	if rm.ColorTaken(model.ColorRed) {
		color = model.ColorYellow
	}

	player := model.Player{
		SessionID:   session,
		SeatToken:   model.SeatToken(c.ident.NewID()),
		Color:       color,
		DisplayName: displayName,
		Ready:       false,
		Avatar:      color.Avatar(),
		JoinedAt:    now,
	}
	rm.Players = append(rm.Players, player)
	rm.UpdatedAt = now

	if err := c.storage.SaveRoom(ctx, rm); err != nil {
		return nil, err
	}

	c.logger.Info("player joined",
		slog.String("room", string(token)),
		slog.String("color", string(color)),
		slog.Bool("created", created))
	return &JoinResult{Room: rm, Player: player, Created: created}, nil
}

// Get returns the room for token
func (c *Controller) Get(ctx context.Context, token model.RoomToken) (*model.Room, error) {
	return c.storage.GetRoom(ctx, token)
}

// List returns the tokens of all live rooms
func (c *Controller) List(ctx context.Context) ([]model.RoomToken, error) {
	return c.storage.ListRoomTokens(ctx)
}

// ToggleReady flips the ready flag of the seated player for session. A
// missing room or non-member session is a silent no-op: the returned room is
// nil and nothing should be broadcast.
func (c *Controller) ToggleReady(ctx context.Context, token model.RoomToken, session model.SessionID) (*model.Room, error) {
	unlock := c.lock(token)
	defer unlock()

	rm, err := c.storage.GetRoom(ctx, token)
	if errors.Is(err, model.ErrRoomNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	player := rm.PlayerBySession(session)
	if player == nil {
		return nil, nil
	}

	player.Ready = !player.Ready
	rm.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveRoom(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

// Start moves the room from lobby to playing. It requires a full roster with
// every player ready, otherwise it fails with ErrPlayersNotReady, which the
// gateway surfaces to the requester only.
func (c *Controller) Start(ctx context.Context, token model.RoomToken, session model.SessionID) (*model.Room, error) {
	unlock := c.lock(token)
	defer unlock()

	rm, err := c.storage.GetRoom(ctx, token)
	if errors.Is(err, model.ErrRoomNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if rm.PlayerBySession(session) == nil {
		return nil, nil
	}
	if rm.Status != model.StatusLobby {
		return nil, nil
	}
	if rm.PlayerCount() < model.MaxPlayers || !rm.AllReady() {
		return nil, model.ErrPlayersNotReady
	}

	rm.Status = model.StatusPlaying
	rm.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveRoom(ctx, rm); err != nil {
		return nil, err
	}

	c.logger.Info("game started", slog.String("room", string(token)))
	return rm, nil
}

// Move drops a piece for the session's player in the given column.
//
// Everything that can be wrong with a move is a silent no-op (nil room, nil
// error): room missing, game not in playing state, session not seated, not
// that player's turn, column invalid or full. This tolerates UI races such
// as a click landing just after the turn flipped. On success the new room
// state is returned, with the outcome applied: a win finishes the round and
// bumps the winner's score, a draw finishes it with no winner, otherwise the
// turn flips.
func (c *Controller) Move(ctx context.Context, token model.RoomToken, session model.SessionID, col int) (*model.Room, error) {
	unlock := c.lock(token)
	defer unlock()

	rm, err := c.storage.GetRoom(ctx, token)
	if errors.Is(err, model.ErrRoomNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if rm.Status != model.StatusPlaying {
		return nil, nil
	}
	player := rm.PlayerBySession(session)
	if player == nil || player.Color != rm.CurrentTurn {
		return nil, nil
	}

	row, err := c.board.Drop(rm.Board, col, player.Color)
	if err != nil {
		// Full or invalid column: deliberately ignored
		return nil, nil
	}

	outcome := c.board.DetectOutcome(rm.Board, row, col, player.Color)
	switch {
	case outcome.Winner != model.ColorNone:
		rm.Status = model.StatusFinished
		rm.Winner = outcome.Winner
		rm.WinningCells = outcome.WinningCells
		rm.Scores[outcome.Winner]++
		c.logger.Info("round won",
			slog.String("room", string(token)),
			slog.String("winner", string(outcome.Winner)))
	case outcome.IsDraw:
		rm.Status = model.StatusFinished
		rm.Winner = model.ColorNone
		rm.WinningCells = nil
		c.logger.Info("round drawn", slog.String("room", string(token)))
	default:
		rm.CurrentTurn = rm.CurrentTurn.Opponent()
	}

	rm.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveRoom(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

// NextRound resets the board for another round: winner and winning cells are
// cleared, the starting color flips relative to the previous round and the
// room goes straight back to playing. Requires a seated session and a full
// roster; anything else is a silent no-op.
func (c *Controller) NextRound(ctx context.Context, token model.RoomToken, session model.SessionID) (*model.Room, error) {
	unlock := c.lock(token)
	defer unlock()

	rm, err := c.storage.GetRoom(ctx, token)
	if errors.Is(err, model.ErrRoomNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if rm.PlayerBySession(session) == nil || rm.PlayerCount() < model.MaxPlayers {
		return nil, nil
	}

	rm.Board = model.NewBoard()
	rm.Winner = model.ColorNone
	rm.WinningCells = nil
	rm.Status = model.StatusPlaying
	rm.RoundStarter = rm.RoundStarter.Opponent()
	rm.CurrentTurn = rm.RoundStarter
	rm.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, rm); err != nil {
		return nil, err
	}

	c.logger.Info("next round",
		slog.String("room", string(token)),
		slog.String("starter", string(rm.RoundStarter)))
	return rm, nil
}

// ResetScores zeroes both score counters. Board, turn and status are left
// untouched. Non-member sessions are a silent no-op.
func (c *Controller) ResetScores(ctx context.Context, token model.RoomToken, session model.SessionID) (*model.Room, error) {
	unlock := c.lock(token)
	defer unlock()

	rm, err := c.storage.GetRoom(ctx, token)
	if errors.Is(err, model.ErrRoomNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if rm.PlayerBySession(session) == nil {
		return nil, nil
	}

	rm.Scores = map[model.Color]int{model.ColorRed: 0, model.ColorYellow: 0}
	rm.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveRoom(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

// Leave removes the session's player from the room. A game cannot continue
// one-handed, so the room falls back to the lobby with a cleared board; the
// remaining player's seat is untouched. When the roster empties the room is
// destroyed and (nil, true, nil) is returned.
func (c *Controller) Leave(ctx context.Context, token model.RoomToken, session model.SessionID) (*model.Room, bool, error) {
	unlock := c.lock(token)
	defer unlock()

	rm, err := c.storage.GetRoom(ctx, token)
	if errors.Is(err, model.ErrRoomNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	idx := -1
	for i := range rm.Players {
		if rm.Players[i].SessionID == session {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false, nil
	}

	rm.Players = append(rm.Players[:idx], rm.Players[idx+1:]...)

	if len(rm.Players) == 0 {
		if err := c.storage.DeleteRoom(ctx, token); err != nil {
			return nil, false, err
		}
		c.forgetLock(token)
		c.logger.Info("room destroyed", slog.String("room", string(token)))
		return nil, true, nil
	}

	rm.Status = model.StatusLobby
	rm.Board = model.NewBoard()
	rm.Winner = model.ColorNone
	rm.WinningCells = nil
	rm.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, rm); err != nil {
		return nil, false, err
	}

	c.logger.Info("player left", slog.String("room", string(token)))
	return rm, true, nil
}
