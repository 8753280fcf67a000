package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/dropfour/dropfour/internal/dependencies/ident"
	"github.com/dropfour/dropfour/internal/model"
	"github.com/dropfour/dropfour/internal/services/room"
)

// Gateway translates websocket intents into room operations and fans the
// resulting snapshots back out to room members. User-visible failures
// (wrong password, full room, not ready) go to the offending connection
// only; everything else that is invalid is a silent no-op.
type Gateway struct {
	rooms    *room.Controller
	hubs     *HubManager
	ident    ident.Source
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewGateway creates a Gateway
func NewGateway(rooms *room.Controller, hubs *HubManager, ident ident.Source, logger *slog.Logger) *Gateway {
	return &Gateway{
		rooms:  rooms,
		hubs:   hubs,
		ident:  ident,
		logger: logger.With(slog.String("component", "gateway")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The frontend is served from arbitrary hosts in development
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades an HTTP request to a websocket connection and runs its
// read/write pumps
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := newClient(model.SessionID(g.ident.NewID()), conn)
	g.logger.Info("connection opened",
		slog.String("session", string(client.session)),
		slog.String("remote", r.RemoteAddr))

	go client.writePump()
	go client.readPump(g)
}

// dispatch handles one inbound intent from a connection
func (g *Gateway) dispatch(c *Client, message []byte) {
	var env Envelope
	if err := json.Unmarshal(message, &env); err != nil {
		g.logger.Warn("unparseable message",
			slog.String("session", string(c.session)),
			slog.String("error", err.Error()))
		return
	}

	ctx := context.Background()

	switch env.Type {
	case IntentJoinRoom:
		g.handleJoin(ctx, c, env)

	case IntentToggleReady:
		payload, err := DecodePayload[RoomPayload](env)
		if err != nil {
			return
		}
		rm, err := g.rooms.ToggleReady(ctx, payload.Token, c.session)
		g.finish(c, rm, err)

	case IntentStartGame:
		payload, err := DecodePayload[RoomPayload](env)
		if err != nil {
			return
		}
		rm, err := g.rooms.Start(ctx, payload.Token, c.session)
		g.finish(c, rm, err)

	case IntentMakeMove:
		payload, err := DecodePayload[MovePayload](env)
		if err != nil {
			return
		}
		rm, err := g.rooms.Move(ctx, payload.Token, c.session, payload.Column)
		g.finish(c, rm, err)

	case IntentNextRound:
		payload, err := DecodePayload[RoomPayload](env)
		if err != nil {
			return
		}
		rm, err := g.rooms.NextRound(ctx, payload.Token, c.session)
		g.finish(c, rm, err)

	case IntentResetScores:
		payload, err := DecodePayload[RoomPayload](env)
		if err != nil {
			return
		}
		rm, err := g.rooms.ResetScores(ctx, payload.Token, c.session)
		g.finish(c, rm, err)

	default:
		g.logger.Warn("unknown intent",
			slog.String("session", string(c.session)),
			slog.String("type", env.Type))
	}
}

// handleJoin runs the join flow: seat the connection, attach it to the
// room's hub, tell it its color and broadcast the new roster
func (g *Gateway) handleJoin(ctx context.Context, c *Client, env Envelope) {
	payload, err := DecodePayload[JoinRoomPayload](env)
	if err != nil {
		return
	}

	res, err := g.rooms.Join(ctx, payload.Token, payload.Secret, c.session, payload.SeatToken, payload.DisplayName)
	if err != nil {
		g.sendError(c, err)
		return
	}

	// A connection holds one seat at a time: switching rooms releases the
	// old seat before the new one is tracked
	if old := c.Room(); old != "" && old != payload.Token {
		g.leaveRoom(c, old)
	}

	c.setRoom(payload.Token)
	g.hubs.GetOrCreate(payload.Token).Register(c)

	assigned, err := Encode(EventAssigned, AssignedPayload{
		Color:     res.Player.Color,
		SeatToken: res.Player.SeatToken,
	})
	if err == nil {
		c.enqueue(assigned)
	}

	g.broadcastSnapshot(res.Room)
}

// handleDisconnect releases the connection's seat. It runs under the same
// per-room lock as every other operation, via the controller.
func (g *Gateway) handleDisconnect(c *Client) {
	token := c.Room()
	if token == "" {
		return
	}
	g.leaveRoom(c, token)
}

// leaveRoom detaches the connection from a room's hub and frees its seat,
// tearing down the room and hub when the roster empties
func (g *Gateway) leaveRoom(c *Client, token model.RoomToken) {
	if hub := g.hubs.Get(token); hub != nil {
		hub.Unregister(c)
	}

	rm, removed, err := g.rooms.Leave(context.Background(), token, c.session)
	if err != nil {
		g.logger.Error("leave failed",
			slog.String("session", string(c.session)),
			slog.String("error", err.Error()))
		return
	}
	if !removed {
		return
	}

	if rm == nil {
		// Last player out: the room is gone, so is its hub
		g.hubs.Remove(token)
		return
	}
	g.broadcastSnapshot(rm)
}

// finish applies the common outcome handling for non-join intents: silent
// no-ops broadcast nothing, user-visible failures go back to the requester,
// state changes are broadcast to the room.
func (g *Gateway) finish(c *Client, rm *model.Room, err error) {
	if err != nil {
		g.sendError(c, err)
		return
	}
	if rm == nil {
		return
	}
	g.broadcastSnapshot(rm)
}

// broadcastSnapshot sends the room's full public state to every member
func (g *Gateway) broadcastSnapshot(rm *model.Room) {
	hub := g.hubs.Get(rm.Token)
	if hub == nil {
		return
	}

	message, err := Encode(EventUpdate, rm.Snapshot())
	if err != nil {
		g.logger.Error("snapshot encoding failed",
			slog.String("room", string(rm.Token)),
			slog.String("error", err.Error()))
		return
	}
	hub.Broadcast(message)
}

// sendError delivers a failure to the offending connection only
func (g *Gateway) sendError(c *Client, err error) {
	message, encErr := Encode(EventError, ErrorPayload{Message: userMessage(err)})
	if encErr != nil {
		return
	}
	c.enqueue(message)
}

// userMessage maps controller errors to the text shown in the client
func userMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrWrongSecret):
		return "Wrong password!"
	case errors.Is(err, model.ErrRoomFull):
		return "Room is full!"
	case errors.Is(err, model.ErrPlayersNotReady):
		return "Not everyone is ready yet!"
	default:
		return "Something went wrong"
	}
}
