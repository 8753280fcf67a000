package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dropfour/dropfour/internal/api/apierr"
	"github.com/dropfour/dropfour/internal/api/response"
	"github.com/dropfour/dropfour/internal/model"
	"github.com/dropfour/dropfour/internal/services/room"
)

// RoomHandler handles the read-only room endpoints
type RoomHandler struct {
	rooms *room.Controller
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms *room.Controller) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// List handles GET /api/v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.rooms.List(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	summaries := make([]response.RoomSummary, 0, len(tokens))
	for _, token := range tokens {
		rm, err := h.rooms.Get(r.Context(), token)
		if errors.Is(err, model.ErrRoomNotFound) {
			// Room was destroyed between the listing and the lookup
			continue
		}
		if err != nil {
			apierr.WriteError(w, err)
			return
		}
		summaries = append(summaries, response.RoomSummaryFromModel(rm))
	}

	response.JSON(w, http.StatusOK, response.RoomList{Rooms: summaries})
}

// Get handles GET /api/v1/rooms/{token}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	token := model.RoomToken(mux.Vars(r)["token"])

	rm, err := h.rooms.Get(r.Context(), token)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}
