package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dropfour/dropfour/internal/api/handler"
	apimiddleware "github.com/dropfour/dropfour/internal/api/middleware"
	"github.com/dropfour/dropfour/internal/middleware"
	"github.com/dropfour/dropfour/internal/realtime"
	"github.com/dropfour/dropfour/internal/services/room"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	Logger         *slog.Logger
	RoomController *room.Controller
	Gateway        *realtime.Gateway

	// StaticDir is the frontend bundle to serve; empty disables static
	// hosting
	StaticDir string
}

// NewRouter creates a router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(apimiddleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	// Realtime gameplay happens over this socket
	r.HandleFunc("/ws", cfg.Gateway.ServeWS)

	r.HandleFunc("/healthz", healthHandler).Methods(http.MethodGet)

	roomHandler := handler.NewRoomHandler(cfg.RoomController)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/rooms", roomHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{token}", roomHandler.Get).Methods(http.MethodGet)

	if cfg.StaticDir != "" {
		r.PathPrefix("/").Handler(spaHandler{staticDir: cfg.StaticDir})
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
