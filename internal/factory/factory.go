package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/dropfour/dropfour/internal/dependencies/clock"
	"github.com/dropfour/dropfour/internal/dependencies/ident"
	"github.com/dropfour/dropfour/internal/realtime"
	"github.com/dropfour/dropfour/internal/services/board"
	"github.com/dropfour/dropfour/internal/services/room"
	"github.com/dropfour/dropfour/internal/storage"
	"github.com/dropfour/dropfour/internal/storage/memory"
	redisstorage "github.com/dropfour/dropfour/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock
	Ident ident.Source

	// Services
	BoardService   *board.Service
	RoomController *room.Controller
	HubManager     *realtime.HubManager
	Gateway        *realtime.Gateway
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clock.New(), ident.New(), logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, ids ident.Source, logger *slog.Logger) *App {
	boardService := board.New()
	roomController := room.NewController(store, boardService, clk, ids, logger)
	hubManager := realtime.NewHubManager(logger)
	gateway := realtime.NewGateway(roomController, hubManager, ids, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Ident:          ids,
		BoardService:   boardService,
		RoomController: roomController,
		HubManager:     hubManager,
		Gateway:        gateway,
	}
}
