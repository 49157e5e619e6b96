package client

import (
	"time"

	"github.com/tomz197/rtsproto/internal/draw"
	"github.com/tomz197/rtsproto/internal/input"
	"github.com/tomz197/rtsproto/internal/world"
)

// GameState represents the current game phase for a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Active gameplay
	GameStateShutdown                  // Server is shutting down
)

// ClientState holds per-terminal state (input, cursor, status line).
// Each client has its own instance, managed by the Client.
type ClientState struct {
	Input         input.Input
	GameState     GameState
	prevGameState GameState
	Cursor        world.TilePos // Tile the next placement goes to
	Message       string        // Status line text
	messageTimer  float64       // Seconds until Message is cleared
	termSizeFunc  draw.TermSizeFunc
	Running       bool
	delta         time.Duration // Frame delta time (client-side)
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool
	wasInactive   bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateStart,
		Running:   true,
	}
}

// setMessage shows msg on the status line for a few seconds.
func (s *ClientState) setMessage(msg string) {
	s.Message = msg
	s.messageTimer = messageSeconds
}

// tickMessage counts the status line down and clears it when it expires.
func (s *ClientState) tickMessage() {
	if s.messageTimer <= 0 {
		return
	}
	s.messageTimer -= s.delta.Seconds()
	if s.messageTimer <= 0 {
		s.Message = ""
	}
}

// moveCursor shifts the cursor by (dx, dy), clamped to the map.
func (s *ClientState) moveCursor(dx, dy, mapWidth, mapHeight int) {
	s.Cursor.X = min(max(s.Cursor.X+dx, 0), max(mapWidth-1, 0))
	s.Cursor.Y = min(max(s.Cursor.Y+dy, 0), max(mapHeight-1, 0))
}
