package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/rtsproto/internal/loop/config"
	"github.com/tomz197/rtsproto/internal/object"
	"github.com/tomz197/rtsproto/internal/sim"
	"github.com/tomz197/rtsproto/internal/world"
)

var (
	// ErrNotBuildable is returned when placing on a tile that is off the map or not ground.
	ErrNotBuildable = errors.New("server: tile not buildable")
	// ErrOccupied is returned when placing on a tile that already holds an object.
	ErrOccupied = errors.New("server: tile occupied")
	// ErrWorkerLimit is returned when the worker cap is reached.
	ErrWorkerLimit = errors.New("server: worker limit reached")
)

// GameServer is the interface clients use to communicate with the game server.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	Place(kind object.Kind, pos world.TilePos) error
	GetSnapshot() *Snapshot
}

// Server owns one session's world, advances it in fixed ticks and publishes
// snapshots for any number of clients.
type Server struct {
	world        *WorldState
	snapshot     atomic.Pointer[Snapshot]
	clients      map[int]*ClientHandle
	nextClientID int
	registerCh   chan *ClientHandle
	unregisterCh chan int
	mu           sync.RWMutex // Guards world and clients
	logger       *log.Logger

	carry time.Duration // Wall time below one millisecond not yet fed to the clock, guarded by mu
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Username string
	EventsCh chan ClientEvent
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type ClientEventType
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
)

// NewServer creates a server for the bootstrap world, ticking every tickMs
// milliseconds of simulated time. A nil logger discards output.
func NewServer(tickMs uint64, logger *log.Logger) (*Server, error) {
	clock, err := sim.NewClock(tickMs)
	if err != nil {
		return nil, err
	}
	return NewServerWithWorld(NewBootstrapWorld(clock), logger), nil
}

// NewServerWithWorld creates a server around an existing world.
func NewServerWithWorld(w *WorldState, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		world:        w,
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		registerCh:   make(chan *ClientHandle, 16),
		unregisterCh: make(chan int, 16),
		logger:       logger,
	}
	s.snapshot.Store(w.Snapshot())
	return s
}

// Run starts the server loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	lastTime := time.Now()
	s.logger.Info("session started", "tick_ms", s.world.Clock.TickMs(), "map", fmt.Sprintf("%dx%d", s.world.Map.Width(), s.world.Map.Height()))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session stopped", "ticks", s.world.Clock.Ticks())
			return
		default:
		}

		frameStart := time.Now()
		elapsed := frameStart.Sub(lastTime)
		lastTime = frameStart

		s.processRegistrations()
		s.Advance(elapsed)

		// Frame timing
		if spent := time.Since(frameStart); spent < config.ServerFrameTime {
			time.Sleep(config.ServerFrameTime - spent)
		}
	}
}

// Advance feeds elapsed wall time to the simulation clock, runs the ticks it
// yields and publishes a new snapshot. Time is passed to the clock in whole
// milliseconds; the sub-millisecond rest is carried into the next call.
// Returns the number of ticks run.
func (s *Server) Advance(elapsed time.Duration) uint64 {
	if elapsed < 0 {
		elapsed = 0
	}
	s.mu.Lock()
	total := s.carry + elapsed
	ms := total / time.Millisecond
	s.carry = total - ms*time.Millisecond

	before := s.world.Clock.Ticks()
	s.world.Clock.Step(uint64(ms), func(tick uint64) {
		if err := s.world.Tick(tick); err != nil {
			s.logger.Warn("tick failed", "tick", tick, "err", err)
		}
	})
	ran := s.world.Clock.Ticks() - before
	snap := s.world.Snapshot()
	s.mu.Unlock()

	s.snapshot.Store(snap)
	return ran
}

// Place puts a new object of kind on pos, paying its cost from the pool.
// The object starts updating on the next tick and shows up in the next snapshot.
func (s *Server) Place(kind object.Kind, pos world.TilePos) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.world
	if !w.Map.IsBuildable(pos) {
		return fmt.Errorf("%w: (%d, %d)", ErrNotBuildable, pos.X, pos.Y)
	}
	if w.Occupied(pos) {
		return fmt.Errorf("%w: (%d, %d)", ErrOccupied, pos.X, pos.Y)
	}
	if kind == object.KindWorker && w.Count(object.KindWorker) >= config.MaxWorkers {
		return ErrWorkerLimit
	}
	obj, err := object.New(kind, pos)
	if err != nil {
		return err
	}
	if err := w.Pool.Spend(kind.Cost()); err != nil {
		return fmt.Errorf("place %s: %w", kind, err)
	}
	w.AddObject(obj)
	s.logger.Debug("placed", "kind", kind, "x", pos.X, "y", pos.Y)
	return nil
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			s.processRegistrations()
			s.mu.RLock()
			remaining := len(s.clients)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	handle := &ClientHandle{
		ID:       id,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}

	s.registerCh <- handle
	return handle
}

// UnregisterClient removes a client from the server.
func (s *Server) UnregisterClient(clientID int) {
	s.unregisterCh <- clientID
}

// GetSnapshot returns the current world snapshot.
func (s *Server) GetSnapshot() *Snapshot {
	return s.snapshot.Load()
}

// Clients returns the number of registered clients.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// processRegistrations handles pending client registrations/unregistrations.
func (s *Server) processRegistrations() {
	for {
		select {
		case handle := <-s.registerCh:
			s.mu.Lock()
			s.clients[handle.ID] = handle
			s.mu.Unlock()
			s.logger.Info("client joined", "id", handle.ID, "user", handle.Username)
		case clientID := <-s.unregisterCh:
			s.mu.Lock()
			if handle, ok := s.clients[clientID]; ok {
				close(handle.EventsCh)
				delete(s.clients, clientID)
				s.logger.Info("client left", "id", clientID, "user", handle.Username)
			}
			s.mu.Unlock()
		default:
			return
		}
	}
}
