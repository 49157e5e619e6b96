// Package config centralizes all tunable game parameters.
package config

import (
	"time"

	"github.com/tomz197/rtsproto/internal/world"
)

// Map and view. One tile is drawn as a TileSize x TileSize square of pixels,
// so the frame covers the whole map.
const (
	MapWidth    = 12
	MapHeight   = 12
	TileSize    = 4
	FrameWidth  = MapWidth * TileSize
	FrameHeight = MapHeight * TileSize
)

// Economy
const (
	HarvestEveryTicks = 20 // One gather per second at the default 50ms tick
	HarvestAmount     = 5
	TrainEveryTicks   = 100
	MaxWorkers        = 64
)

// Costs and starting stockpile.
var (
	StartingResources = world.ResourcePool{Gold: 150, Wood: 100}
	WorkerCost        = world.ResourcePool{Gold: 50}
	BarracksCost      = world.ResourcePool{Gold: 100, Wood: 50}
)

// Shutdown
const (
	ShutdownDisplaySeconds = 5.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 30
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Server frame rate. The simulation itself advances in fixed ticks; this only
// sets how often wall time is sampled and a snapshot published.
const (
	ServerFrameRate = 60
	ServerFrameTime = time.Second / ServerFrameRate
)
