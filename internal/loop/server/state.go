package server

import (
	"github.com/tomz197/rtsproto/internal/draw"
	"github.com/tomz197/rtsproto/internal/loop/config"
	"github.com/tomz197/rtsproto/internal/object"
	"github.com/tomz197/rtsproto/internal/sim"
	"github.com/tomz197/rtsproto/internal/world"
)

// WorldState holds the session's game state (map, stockpile, clock, objects).
// It is owned by the Server and shared with clients only via snapshots.
type WorldState struct {
	Map     *world.TileMap
	Pool    world.ResourcePool
	Clock   *sim.Clock
	Objects []object.Object
	toSpawn []object.Object // Objects to add after the current tick

	occupancy *world.Occupancy // Tiles held by Objects and toSpawn
}

// Snapshot is an immutable view of the world for rendering.
type Snapshot struct {
	Queue     *draw.Queue // World quads in pixel space, shared: clone before pushing
	Ticks     uint64
	Resources world.ResourcePool
	Objects   int
	MapWidth  int
	MapHeight int
}

// NewWorldState creates a world with an empty map of the given size.
func NewWorldState(width, height int, clock *sim.Clock) *WorldState {
	return &WorldState{
		Map:       world.NewTileMap(width, height),
		Clock:     clock,
		occupancy: world.NewOccupancy(width, height),
	}
}

// NewBootstrapWorld creates the starting scenario: a gold mine and a forest
// near the top-left corner with one worker between them.
func NewBootstrapWorld(clock *sim.Clock) *WorldState {
	w := NewWorldState(config.MapWidth, config.MapHeight, clock)
	_ = w.Map.Set(world.TilePos{X: 3, Y: 3}, world.GoldMine)
	_ = w.Map.Set(world.TilePos{X: 5, Y: 4}, world.Forest)
	_ = w.Map.Set(world.TilePos{X: 8, Y: 8}, world.Blocked)
	_ = w.Map.Set(world.TilePos{X: 8, Y: 9}, world.Blocked)
	w.Pool = config.StartingResources
	w.AddObject(object.NewWorker(world.TilePos{X: 3, Y: 2}))
	return w
}

// AddObject adds an object to the game world.
func (w *WorldState) AddObject(obj object.Object) {
	w.Objects = append(w.Objects, obj)
	w.occupancy.Insert(obj.Pos(), len(w.Objects)-1)
}

// Spawn queues an object to be added after the current tick.
// Implements object.Spawner.
func (w *WorldState) Spawn(obj object.Object) {
	w.toSpawn = append(w.toSpawn, obj)
	w.occupancy.Insert(obj.Pos(), len(w.Objects)+len(w.toSpawn)-1)
}

// Occupied reports whether an object stands, or is about to stand, on pos.
func (w *WorldState) Occupied(pos world.TilePos) bool {
	return w.occupancy.Occupied(pos)
}

// Count returns the number of objects of kind k, pending spawns included.
func (w *WorldState) Count(k object.Kind) int {
	n := 0
	for _, obj := range w.Objects {
		if obj.Kind() == k {
			n++
		}
	}
	for _, obj := range w.toSpawn {
		if obj.Kind() == k {
			n++
		}
	}
	return n
}

var _ object.Spawner = (*WorldState)(nil)

// FlushSpawned adds all queued objects to the game and clears the queue.
func (w *WorldState) FlushSpawned() {
	w.Objects = append(w.Objects, w.toSpawn...)
	w.toSpawn = w.toSpawn[:0]
}

// reindex rebuilds the occupancy index after objects were removed.
func (w *WorldState) reindex() {
	w.occupancy.Clear()
	for i, obj := range w.Objects {
		w.occupancy.Insert(obj.Pos(), i)
	}
}

// Tick runs one simulation tick: every object updates once, removals are
// compacted and spawned objects join the world.
func (w *WorldState) Tick(tick uint64) error {
	ctx := object.UpdateContext{
		Tick:    tick,
		Map:     w.Map,
		Pool:    &w.Pool,
		Spawner: w,
	}

	var firstErr error
	removed := false
	kept := w.Objects[:0]
	for _, obj := range w.Objects {
		remove, err := obj.Update(ctx)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		if remove {
			removed = true
			continue
		}
		kept = append(kept, obj)
	}
	clear(w.Objects[len(kept):])
	w.Objects = kept
	w.FlushSpawned()
	if removed {
		w.reindex()
	}
	return firstErr
}

// Draw queues the terrain followed by every object, in world order.
func (w *WorldState) Draw(q *draw.Queue) {
	ctx := object.DrawContext{Queue: q, TileSize: config.TileSize}
	object.DrawTerrain(ctx, w.Map)
	for _, obj := range w.Objects {
		obj.Draw(ctx)
	}
}

// Snapshot builds an immutable snapshot with a freshly drawn queue.
func (w *WorldState) Snapshot() *Snapshot {
	q := draw.NewQueue(w.Map.Width()*w.Map.Height() + len(w.Objects))
	w.Draw(q)
	return &Snapshot{
		Queue:     q,
		Ticks:     w.Clock.Ticks(),
		Resources: w.Pool,
		Objects:   len(w.Objects),
		MapWidth:  w.Map.Width(),
		MapHeight: w.Map.Height(),
	}
}
