package object

import (
	"errors"
	"fmt"

	"github.com/tomz197/rtsproto/internal/draw"
	"github.com/tomz197/rtsproto/internal/loop/config"
	"github.com/tomz197/rtsproto/internal/world"
)

// ErrUnknownKind is returned for an unrecognised object kind.
var ErrUnknownKind = errors.New("object: unknown kind")

// Kind identifies a placeable object type.
type Kind int

const (
	KindWorker Kind = iota
	KindBarracks
)

func (k Kind) String() string {
	switch k {
	case KindWorker:
		return "worker"
	case KindBarracks:
		return "barracks"
	}
	return "unknown"
}

// ParseKind maps a kind name as produced by String back to its Kind.
func ParseKind(name string) (Kind, error) {
	for _, k := range []Kind{KindWorker, KindBarracks} {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Cost returns what placing one object of kind k takes from the pool.
func (k Kind) Cost() world.ResourcePool {
	switch k {
	case KindWorker:
		return config.WorkerCost
	case KindBarracks:
		return config.BarracksCost
	}
	return world.ResourcePool{}
}

// New creates an object of kind k standing on pos.
func New(k Kind, pos world.TilePos) (Object, error) {
	switch k {
	case KindWorker:
		return NewWorker(pos), nil
	case KindBarracks:
		return NewBarracks(pos), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
}

// Spawner gives objects access to the rest of the world during update.
// Objects spawned during a tick count as present for Occupied and Count
// immediately, even though they only start updating on the next tick.
type Spawner interface {
	Spawn(obj Object)
	Occupied(pos world.TilePos) bool
	Count(k Kind) int
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Tick    uint64 // 1-based simulation tick being processed
	Map     *world.TileMap
	Pool    *world.ResourcePool
	Spawner Spawner
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Queue    *draw.Queue
	TileSize float64 // Edge of one tile in pixels
}

// TileOrigin returns the pixel position of the top-left corner of pos.
func (ctx DrawContext) TileOrigin(pos world.TilePos) (x, y float64) {
	return float64(pos.X) * ctx.TileSize, float64(pos.Y) * ctx.TileSize
}

// Object is a drawable and updatable game entity that occupies one tile.
type Object interface {
	// Update advances the object by one simulation tick. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool, err error)

	// Draw appends the object's quads to ctx.Queue.
	Draw(ctx DrawContext)

	Pos() world.TilePos
	Kind() Kind
}

// blockedColor fills impassable terrain.
var blockedColor = draw.Color{R: 0.3, G: 0.3, B: 0.3}

// DrawTerrain queues one full-tile quad per textured or blocked tile.
// Ground is left to the background.
func DrawTerrain(ctx DrawContext, m *world.TileMap) {
	m.Each(func(pos world.TilePos, tile world.Tile) {
		x, y := ctx.TileOrigin(pos)
		if tex, ok := tile.Texture(); ok {
			ctx.Queue.PushTexture(tex, x, y, ctx.TileSize)
			return
		}
		if tile == world.Blocked {
			ctx.Queue.Push(x, y, ctx.TileSize, blockedColor)
		}
	})
}
