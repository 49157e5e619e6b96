package object

import (
	"github.com/tomz197/rtsproto/internal/draw"
	"github.com/tomz197/rtsproto/internal/loop/config"
	"github.com/tomz197/rtsproto/internal/world"
)

// Barracks trains workers onto the free tiles around it.
type Barracks struct {
	pos      world.TilePos
	progress int
	Trained  int
}

// NewBarracks creates a barracks standing on pos.
func NewBarracks(pos world.TilePos) *Barracks {
	return &Barracks{pos: pos}
}

// Update counts towards the next worker. Once config.TrainEveryTicks have
// passed, the barracks waits until the pool can pay config.WorkerCost, a
// neighbouring tile is free and the worker cap allows it, then spawns.
func (b *Barracks) Update(ctx UpdateContext) (bool, error) {
	if b.progress < config.TrainEveryTicks {
		b.progress++
	}
	if b.progress < config.TrainEveryTicks {
		return false, nil
	}

	if ctx.Spawner.Count(KindWorker) >= config.MaxWorkers || !ctx.Pool.CanAfford(config.WorkerCost) {
		return false, nil
	}
	pos, ok := b.freeNeighbor(ctx)
	if !ok {
		return false, nil
	}
	if err := ctx.Pool.Spend(config.WorkerCost); err != nil {
		return false, err
	}

	ctx.Spawner.Spawn(NewWorker(pos))
	b.progress = 0
	b.Trained++
	return false, nil
}

// Progress returns how far training has come, in [0, 1].
func (b *Barracks) Progress() float64 {
	return float64(b.progress) / config.TrainEveryTicks
}

func (b *Barracks) freeNeighbor(ctx UpdateContext) (world.TilePos, bool) {
	for _, n := range b.pos.Neighbors() {
		if ctx.Map.IsBuildable(n) && !ctx.Spawner.Occupied(n) {
			return n, true
		}
	}
	return world.TilePos{}, false
}

// Draw queues a full-tile quad.
func (b *Barracks) Draw(ctx DrawContext) {
	x, y := ctx.TileOrigin(b.pos)
	ctx.Queue.PushTexture(draw.TextureBarracks, x, y, ctx.TileSize)
}

func (b *Barracks) Pos() world.TilePos { return b.pos }
func (b *Barracks) Kind() Kind         { return KindBarracks }
