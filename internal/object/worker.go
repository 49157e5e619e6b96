package object

import (
	"github.com/tomz197/rtsproto/internal/draw"
	"github.com/tomz197/rtsproto/internal/loop/config"
	"github.com/tomz197/rtsproto/internal/world"
)

// Worker gathers from an adjacent gold mine or forest.
type Worker struct {
	pos      world.TilePos
	progress int // Ticks since the last gather
	Gathered uint32
}

// NewWorker creates a worker standing on pos.
func NewWorker(pos world.TilePos) *Worker {
	return &Worker{pos: pos}
}

// Update gathers config.HarvestAmount every config.HarvestEveryTicks ticks.
// Neighbours are tried north, east, south, west; the first resource tile wins.
// A worker with nothing adjacent idles without building up progress.
func (w *Worker) Update(ctx UpdateContext) (bool, error) {
	kind, ok := w.source(ctx.Map)
	if !ok {
		w.progress = 0
		return false, nil
	}

	w.progress++
	if w.progress < config.HarvestEveryTicks {
		return false, nil
	}
	w.progress = 0
	ctx.Pool.Add(kind, config.HarvestAmount)
	w.Gathered += config.HarvestAmount
	return false, nil
}

func (w *Worker) source(m *world.TileMap) (world.ResourceKind, bool) {
	for _, n := range w.pos.Neighbors() {
		tile, err := m.Get(n)
		if err != nil {
			continue
		}
		if kind, ok := tile.Resource(); ok {
			return kind, true
		}
	}
	return 0, false
}

// Draw queues a half-size quad centred in the worker's tile.
func (w *Worker) Draw(ctx DrawContext) {
	x, y := ctx.TileOrigin(w.pos)
	inset := ctx.TileSize / 4
	ctx.Queue.PushTexture(draw.TextureWorker, x+inset, y+inset, ctx.TileSize/2)
}

func (w *Worker) Pos() world.TilePos { return w.pos }
func (w *Worker) Kind() Kind         { return KindWorker }
