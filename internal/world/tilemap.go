// Package world holds the discretized map and the resource economy.
package world

import (
	"errors"
	"fmt"

	"github.com/tomz197/rtsproto/internal/draw"
)

// ErrOutOfBounds is returned when a tile position lies outside the map.
var ErrOutOfBounds = errors.New("world: tile out of map bounds")

// Tile is the terrain of one map cell.
type Tile int

const (
	Ground Tile = iota
	Blocked
	GoldMine
	Forest
)

func (t Tile) String() string {
	switch t {
	case Ground:
		return "ground"
	case Blocked:
		return "blocked"
	case GoldMine:
		return "goldmine"
	case Forest:
		return "forest"
	}
	return "unknown"
}

// Texture returns the sprite drawn for the tile. Plain terrain has none.
func (t Tile) Texture() (draw.Texture, bool) {
	switch t {
	case GoldMine:
		return draw.TextureGoldMine, true
	case Forest:
		return draw.TextureForest, true
	}
	return 0, false
}

// Resource returns the resource gathered from the tile, if any.
func (t Tile) Resource() (ResourceKind, bool) {
	switch t {
	case GoldMine:
		return Gold, true
	case Forest:
		return Wood, true
	}
	return 0, false
}

// TilePos addresses a map cell.
type TilePos struct {
	X, Y int
}

// Neighbors returns the four orthogonal neighbors of p, which may lie off the map.
func (p TilePos) Neighbors() [4]TilePos {
	return [4]TilePos{
		{p.X, p.Y - 1},
		{p.X + 1, p.Y},
		{p.X, p.Y + 1},
		{p.X - 1, p.Y},
	}
}

// TileMap is a fixed-size grid of tiles, row-major.
type TileMap struct {
	width  int
	height int
	tiles  []Tile
}

// NewTileMap creates a map filled with Ground. Negative dimensions are treated as zero.
func NewTileMap(width, height int) *TileMap {
	width = max(width, 0)
	height = max(height, 0)
	return &TileMap{
		width:  width,
		height: height,
		tiles:  make([]Tile, width*height),
	}
}

// Width returns the map width in tiles.
func (m *TileMap) Width() int {
	return m.width
}

// Height returns the map height in tiles.
func (m *TileMap) Height() int {
	return m.height
}

// InBounds reports whether pos lies on the map.
func (m *TileMap) InBounds(pos TilePos) bool {
	return pos.X >= 0 && pos.X < m.width && pos.Y >= 0 && pos.Y < m.height
}

func (m *TileMap) index(pos TilePos) (int, error) {
	if !m.InBounds(pos) {
		return 0, fmt.Errorf("%w: (%d, %d) not in %dx%d", ErrOutOfBounds, pos.X, pos.Y, m.width, m.height)
	}
	return pos.Y*m.width + pos.X, nil
}

// Set changes the tile at pos.
func (m *TileMap) Set(pos TilePos, tile Tile) error {
	i, err := m.index(pos)
	if err != nil {
		return err
	}
	m.tiles[i] = tile
	return nil
}

// Get returns the tile at pos.
func (m *TileMap) Get(pos TilePos) (Tile, error) {
	i, err := m.index(pos)
	if err != nil {
		return 0, err
	}
	return m.tiles[i], nil
}

// IsBuildable reports whether something may be placed at pos: only Ground tiles
// on the map qualify.
func (m *TileMap) IsBuildable(pos TilePos) bool {
	tile, err := m.Get(pos)
	return err == nil && tile == Ground
}

// Each calls fn for every tile in row-major order.
func (m *TileMap) Each(fn func(pos TilePos, tile Tile)) {
	for i, tile := range m.tiles {
		fn(TilePos{X: i % m.width, Y: i / m.width}, tile)
	}
}
