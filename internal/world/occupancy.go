package world

// Occupancy indexes which object, by slice index, stands on each tile.
// It is rebuilt from scratch whenever the object list changes; cell memory is
// reused between rebuilds.
type Occupancy struct {
	width  int
	height int
	cells  []int // index+1, 0 means free
	count  int
}

// NewOccupancy creates an empty index covering a width x height map.
func NewOccupancy(width, height int) *Occupancy {
	width = max(width, 0)
	height = max(height, 0)
	return &Occupancy{
		width:  width,
		height: height,
		cells:  make([]int, width*height),
	}
}

// Clear frees every tile without deallocating.
func (o *Occupancy) Clear() {
	clear(o.cells)
	o.count = 0
}

// Insert records index as standing on pos. Positions off the map are ignored
// and a later insert on the same tile replaces the earlier one.
func (o *Occupancy) Insert(pos TilePos, index int) {
	if pos.X < 0 || pos.X >= o.width || pos.Y < 0 || pos.Y >= o.height {
		return
	}
	cell := &o.cells[pos.Y*o.width+pos.X]
	if *cell == 0 {
		o.count++
	}
	*cell = index + 1
}

// At returns the index standing on pos, if any.
func (o *Occupancy) At(pos TilePos) (int, bool) {
	if pos.X < 0 || pos.X >= o.width || pos.Y < 0 || pos.Y >= o.height {
		return 0, false
	}
	v := o.cells[pos.Y*o.width+pos.X]
	return v - 1, v != 0
}

// Occupied reports whether any object stands on pos.
func (o *Occupancy) Occupied(pos TilePos) bool {
	_, ok := o.At(pos)
	return ok
}

// Len returns the number of occupied tiles.
func (o *Occupancy) Len() int {
	return o.count
}
