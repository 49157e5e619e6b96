package draw

// Quad is an axis-aligned square with a flat fill color. X and Y are the
// top-left corner and Size the edge length, all in pixels of the target buffer.
type Quad struct {
	X, Y  float64
	Size  float64
	Color Color
}

// Queue is an ordered list of quads. Insertion order is paint order: later
// quads cover earlier ones where they overlap.
// A Queue is built fresh each frame and is not safe for concurrent use.
type Queue struct {
	quads []Quad
}

// NewQueue creates an empty queue with room for n quads.
func NewQueue(n int) *Queue {
	return &Queue{quads: make([]Quad, 0, n)}
}

// Push appends a quad.
func (q *Queue) Push(x, y, size float64, c Color) {
	q.quads = append(q.quads, Quad{X: x, Y: y, Size: size, Color: c})
}

// PushTexture appends a quad colored with the texture's placeholder color.
func (q *Queue) PushTexture(t Texture, x, y, size float64) {
	q.Push(x, y, size, t.Color())
}

// Quads returns the queued quads in insertion order.
// The slice aliases the queue and is only valid until the next Push or Reset.
func (q *Queue) Quads() []Quad {
	if q == nil {
		return nil
	}
	return q.quads
}

// Len returns the number of queued quads.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.quads)
}

// Reset empties the queue, keeping its capacity for the next frame.
func (q *Queue) Reset() {
	q.quads = q.quads[:0]
}

// Clone returns an independent copy of the queue.
func (q *Queue) Clone() *Queue {
	quads := make([]Quad, len(q.quads), len(q.quads)+8)
	copy(quads, q.quads)
	return &Queue{quads: quads}
}
