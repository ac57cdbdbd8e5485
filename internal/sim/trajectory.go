package sim

// Point is a bob position in screen coordinates.
type Point struct {
	X, Y float64
}

// Trajectory is a fixed-capacity ring of the most recent points. Storage
// is allocated once; appending never reallocates.
type Trajectory struct {
	data []Point
	pos  int
	full bool
}

func NewTrajectory(capacity int) *Trajectory {
	if capacity < 1 {
		capacity = 1
	}
	return &Trajectory{data: make([]Point, capacity)}
}

// Append adds a point, overwriting the oldest one once the ring is full.
func (t *Trajectory) Append(x, y float64) {
	t.data[t.pos] = Point{X: x, Y: y}
	t.pos++
	if t.pos >= len(t.data) {
		t.pos = 0
		t.full = true
	}
}

func (t *Trajectory) Clear() {
	t.pos = 0
	t.full = false
}

func (t *Trajectory) Len() int {
	if t.full {
		return len(t.data)
	}
	return t.pos
}

func (t *Trajectory) Cap() int { return len(t.data) }

// Points returns the stored points oldest first. The slice is a copy.
func (t *Trajectory) Points() []Point {
	return t.AppendPoints(make([]Point, 0, t.Len()))
}

// AppendPoints appends the stored points, oldest first, to dst.
func (t *Trajectory) AppendPoints(dst []Point) []Point {
	if t.full {
		dst = append(dst, t.data[t.pos:]...)
	}
	return append(dst, t.data[:t.pos]...)
}

// Last returns the most recent point.
func (t *Trajectory) Last() (Point, bool) {
	if t.Len() == 0 {
		return Point{}, false
	}
	i := t.pos - 1
	if i < 0 {
		i = len(t.data) - 1
	}
	return t.data[i], true
}
