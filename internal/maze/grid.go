package maze

// Grid is a mutable 3D container addressed as grid[z][y][x].
//
// Extents are queried per slice so ragged containers stay addressable; the
// digger re-reads them on every bounds check and never touches a coordinate
// outside them.
type Grid[T comparable] interface {
	// Depth is the extent along z.
	Depth() int
	// Height is the extent along y of slice z.
	Height(z int) int
	// Width is the extent along x of row (z, y).
	Width(z, y int) int

	At(x, y, z int) T
	Set(x, y, z int, v T)
}

// Slices adapts nested slices indexed [z][y][x] to Grid.
type Slices[T comparable] [][][]T

// NewSlices allocates a rectangular Slices box of the given extents.
func NewSlices[T comparable](dx, dy, dz int) Slices[T] {
	if dx < 0 {
		dx = 0
	}
	if dy < 0 {
		dy = 0
	}
	if dz < 0 {
		dz = 0
	}
	s := make(Slices[T], dz)
	for z := range s {
		s[z] = make([][]T, dy)
		for y := range s[z] {
			s[z][y] = make([]T, dx)
		}
	}
	return s
}

func (s Slices[T]) Depth() int         { return len(s) }
func (s Slices[T]) Height(z int) int   { return len(s[z]) }
func (s Slices[T]) Width(z, y int) int { return len(s[z][y]) }

func (s Slices[T]) At(x, y, z int) T     { return s[z][y][x] }
func (s Slices[T]) Set(x, y, z int, v T) { s[z][y][x] = v }

// inRange reports whether (x,y,z) addresses a cell of g. Slice extents are
// only queried once the outer coordinate is known to exist.
func inRange[T comparable](g Grid[T], x, y, z int) bool {
	if x < 0 || y < 0 || z < 0 {
		return false
	}
	if z >= g.Depth() || y >= g.Height(z) || x >= g.Width(z, y) {
		return false
	}
	return true
}
