// Package maze carves perfect mazes into 3D voxel grids.
//
// Cells whose coordinates are all odd are rooms, cells with exactly one even
// coordinate are corridor links between two rooms, and everything else is a
// pillar that stays wall. The digger walks a randomized depth-first carve from
// (1,1,1); when the digging head is boxed in it rescans the whole grid for an
// already-open room that can still dig and respawns there.
package maze

import (
	"math/rand"
	"time"
)

// Rand supplies uniform indices in [0, n) for n > 0. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Pos is a grid coordinate.
type Pos struct {
	X, Y, Z int
}

func (p Pos) add(d Pos, k int) Pos {
	return Pos{X: p.X + d.X*k, Y: p.Y + d.Y*k, Z: p.Z + d.Z*k}
}

// Order matters: a seeded Rand reproduces a maze only if candidates are
// enumerated identically.
var dirs = [6]Pos{
	{X: -1}, {X: +1},
	{Y: -1}, {Y: +1},
	{Z: -1}, {Z: +1},
}

// Origin is where digging starts.
var Origin = Pos{X: 1, Y: 1, Z: 1}

// Stats counts what a Generate call did.
type Stats struct {
	// Digs is the number of successful two-cell carves.
	Digs int `json:"digs"`
	// Respawns is the number of times the head jumped to a rescanned room.
	Respawns int `json:"respawns"`
}

// Digger carves mazes using two sentinel cell values.
type Digger[T comparable] struct {
	empty T
	wall  T
}

// New returns a Digger that marks open cells with empty and solid cells with
// wall. The two values should differ.
func New[T comparable](empty, wall T) *Digger[T] {
	return &Digger[T]{empty: empty, wall: wall}
}

func (d *Digger[T]) Empty() T { return d.empty }
func (d *Digger[T]) Wall() T  { return d.wall }

// Generate resets every cell of g to wall and carves a maze into it in place.
//
// Grids with any extent <= 2 are left all wall. A nil rng is replaced with a
// time-seeded source.
func (d *Digger[T]) Generate(g Grid[T], rng Rand) Stats {
	var st Stats

	d.fill(g)

	if g.Depth() <= 2 || g.Height(0) <= 2 || g.Width(0, 0) <= 2 {
		return st
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	seed := Origin
	d.set(g, seed)

	var buf []Pos
	for {
		buf = d.diggable(g, seed, buf[:0])
		if len(buf) > 0 {
			dir := buf[rng.Intn(len(buf))]
			d.set(g, seed.add(dir, 1))
			seed = seed.add(dir, 2)
			d.set(g, seed)
			st.Digs++
			continue
		}

		candidates := d.respawnCandidates(g)
		if len(candidates) == 0 {
			return st
		}
		seed = candidates[rng.Intn(len(candidates))]
		d.set(g, seed)
		st.Respawns++
	}
}

func (d *Digger[T]) fill(g Grid[T]) {
	for z := 0; z < g.Depth(); z++ {
		for y := 0; y < g.Height(z); y++ {
			for x := 0; x < g.Width(z, y); x++ {
				g.Set(x, y, z, d.wall)
			}
		}
	}
}

// set opens p if it lies inside g.
func (d *Digger[T]) set(g Grid[T], p Pos) {
	if inRange(g, p.X, p.Y, p.Z) {
		g.Set(p.X, p.Y, p.Z, d.empty)
	}
}

// diggable appends to out the directions whose two-step neighbour of p is
// in range and still wall.
func (d *Digger[T]) diggable(g Grid[T], p Pos, out []Pos) []Pos {
	for _, dir := range dirs {
		c := p.add(dir, 2)
		if inRange(g, c.X, c.Y, c.Z) && g.At(c.X, c.Y, c.Z) == d.wall {
			out = append(out, dir)
		}
	}
	return out
}

// respawnCandidates scans every room of g, z-major, for open rooms that can
// still dig.
func (d *Digger[T]) respawnCandidates(g Grid[T]) []Pos {
	var (
		out []Pos
		buf [len(dirs)]Pos
	)
	for z := 1; z < g.Depth(); z += 2 {
		for y := 1; y < g.Height(z); y += 2 {
			for x := 1; x < g.Width(z, y); x += 2 {
				if g.At(x, y, z) != d.empty {
					continue
				}
				p := Pos{X: x, Y: y, Z: z}
				if len(d.diggable(g, p, buf[:0])) > 0 {
					out = append(out, p)
				}
			}
		}
	}
	return out
}
