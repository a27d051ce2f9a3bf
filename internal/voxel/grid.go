package voxel

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Grid is a dense rectangular box of palette block ids.
type Grid struct {
	size   [3]int   // x, y, z
	blocks []uint16 // x fastest, then y, then z

	dirty bool
	hash  [32]byte
}

// New allocates an AIR-filled (id 0) box. Negative extents are treated as 0.
func New(x, y, z int) *Grid {
	size := [3]int{max(x, 0), max(y, 0), max(z, 0)}
	return &Grid{
		size:   size,
		blocks: make([]uint16, size[0]*size[1]*size[2]),
		dirty:  true,
	}
}

// FromBlocks wraps a flat block slice previously returned by Blocks.
func FromBlocks(size [3]int, blocks []uint16) (*Grid, error) {
	for i, v := range size {
		if v < 0 {
			return nil, fmt.Errorf("negative extent on axis %d: %d", i, v)
		}
	}
	if n := size[0] * size[1] * size[2]; n != len(blocks) {
		return nil, fmt.Errorf("block count %d does not match size %v (%d)", len(blocks), size, n)
	}
	return &Grid{size: size, blocks: blocks, dirty: true}, nil
}

func (g *Grid) Size() [3]int { return g.size }
func (g *Grid) Cells() int   { return len(g.blocks) }

// Blocks exposes the backing slice. Writes through it bypass the digest cache.
func (g *Grid) Blocks() []uint16 { return g.blocks }

func (g *Grid) index(x, y, z int) int {
	return x + g.size[0]*(y+g.size[1]*z)
}

func (g *Grid) Depth() int         { return g.size[2] }
func (g *Grid) Height(int) int     { return g.size[1] }
func (g *Grid) Width(_, _ int) int { return g.size[0] }

func (g *Grid) At(x, y, z int) uint16 {
	return g.blocks[g.index(x, y, z)]
}

func (g *Grid) Set(x, y, z int, b uint16) {
	i := g.index(x, y, z)
	if g.blocks[i] == b {
		return
	}
	g.blocks[i] = b
	g.dirty = true
}

// Count returns how many cells hold b.
func (g *Grid) Count(b uint16) int {
	n := 0
	for _, v := range g.blocks {
		if v == b {
			n++
		}
	}
	return n
}

// Digest hashes the extents and every block id.
func (g *Grid) Digest() [32]byte {
	if g.dirty || g.hash == ([32]byte{}) {
		h := sha256.New()
		var tmp [8]byte
		for _, v := range g.size {
			binary.LittleEndian.PutUint64(tmp[:], uint64(v))
			h.Write(tmp[:])
		}
		for _, v := range g.blocks {
			binary.LittleEndian.PutUint16(tmp[:2], v)
			h.Write(tmp[:2])
		}
		copy(g.hash[:], h.Sum(nil))
		g.dirty = false
	}
	return g.hash
}

func (g *Grid) DigestHex() string {
	d := g.Digest()
	return hex.EncodeToString(d[:])
}
