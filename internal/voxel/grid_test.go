package voxel

import (
	"math/rand"
	"testing"

	"voxelmaze.ai/internal/maze"
)

func TestGrid_IndexOrderXFastest(t *testing.T) {
	g := New(3, 4, 5)
	g.Set(2, 0, 0, 7)
	g.Set(0, 1, 0, 8)
	g.Set(0, 0, 1, 9)

	b := g.Blocks()
	if b[2] != 7 || b[3] != 8 || b[12] != 9 {
		t.Fatalf("unexpected layout: b[2]=%d b[3]=%d b[12]=%d", b[2], b[3], b[12])
	}
	if g.At(0, 0, 1) != 9 {
		t.Fatalf("At(0,0,1)=%d want 9", g.At(0, 0, 1))
	}
}

func TestGrid_DigestTracksWrites(t *testing.T) {
	g := New(4, 4, 4)
	d0 := g.Digest()
	g.Set(1, 1, 1, 3)
	d1 := g.Digest()
	if d0 == d1 {
		t.Fatalf("digest unchanged after write")
	}
	g.Set(1, 1, 1, 0)
	if g.Digest() != d0 {
		t.Fatalf("digest not restored after reverting write")
	}

	other := New(4, 4, 4)
	if other.DigestHex() != g.DigestHex() {
		t.Fatalf("equal grids hash differently")
	}
	if New(2, 8, 4).Digest() == d0 {
		t.Fatalf("differently shaped grids share a digest")
	}
}

func TestFromBlocks_Validates(t *testing.T) {
	if _, err := FromBlocks([3]int{2, 2, 2}, make([]uint16, 7)); err == nil {
		t.Fatalf("expected count mismatch error")
	}
	if _, err := FromBlocks([3]int{-1, 2, 2}, nil); err == nil {
		t.Fatalf("expected negative extent error")
	}
	g, err := FromBlocks([3]int{1, 2, 3}, make([]uint16, 6))
	if err != nil {
		t.Fatalf("FromBlocks: %v", err)
	}
	if g.Cells() != 6 {
		t.Fatalf("cells=%d want 6", g.Cells())
	}
}

func TestGrid_CarvedByDigger(t *testing.T) {
	const air, stone = 0, 5
	g := New(9, 7, 5)
	maze.New[uint16](air, stone).Generate(g, rand.New(rand.NewSource(11)))

	r := maze.Verify[uint16](g, air, stone)
	if !r.Perfect() {
		t.Fatalf("not perfect: %+v", r)
	}
	if r.Rooms != 4*3*2 {
		t.Fatalf("rooms=%d want 24", r.Rooms)
	}
	if got := g.Count(air) + g.Count(stone); got != g.Cells() {
		t.Fatalf("air+stone=%d want %d", got, g.Cells())
	}
}
