package encoding

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"voxelmaze.ai/internal/maze"
	"voxelmaze.ai/internal/voxel"
)

func TestRLE_RoundTrip(t *testing.T) {
	in := make([]uint16, 0, 200)
	in = append(in, 1, 1, 1, 2, 2, 3)
	for i := 0; i < 50; i++ {
		in = append(in, 7)
	}
	in = append(in, 9, 10, 10, 10)

	enc := EncodeRLE(in)
	out, err := DecodeRLE(enc, -1)
	if err != nil {
		t.Fatalf("DecodeRLE: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("len mismatch: got %d want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("mismatch at %d: got %d want %d", i, out[i], in[i])
		}
	}
}

func TestRLE_DecodeLimit(t *testing.T) {
	enc := EncodeRLE(make([]uint16, 100))
	if _, err := DecodeRLE(enc, 99); err == nil {
		t.Fatalf("expected limit error")
	}
	if out, err := DecodeRLE(enc, 100); err != nil || len(out) != 100 {
		t.Fatalf("DecodeRLE at limit: len=%d err=%v", len(out), err)
	}
}

func TestGrid_RoundTripCarvedMaze(t *testing.T) {
	g := voxel.New(11, 9, 7)
	maze.New[uint16](0, 3).Generate(g, rand.New(rand.NewSource(4)))

	enc := EncodeGrid(g)
	back, err := DecodeGrid(g.Size(), enc)
	if err != nil {
		t.Fatalf("DecodeGrid: %v", err)
	}
	if diff := cmp.Diff(g.Blocks(), back.Blocks()); diff != "" {
		t.Fatalf("blocks mismatch (-want +got):\n%s", diff)
	}
	if back.DigestHex() != g.DigestHex() {
		t.Fatalf("digest mismatch")
	}
}

func TestGrid_DecodeWrongSize(t *testing.T) {
	enc := EncodeGrid(voxel.New(3, 3, 3))
	if _, err := DecodeGrid([3]int{3, 3, 2}, enc); err == nil {
		t.Fatalf("expected size mismatch error")
	}
	if _, err := DecodeGrid([3]int{4, 3, 3}, enc); err == nil {
		t.Fatalf("expected count mismatch error")
	}
}
