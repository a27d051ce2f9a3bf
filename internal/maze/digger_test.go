package maze

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const (
	testEmpty = 1
	testWall  = 0
)

func filled(dx, dy, dz int, v int) Slices[int] {
	s := NewSlices[int](dx, dy, dz)
	for z := range s {
		for y := range s[z] {
			for x := range s[z][y] {
				s[z][y][x] = v
			}
		}
	}
	return s
}

func countValue(s Slices[int], v int) int {
	n := 0
	for z := range s {
		for y := range s[z] {
			for x := range s[z][y] {
				if s[z][y][x] == v {
					n++
				}
			}
		}
	}
	return n
}

// firstRand always picks index 0 and records every n it was asked for.
type firstRand struct{ asked []int }

func (r *firstRand) Intn(n int) int {
	r.asked = append(r.asked, n)
	return 0
}

func TestGenerate_DegenerateSizesStayWall(t *testing.T) {
	sizes := [][3]int{
		{0, 0, 0}, {2, 2, 2}, {1, 9, 9}, {9, 2, 9}, {9, 9, 2}, {3, 3, 0}, {5, 2, 5},
	}
	d := New(testEmpty, testWall)
	for _, sz := range sizes {
		g := filled(sz[0], sz[1], sz[2], 7)
		st := d.Generate(g, rand.New(rand.NewSource(1)))
		total := sz[0] * sz[1] * sz[2]
		if got := countValue(g, testWall); got != total {
			t.Fatalf("size %v: wall cells=%d want %d", sz, got, total)
		}
		if st.Digs != 0 || st.Respawns != 0 {
			t.Fatalf("size %v: stats=%+v want zero", sz, st)
		}
	}
}

func TestGenerate_TwoCubeAllWall(t *testing.T) {
	g := filled(2, 2, 2, testEmpty)
	New(testEmpty, testWall).Generate(g, rand.New(rand.NewSource(3)))
	want := filled(2, 2, 2, testWall)
	if diff := cmp.Diff(want, g); diff != "" {
		t.Fatalf("grid mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_ThreeCubeOpensOnlyOrigin(t *testing.T) {
	for seed := int64(0); seed < 5; seed++ {
		g := filled(3, 3, 3, 5)
		st := New(testEmpty, testWall).Generate(g, rand.New(rand.NewSource(seed)))

		want := filled(3, 3, 3, testWall)
		want[1][1][1] = testEmpty
		if diff := cmp.Diff(want, g); diff != "" {
			t.Fatalf("seed %d: grid mismatch (-want +got):\n%s", seed, diff)
		}
		if st.Digs != 0 || st.Respawns != 0 {
			t.Fatalf("seed %d: stats=%+v want zero", seed, st)
		}
	}
}

func TestGenerate_SevenCubeIsSpanningTree(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		g := NewSlices[int](7, 7, 7)
		st := New(testEmpty, testWall).Generate(g, rand.New(rand.NewSource(seed)))

		r := Verify[int](g, testEmpty, testWall)
		if r.Rooms != 27 {
			t.Fatalf("seed %d: rooms=%d want 27", seed, r.Rooms)
		}
		if r.Links != 26 {
			t.Fatalf("seed %d: links=%d want 26", seed, r.Links)
		}
		if !r.Perfect() {
			t.Fatalf("seed %d: not perfect: %+v", seed, r)
		}
		if st.Digs != 26 {
			t.Fatalf("seed %d: digs=%d want 26", seed, st.Digs)
		}
		if r.Open != 27+26 {
			t.Fatalf("seed %d: open=%d want %d", seed, r.Open, 27+26)
		}
	}
}

func TestGenerate_PillarsAndTreeAcrossSizes(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for dz := 3; dz <= 8; dz++ {
		for dy := 3; dy <= 8; dy++ {
			for dx := 3; dx <= 8; dx++ {
				g := filled(dx, dy, dz, 9)
				New(testEmpty, testWall).Generate(g, rng)

				r := Verify[int](g, testEmpty, testWall)
				if r.PillarViolations != 0 {
					t.Fatalf("%dx%dx%d: pillar violations=%d", dx, dy, dz, r.PillarViolations)
				}
				if !r.Perfect() {
					t.Fatalf("%dx%dx%d: not perfect: %+v", dx, dy, dz, r)
				}
				wantRooms := (dx / 2) * (dy / 2) * (dz / 2)
				if r.Rooms != wantRooms {
					t.Fatalf("%dx%dx%d: rooms=%d want %d", dx, dy, dz, r.Rooms, wantRooms)
				}
				if r.Open+countValue(g, testWall) != dx*dy*dz {
					t.Fatalf("%dx%dx%d: cells hold values other than empty/wall", dx, dy, dz)
				}
			}
		}
	}
}

func TestGenerate_FirstChoiceFromOrigin(t *testing.T) {
	g := NewSlices[int](5, 5, 5)
	r := &firstRand{}
	New(testEmpty, testWall).Generate(g, r)

	if len(r.asked) == 0 || r.asked[0] != 3 {
		t.Fatalf("first choice over %v, want 3 directions", r.asked)
	}
	// Index 0 among (+x,+y,+z) is +x.
	if g[1][1][2] != testEmpty || g[1][1][3] != testEmpty {
		t.Fatalf("expected first dig along +x")
	}
	for _, n := range r.asked {
		if n <= 0 {
			t.Fatalf("Intn called with n=%d", n)
		}
	}
	if rep := Verify[int](g, testEmpty, testWall); !rep.Perfect() || rep.Rooms != 8 {
		t.Fatalf("report=%+v", rep)
	}
}

func TestGenerate_SameSeedSameMaze(t *testing.T) {
	d := New(testEmpty, testWall)
	a := NewSlices[int](11, 9, 7)
	b := NewSlices[int](11, 9, 7)
	sa := d.Generate(a, rand.New(rand.NewSource(99)))
	sb := d.Generate(b, rand.New(rand.NewSource(99)))
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("same seed produced different mazes (-a +b):\n%s", diff)
	}
	if sa != sb {
		t.Fatalf("stats differ: %+v vs %+v", sa, sb)
	}
}

func TestGenerate_RegenerateResetsPriorMaze(t *testing.T) {
	d := New(testEmpty, testWall)
	g := NewSlices[int](9, 9, 9)
	d.Generate(g, rand.New(rand.NewSource(1)))
	d.Generate(g, rand.New(rand.NewSource(2)))

	fresh := NewSlices[int](9, 9, 9)
	d.Generate(fresh, rand.New(rand.NewSource(2)))
	if diff := cmp.Diff(fresh, g); diff != "" {
		t.Fatalf("regenerated grid kept state from the previous maze (-fresh +got):\n%s", diff)
	}
}

func TestGenerate_NilRand(t *testing.T) {
	g := NewSlices[int](7, 5, 5)
	New(testEmpty, testWall).Generate(g, nil)
	if r := Verify[int](g, testEmpty, testWall); !r.Perfect() || r.Rooms != 3*2*2 {
		t.Fatalf("report=%+v", r)
	}
}

func TestGenerate_StringCells(t *testing.T) {
	g := NewSlices[string](5, 7, 5)
	New(".", "#").Generate(g, rand.New(rand.NewSource(8)))
	r := Verify[string](g, ".", "#")
	if !r.Perfect() || r.Rooms != 2*3*2 {
		t.Fatalf("report=%+v", r)
	}
	if g[0][0][0] != "#" {
		t.Fatalf("corner=%q want wall", g[0][0][0])
	}
}

func TestGenerate_RaggedGridStaysInBounds(t *testing.T) {
	g := filled(9, 9, 9, 4)
	g[3] = g[3][:5]
	g[5][7] = g[5][7][:4]
	g[6] = g[6][:2]

	New(testEmpty, testWall).Generate(g, rand.New(rand.NewSource(5)))

	if g[1][1][1] != testEmpty {
		t.Fatalf("origin not open")
	}
	r := Verify[int](g, testEmpty, testWall)
	if r.PillarViolations != 0 {
		t.Fatalf("pillar violations=%d", r.PillarViolations)
	}
	if r.Cycles != 0 {
		t.Fatalf("cycles=%d", r.Cycles)
	}
	if countValue(g, 4) != 0 {
		t.Fatalf("cells left unreset")
	}
}
