package maze

// CellKind classifies a coordinate by the parity of its components.
type CellKind uint8

const (
	Pillar CellKind = iota
	Link
	Room
)

func (k CellKind) String() string {
	switch k {
	case Room:
		return "room"
	case Link:
		return "link"
	default:
		return "pillar"
	}
}

// KindOf returns the structural role of (x,y,z).
func KindOf(x, y, z int) CellKind {
	even := 0
	for _, v := range [3]int{x, y, z} {
		if v%2 == 0 {
			even++
		}
	}
	switch even {
	case 0:
		return Room
	case 1:
		return Link
	default:
		return Pillar
	}
}

// Report describes the structure of a carved grid.
type Report struct {
	Cells int `json:"cells"`
	Open  int `json:"open"`

	Rooms int `json:"rooms"`
	Links int `json:"links"`

	// Components counts connected groups of open rooms joined by open links.
	Components int `json:"components"`
	// Cycles counts open links that join two rooms already connected.
	Cycles int `json:"cycles"`
	// DanglingLinks counts open links missing an open room on either side.
	DanglingLinks int `json:"dangling_links"`
	// PillarViolations counts pillar cells that are not wall.
	PillarViolations int `json:"pillar_violations"`

	OriginOpen bool `json:"origin_open"`
}

// Perfect reports whether the open rooms form a single spanning tree with
// every pillar intact. An all-wall grid is trivially perfect.
func (r Report) Perfect() bool {
	if r.PillarViolations != 0 || r.DanglingLinks != 0 || r.Cycles != 0 {
		return false
	}
	if r.Rooms == 0 {
		return r.Links == 0
	}
	return r.Components == 1 && r.Links == r.Rooms-1 && r.OriginOpen
}

// Verify inspects g and reports its maze structure. Cells equal to empty are
// open; pillars must equal wall.
func Verify[T comparable](g Grid[T], empty, wall T) Report {
	var r Report

	rooms := map[Pos]int{}
	var links []Pos

	for z := 0; z < g.Depth(); z++ {
		for y := 0; y < g.Height(z); y++ {
			for x := 0; x < g.Width(z, y); x++ {
				r.Cells++
				v := g.At(x, y, z)
				open := v == empty
				if open {
					r.Open++
				}
				switch KindOf(x, y, z) {
				case Room:
					if open {
						rooms[Pos{X: x, Y: y, Z: z}] = len(rooms)
					}
				case Link:
					if open {
						links = append(links, Pos{X: x, Y: y, Z: z})
					}
				default:
					if v != wall {
						r.PillarViolations++
					}
				}
			}
		}
	}
	r.Rooms = len(rooms)
	r.Links = len(links)
	_, r.OriginOpen = rooms[Origin]

	ds := newDisjointSet(len(rooms))
	for _, l := range links {
		a, b := linkEnds(l)
		ia, okA := rooms[a]
		ib, okB := rooms[b]
		if !okA || !okB {
			r.DanglingLinks++
			continue
		}
		if !ds.union(ia, ib) {
			r.Cycles++
		}
	}
	r.Components = ds.sets
	return r
}

// linkEnds returns the two rooms on either side of link l along its even axis.
func linkEnds(l Pos) (Pos, Pos) {
	switch {
	case l.X%2 == 0:
		return Pos{X: l.X - 1, Y: l.Y, Z: l.Z}, Pos{X: l.X + 1, Y: l.Y, Z: l.Z}
	case l.Y%2 == 0:
		return Pos{X: l.X, Y: l.Y - 1, Z: l.Z}, Pos{X: l.X, Y: l.Y + 1, Z: l.Z}
	default:
		return Pos{X: l.X, Y: l.Y, Z: l.Z - 1}, Pos{X: l.X, Y: l.Y, Z: l.Z + 1}
	}
}

type disjointSet struct {
	parent []int
	rank   []uint8
	sets   int
}

func newDisjointSet(n int) *disjointSet {
	ds := &disjointSet{
		parent: make([]int, n),
		rank:   make([]uint8, n),
		sets:   n,
	}
	for i := range ds.parent {
		ds.parent[i] = i
	}
	return ds
}

func (ds *disjointSet) find(i int) int {
	for ds.parent[i] != i {
		ds.parent[i] = ds.parent[ds.parent[i]]
		i = ds.parent[i]
	}
	return i
}

// union merges the sets of a and b and reports false if they were already one.
func (ds *disjointSet) union(a, b int) bool {
	ra, rb := ds.find(a), ds.find(b)
	if ra == rb {
		return false
	}
	switch {
	case ds.rank[ra] < ds.rank[rb]:
		ds.parent[ra] = rb
	case ds.rank[ra] > ds.rank[rb]:
		ds.parent[rb] = ra
	default:
		ds.parent[rb] = ra
		ds.rank[ra]++
	}
	ds.sets--
	return true
}
