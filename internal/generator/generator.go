// Package generator turns a generation request into a carved voxel maze.
package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"voxelmaze.ai/internal/catalogs"
	"voxelmaze.ai/internal/maze"
	"voxelmaze.ai/internal/voxel"
)

var (
	ErrBadSize      = errors.New("bad size")
	ErrTooLarge     = errors.New("grid too large")
	ErrUnknownBlock = errors.New("unknown block")
)

type Request struct {
	Size [3]int
	// Seed 0 picks a time-derived seed; the chosen seed is reported back.
	Seed       int64
	EmptyBlock string
	WallBlock  string
}

type Result struct {
	ID        string
	CreatedAt time.Time
	Duration  time.Duration

	Seed       int64
	Size       [3]int
	EmptyBlock string
	WallBlock  string
	Empty      uint16
	Wall       uint16

	Grid   *voxel.Grid
	Stats  maze.Stats
	Report maze.Report
	Digest string
}

type Generator struct {
	blocks   *catalogs.BlockCatalog
	maxCells int

	now func() time.Time
}

// New returns a Generator resolving block names through cats. maxCells <= 0
// disables the size cap.
func New(cats *catalogs.Catalogs, maxCells int) *Generator {
	return &Generator{
		blocks:   &cats.Blocks,
		maxCells: maxCells,
		now:      time.Now,
	}
}

func (g *Generator) Blocks() *catalogs.BlockCatalog { return g.blocks }

// Check validates req without generating.
func (g *Generator) Check(req Request) (empty, wall uint16, err error) {
	cells := 1
	for i, v := range req.Size {
		if v < 0 {
			return 0, 0, fmt.Errorf("%w: size[%d]=%d", ErrBadSize, i, v)
		}
		if g.maxCells > 0 && v > g.maxCells {
			return 0, 0, fmt.Errorf("%w: size[%d]=%d exceeds %d cells", ErrTooLarge, i, v, g.maxCells)
		}
		cells *= v
		if g.maxCells > 0 && cells > g.maxCells {
			return 0, 0, fmt.Errorf("%w: %v exceeds %d cells", ErrTooLarge, req.Size, g.maxCells)
		}
	}
	empty, wall, err = g.blocks.Resolve(req.EmptyBlock, req.WallBlock)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrUnknownBlock, err)
	}
	return empty, wall, nil
}

// Generate carves a new maze for req.
func (g *Generator) Generate(req Request) (Result, error) {
	empty, wall, err := g.Check(req)
	if err != nil {
		return Result{}, err
	}

	seed := req.Seed
	if seed == 0 {
		seed = g.now().UnixNano()
	}

	start := g.now()
	grid := voxel.New(req.Size[0], req.Size[1], req.Size[2])
	st := maze.New(empty, wall).Generate(grid, rand.New(rand.NewSource(seed)))
	dur := g.now().Sub(start)

	return Result{
		ID:         uuid.NewString(),
		CreatedAt:  start.UTC(),
		Duration:   dur,
		Seed:       seed,
		Size:       req.Size,
		EmptyBlock: req.EmptyBlock,
		WallBlock:  req.WallBlock,
		Empty:      empty,
		Wall:       wall,
		Grid:       grid,
		Stats:      st,
		Report:     maze.Verify[uint16](grid, empty, wall),
		Digest:     grid.DigestHex(),
	}, nil
}
