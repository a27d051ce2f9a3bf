package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"voxelmaze.ai/internal/catalogs"
	"voxelmaze.ai/internal/generator"
	"voxelmaze.ai/internal/persistence/archive"
	"voxelmaze.ai/internal/persistence/indexdb"
	"voxelmaze.ai/internal/persistence/store"
	"voxelmaze.ai/internal/render"
	"voxelmaze.ai/internal/tuning"
)

func main() {
	var (
		configDir   = flag.String("configs", "./configs", "config directory")
		tuningPath  = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		dataDir     = flag.String("data", "./data", "runtime data directory")
		seed        = flag.Int64("seed", 0, "maze seed (0: tuning seed, or time-derived)")
		size        = flag.String("size", "", "grid extents x,y,z (overrides tuning)")
		emptyBlock  = flag.String("empty", "", "block name for open cells (overrides tuning)")
		wallBlock   = flag.String("wall", "", "block name for walls (overrides tuning)")
		printSlices = flag.Bool("print", false, "print every z slice")
		doArchive   = flag.Bool("archive", false, "copy the snapshot under <data>/archives/<maze id>/")
		disableDB   = flag.Bool("disable_db", false, "disable the sqlite maze index")
		dryRun      = flag.Bool("dry_run", false, "generate and report without writing to the data dir")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "[mazegen] ", log.LstdFlags|log.Lmicroseconds)

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}
	tune, err := loadTuning(*configDir, *tuningPath, logger)
	if err != nil {
		logger.Fatalf("load tuning: %v", err)
	}

	req := generator.Request{
		Size:       tune.Dims(),
		Seed:       tune.Seed,
		EmptyBlock: tune.EmptyBlock,
		WallBlock:  tune.WallBlock,
	}
	if *size != "" {
		dims, err := parseSize(*size)
		if err != nil {
			fmt.Fprintln(os.Stderr, "bad -size:", err)
			os.Exit(2)
		}
		req.Size = dims
	}
	if *seed != 0 {
		req.Seed = *seed
	}
	if *emptyBlock != "" {
		req.EmptyBlock = *emptyBlock
	}
	if *wallBlock != "" {
		req.WallBlock = *wallBlock
	}

	// Local runs are not bound by the request cap the server applies.
	res, err := generator.New(cats, 0).Generate(req)
	if err != nil {
		logger.Fatalf("generate: %v", err)
	}

	fmt.Printf("maze=%s seed=%d size=%dx%dx%d empty=%s(%d) wall=%s(%d)\n",
		res.ID, res.Seed, res.Size[0], res.Size[1], res.Size[2],
		res.EmptyBlock, res.Empty, res.WallBlock, res.Wall)
	fmt.Printf("digs=%d respawns=%d rooms=%d links=%d components=%d perfect=%v duration=%v\n",
		res.Stats.Digs, res.Stats.Respawns, res.Report.Rooms, res.Report.Links,
		res.Report.Components, res.Report.Perfect(), res.Duration)
	fmt.Printf("digest=%s\n", res.Digest)

	if *printSlices || tune.RenderSlices {
		if err := render.Slices[uint16](os.Stdout, res.Grid, res.Wall); err != nil {
			logger.Fatalf("render: %v", err)
		}
	}

	if *dryRun {
		return
	}

	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(*dataDir, "index", "mazes.sqlite"))
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		if err := idx.UpsertCatalogs(cats, tune); err != nil {
			logger.Printf("index catalogs: %v", err)
		}
	}

	st := store.New(*dataDir, cats.Blocks.PaletteDigest, idx)
	path, snap, err := st.Record(res, "cli")
	if err != nil {
		_ = st.Close()
		logger.Fatalf("record: %v", err)
	}
	if err := st.Close(); err != nil {
		logger.Printf("close store: %v", err)
	}
	if idx != nil {
		if err := idx.Close(); err != nil {
			logger.Printf("close index: %v", err)
		}
	}
	fmt.Printf("snapshot=%s\n", path)

	if *doArchive {
		dst, err := archive.ArchiveSnapshot(*dataDir, path, snap)
		if err != nil {
			logger.Fatalf("archive: %v", err)
		}
		fmt.Printf("archive=%s\n", dst)
	}
}

func loadTuning(configDir, path string, logger *log.Logger) (tuning.Tuning, error) {
	if strings.TrimSpace(path) == "" {
		path = filepath.Join(configDir, "tuning.yaml")
	}
	t, err := tuning.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("no tuning at %s; using defaults", path)
			return tuning.Defaults(), nil
		}
		return t, err
	}
	return t, nil
}

// parseSize reads "x,y,z" extents.
func parseSize(s string) ([3]int, error) {
	var out [3]int
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return out, fmt.Errorf("want x,y,z, got %q", s)
	}
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return out, err
		}
		if v < 0 {
			return out, fmt.Errorf("negative extent %d", v)
		}
		out[i] = v
	}
	return out, nil
}
