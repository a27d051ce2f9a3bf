package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"voxelmaze.ai/internal/maze"
	persistlog "voxelmaze.ai/internal/persistence/log"
	"voxelmaze.ai/internal/persistence/snapshot"
	"voxelmaze.ai/internal/render"
	"voxelmaze.ai/internal/voxel"
)

var errNotLogged = errors.New("maze not found in generation logs")

func main() {
	var (
		snapPath    = flag.String("snapshot", "", "path to .snap.zst")
		eventsDir   = flag.String("events", "", "events dir containing generations-*.jsonl.zst (optional)")
		printSlices = flag.Bool("print", false, "print every z slice of the stored maze")
	)
	flag.Parse()

	if *snapPath == "" {
		fmt.Fprintln(os.Stderr, "missing -snapshot")
		os.Exit(2)
	}

	snap, err := snapshot.ReadSnapshot(*snapPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read snapshot:", err)
		os.Exit(1)
	}

	fmt.Printf("snapshot v%d maze=%s created=%s seed=%d size=%dx%dx%d empty=%s(%d) wall=%s(%d)\n",
		snap.Header.Version, snap.Header.MazeID, snap.Header.CreatedAt, snap.Seed,
		snap.Size[0], snap.Size[1], snap.Size[2],
		snap.EmptyBlock, snap.Empty, snap.WallBlock, snap.Wall)

	stored, rep, err := check(snap)
	if err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(1)
	}

	if *printSlices {
		if err := render.Slices[uint16](os.Stdout, stored, snap.Wall); err != nil {
			fmt.Fprintln(os.Stderr, "render:", err)
			os.Exit(1)
		}
	}

	if *eventsDir != "" {
		files, err := listEventFiles(*eventsDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, "list events:", err)
			os.Exit(1)
		}
		if err := checkLogged(files, snap); err != nil {
			fmt.Fprintln(os.Stderr, "events:", err)
			os.Exit(1)
		}
	}

	fmt.Printf("replay ok: rooms=%d links=%d digest=%s\n", rep.Rooms, rep.Links, snap.Digest)
}

// check verifies the stored blocks against the recorded digest and stats, then
// regenerates from the recorded seed and requires an identical grid.
func check(snap snapshot.SnapshotV1) (*voxel.Grid, maze.Report, error) {
	stored, err := voxel.FromBlocks(snap.Size, snap.Blocks)
	if err != nil {
		return nil, maze.Report{}, err
	}
	if got := stored.DigestHex(); got != snap.Digest {
		return nil, maze.Report{}, fmt.Errorf("stored digest mismatch: got=%s want=%s", got, snap.Digest)
	}

	rep := maze.Verify[uint16](stored, snap.Empty, snap.Wall)
	if !rep.Perfect() {
		return nil, rep, fmt.Errorf("stored maze is not perfect: %+v", rep)
	}
	if rep.Rooms != snap.Stats.Rooms || rep.Links != snap.Stats.Links {
		return nil, rep, fmt.Errorf("stats mismatch: rooms=%d links=%d, recorded rooms=%d links=%d",
			rep.Rooms, rep.Links, snap.Stats.Rooms, snap.Stats.Links)
	}

	fresh := voxel.New(snap.Size[0], snap.Size[1], snap.Size[2])
	st := maze.New(snap.Empty, snap.Wall).Generate(fresh, rand.New(rand.NewSource(snap.Seed)))
	if got := fresh.DigestHex(); got != snap.Digest {
		return nil, rep, fmt.Errorf("regenerated digest mismatch for seed %d: got=%s want=%s", snap.Seed, got, snap.Digest)
	}
	if st.Digs != snap.Stats.Digs || st.Respawns != snap.Stats.Respawns {
		return nil, rep, fmt.Errorf("regenerated stats digs=%d respawns=%d, recorded digs=%d respawns=%d",
			st.Digs, st.Respawns, snap.Stats.Digs, snap.Stats.Respawns)
	}
	return stored, rep, nil
}

func listEventFiles(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "generations-") && strings.HasSuffix(name, ".jsonl.zst") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

// checkLogged finds the log entry for snap and compares it.
func checkLogged(files []string, snap snapshot.SnapshotV1) error {
	for _, path := range files {
		e, ok, err := findEntry(path, snap.Header.MazeID)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if e.Digest != snap.Digest {
			return fmt.Errorf("digest mismatch in %s: log=%s snapshot=%s", filepath.Base(path), e.Digest, snap.Digest)
		}
		if e.Seed != snap.Seed || e.Size != snap.Size {
			return fmt.Errorf("log entry seed=%d size=%v, snapshot seed=%d size=%v", e.Seed, e.Size, snap.Seed, snap.Size)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", errNotLogged, snap.Header.MazeID)
}

func findEntry(path, mazeID string) (persistlog.Entry, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return persistlog.Entry{}, false, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return persistlog.Entry{}, false, err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	for sc.Scan() {
		var e persistlog.Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return e, false, fmt.Errorf("%s: unmarshal: %w", filepath.Base(path), err)
		}
		if e.MazeID == mazeID {
			return e, true, nil
		}
	}
	return persistlog.Entry{}, false, sc.Err()
}
