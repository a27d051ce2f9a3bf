// Package store persists generated mazes: a snapshot file, a JSONL log entry
// and an index row per maze.
package store

import (
	"time"

	"voxelmaze.ai/internal/generator"
	"voxelmaze.ai/internal/persistence/indexdb"
	persistlog "voxelmaze.ai/internal/persistence/log"
	"voxelmaze.ai/internal/persistence/snapshot"
)

type Store struct {
	dataDir       string
	paletteDigest string

	log *persistlog.GenerationLogger
	idx *indexdb.SQLiteIndex
}

// New returns a Store rooted at dataDir. idx may be nil.
func New(dataDir, paletteDigest string, idx *indexdb.SQLiteIndex) *Store {
	return &Store{
		dataDir:       dataDir,
		paletteDigest: paletteDigest,
		log:           persistlog.NewGenerationLogger(dataDir),
		idx:           idx,
	}
}

func (s *Store) Close() error {
	return s.log.Close()
}

// Snapshot converts a generation result into its snapshot form.
func Snapshot(res generator.Result, paletteDigest string) snapshot.SnapshotV1 {
	return snapshot.SnapshotV1{
		Header: snapshot.Header{
			Version:   snapshot.Version,
			MazeID:    res.ID,
			CreatedAt: res.CreatedAt.Format(time.RFC3339Nano),
		},
		Seed:          res.Seed,
		Size:          res.Size,
		EmptyBlock:    res.EmptyBlock,
		WallBlock:     res.WallBlock,
		Empty:         res.Empty,
		Wall:          res.Wall,
		PaletteDigest: paletteDigest,
		Blocks:        res.Grid.Blocks(),
		Digest:        res.Digest,
		Stats: snapshot.StatsV1{
			Digs:     res.Stats.Digs,
			Respawns: res.Stats.Respawns,
			Rooms:    res.Report.Rooms,
			Links:    res.Report.Links,
		},
	}
}

// Record writes res to disk and returns the snapshot path with the snapshot
// that was written.
func (s *Store) Record(res generator.Result, source string) (string, snapshot.SnapshotV1, error) {
	snap := Snapshot(res, s.paletteDigest)
	path := snapshot.Path(s.dataDir, res.ID)
	if err := snapshot.WriteSnapshot(path, snap); err != nil {
		return "", snap, err
	}

	created := res.CreatedAt.Format(time.RFC3339Nano)
	if err := s.log.WriteGeneration(persistlog.Entry{
		Time:     created,
		Source:   source,
		MazeID:   res.ID,
		Seed:     res.Seed,
		Size:     res.Size,
		Empty:    res.EmptyBlock,
		Wall:     res.WallBlock,
		Digs:     res.Stats.Digs,
		Respawns: res.Stats.Respawns,
		Rooms:    res.Report.Rooms,
		Links:    res.Report.Links,
		Perfect:  res.Report.Perfect(),
		Digest:   res.Digest,
		Micros:   res.Duration.Microseconds(),
		Snapshot: path,
	}); err != nil {
		return path, snap, err
	}

	s.idx.RecordMaze(indexdb.MazeRow{
		ID:        res.ID,
		Seed:      res.Seed,
		SizeX:     res.Size[0],
		SizeY:     res.Size[1],
		SizeZ:     res.Size[2],
		Rooms:     res.Report.Rooms,
		Links:     res.Report.Links,
		Digs:      res.Stats.Digs,
		Respawns:  res.Stats.Respawns,
		Digest:    res.Digest,
		Path:      path,
		Source:    source,
		CreatedAt: created,
	})
	return path, snap, nil
}
