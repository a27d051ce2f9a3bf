package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"voxelmaze.ai/internal/persistence/snapshot"
)

type Meta struct {
	MazeID     string `json:"maze_id"`
	Seed       int64  `json:"seed"`
	Size       [3]int `json:"size"`
	EmptyBlock string `json:"empty_block"`
	WallBlock  string `json:"wall_block"`
	Digest     string `json:"digest"`
	Snapshot   string `json:"snapshot"`
	CreatedAt  string `json:"created_at"`
}

// ArchiveSnapshot copies a maze snapshot into `dataDir/archives/<maze id>/`
// next to a meta.json describing it, and returns the archived path.
func ArchiveSnapshot(dataDir, snapshotPath string, snap snapshot.SnapshotV1) (string, error) {
	if snap.Header.MazeID == "" {
		return "", fmt.Errorf("snapshot has no maze id")
	}
	archiveDir := filepath.Join(dataDir, "archives", snap.Header.MazeID)
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", err
	}

	dst := filepath.Join(archiveDir, filepath.Base(snapshotPath))
	if err := copyFile(snapshotPath, dst); err != nil {
		return "", err
	}

	meta := Meta{
		MazeID:     snap.Header.MazeID,
		Seed:       snap.Seed,
		Size:       snap.Size,
		EmptyBlock: snap.EmptyBlock,
		WallBlock:  snap.WallBlock,
		Digest:     snap.Digest,
		Snapshot:   filepath.Base(dst),
		CreatedAt:  time.Now().UTC().Format(time.RFC3339Nano),
	}
	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(archiveDir, "meta.json"), b, 0o644); err != nil {
		return "", err
	}
	return dst, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
