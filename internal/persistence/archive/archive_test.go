package archive

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"voxelmaze.ai/internal/persistence/snapshot"
)

func TestArchiveSnapshot_CopiesWithMeta(t *testing.T) {
	dir := t.TempDir()

	src := filepath.Join(dir, "mazes", "m1.snap.zst")
	if err := os.MkdirAll(filepath.Dir(src), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	want := []byte("dummy")
	if err := os.WriteFile(src, want, 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}

	snap := snapshot.SnapshotV1{
		Header: snapshot.Header{Version: snapshot.Version, MazeID: "m1"},
		Seed:   42,
		Size:   [3]int{7, 7, 7},
		Digest: "abc",
	}
	archived, err := ArchiveSnapshot(dir, src, snap)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if archived != filepath.Join(dir, "archives", "m1", "m1.snap.zst") {
		t.Fatalf("archived path=%s", archived)
	}

	got, err := os.ReadFile(archived)
	if err != nil {
		t.Fatalf("read archived: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("archived content mismatch: got=%q want=%q", string(got), string(want))
	}

	raw, err := os.ReadFile(filepath.Join(filepath.Dir(archived), "meta.json"))
	if err != nil {
		t.Fatalf("read meta: %v", err)
	}
	var meta Meta
	if err := json.Unmarshal(raw, &meta); err != nil {
		t.Fatalf("decode meta: %v", err)
	}
	if meta.Seed != 42 || meta.Size != [3]int{7, 7, 7} || meta.Snapshot != "m1.snap.zst" {
		t.Fatalf("meta=%+v", meta)
	}
}

func TestArchiveSnapshot_RequiresID(t *testing.T) {
	if _, err := ArchiveSnapshot(t.TempDir(), "x", snapshot.SnapshotV1{}); err == nil {
		t.Fatalf("expected error")
	}
}
