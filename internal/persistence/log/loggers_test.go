package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
)

func readEntries(t *testing.T, path string) []Entry {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd: %v", err)
	}
	defer dec.Close()

	var out []Entry
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return out
}

func TestGenerationLogger_WritesJSONL(t *testing.T) {
	dir := t.TempDir()
	l := NewGenerationLogger(dir)
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	l.w.now = func() time.Time { return at }

	for i := 0; i < 3; i++ {
		if err := l.WriteGeneration(Entry{MazeID: "m", Seed: int64(i), Size: [3]int{7, 7, 7}, Rooms: 27, Links: 26}); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	path := filepath.Join(dir, "events", "generations-2026-03-04-05.jsonl.zst")
	got := readEntries(t, path)
	if len(got) != 3 || got[2].Seed != 2 || got[0].Links != 26 {
		t.Fatalf("entries=%+v", got)
	}
}

func TestJSONLZstdWriter_RotatesHourly(t *testing.T) {
	dir := t.TempDir()
	w := NewJSONLZstdWriter(dir, "x")
	at := time.Date(2026, 3, 4, 5, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return at }

	if err := w.Write(Entry{MazeID: "a"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	at = at.Add(2 * time.Minute)
	if err := w.Write(Entry{MazeID: "b"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	first := readEntries(t, filepath.Join(dir, "x-2026-03-04-05.jsonl.zst"))
	second := readEntries(t, filepath.Join(dir, "x-2026-03-04-06.jsonl.zst"))
	if len(first) != 1 || first[0].MazeID != "a" || len(second) != 1 || second[0].MazeID != "b" {
		t.Fatalf("rotation mismatch: %+v %+v", first, second)
	}
}
