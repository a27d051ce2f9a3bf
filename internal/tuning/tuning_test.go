package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTuning(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	p := writeTuning(t, "size: [9, 7, 5]\nseed: 77\nwall_block: BRICK\n")
	tu, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tu.Dims() != [3]int{9, 7, 5} {
		t.Fatalf("dims=%v", tu.Dims())
	}
	if tu.Seed != 77 || tu.WallBlock != "BRICK" {
		t.Fatalf("seed=%d wall=%s", tu.Seed, tu.WallBlock)
	}
	if tu.EmptyBlock != "AIR" || tu.MaxCells != Defaults().MaxCells {
		t.Fatalf("defaults lost: %+v", tu)
	}
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]string{
		"short size":  "size: [3, 3]\n",
		"negative":    "size: [3, -1, 3]\n",
		"same blocks": "empty_block: STONE\n",
		"no cap":      "max_cells: 0\n",
		"bad yaml":    "size: [3, 3\n",
	}
	for name, body := range cases {
		if _, err := Load(writeTuning(t, body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !os.IsNotExist(err) {
		t.Fatalf("err=%v want not-exist", err)
	}
}

func TestDefaults_Valid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}
