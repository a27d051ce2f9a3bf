package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type Catalogs struct {
	Blocks BlockCatalog
}

type BlockCatalog struct {
	Palette       []string
	Index         map[string]uint16
	Defs          map[string]BlockDef
	PaletteDigest string
	DefsDigest    string
}

type BlockDef struct {
	ID    string `json:"id"`
	Solid bool   `json:"solid"`
}

// DefaultBlocks is used when no blocks.json is present.
var DefaultBlocks = []BlockDef{
	{ID: "AIR"},
	{ID: "STONE", Solid: true},
	{ID: "BRICK", Solid: true},
	{ID: "DIRT", Solid: true},
	{ID: "GLASS", Solid: true},
}

// Load reads <configDir>/blocks.json, falling back to DefaultBlocks when the
// file does not exist.
func Load(configDir string) (*Catalogs, error) {
	var c Catalogs

	raw, err := os.ReadFile(filepath.Join(configDir, "blocks.json"))
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		raw, _ = json.Marshal(DefaultBlocks)
	}
	if err := parseBlocks(raw, &c.Blocks); err != nil {
		return nil, err
	}
	return &c, nil
}

// Default builds catalogs from DefaultBlocks.
func Default() *Catalogs {
	var c Catalogs
	raw, _ := json.Marshal(DefaultBlocks)
	if err := parseBlocks(raw, &c.Blocks); err != nil {
		panic(err)
	}
	return &c
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func parseBlocks(raw []byte, out *BlockCatalog) error {
	out.DefsDigest = sha256Hex(raw)

	var defs []BlockDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("blocks.json: %w", err)
	}
	out.Defs = map[string]BlockDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("blocks.json: empty id")
		}
		out.Defs[d.ID] = d
	}

	ids := make([]string, 0, len(out.Defs))
	for id := range out.Defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// Ensure AIR exists and is palette id 0.
	if _, ok := out.Defs["AIR"]; !ok {
		return fmt.Errorf("blocks.json: missing AIR")
	}
	ids = append([]string{"AIR"}, filterOut(ids, "AIR")...)
	if len(ids) > 1<<16 {
		return fmt.Errorf("blocks.json: %d blocks exceed the uint16 palette", len(ids))
	}

	out.Palette = ids
	out.Index = make(map[string]uint16, len(ids))
	for i, id := range ids {
		out.Index[id] = uint16(i)
	}
	palJSON, _ := json.Marshal(ids)
	out.PaletteDigest = sha256Hex(palJSON)
	return nil
}

func filterOut(ids []string, drop string) []string {
	out := ids[:0:0]
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}

// Resolve maps the empty and wall block names to palette ids.
func (b *BlockCatalog) Resolve(emptyBlock, wallBlock string) (empty, wall uint16, err error) {
	e, ok := b.Index[emptyBlock]
	if !ok {
		return 0, 0, fmt.Errorf("unknown block %q", emptyBlock)
	}
	w, ok := b.Index[wallBlock]
	if !ok {
		return 0, 0, fmt.Errorf("unknown block %q", wallBlock)
	}
	if e == w {
		return 0, 0, fmt.Errorf("empty and wall block are both %q", emptyBlock)
	}
	return e, w, nil
}

// Name returns the palette name of id, or "" if out of range.
func (b *BlockCatalog) Name(id uint16) string {
	if int(id) >= len(b.Palette) {
		return ""
	}
	return b.Palette[id]
}
