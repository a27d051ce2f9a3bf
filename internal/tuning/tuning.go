package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version" json:"protocol_version"`

	// Size is the grid extent as [x, y, z].
	Size []int `yaml:"size" json:"size"`
	// Seed 0 picks a time-derived seed per generation.
	Seed int64 `yaml:"seed" json:"seed"`

	EmptyBlock string `yaml:"empty_block" json:"empty_block"`
	WallBlock  string `yaml:"wall_block" json:"wall_block"`

	// MaxCells caps x*y*z for generation requests received over the network.
	MaxCells int `yaml:"max_cells" json:"max_cells"`

	RenderSlices bool `yaml:"render_slices" json:"render_slices"`
}

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion: "1.0",
		Size:            []int{21, 21, 21},
		EmptyBlock:      "AIR",
		WallBlock:       "STONE",
		MaxCells:        2_000_000,
	}
}

// Load reads path over Defaults and validates the result.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	if len(t.Size) != 3 {
		return fmt.Errorf("size must have 3 entries, got %d", len(t.Size))
	}
	for i, v := range t.Size {
		if v < 0 {
			return fmt.Errorf("size[%d] is negative: %d", i, v)
		}
	}
	if t.EmptyBlock == "" || t.WallBlock == "" {
		return fmt.Errorf("empty_block and wall_block are required")
	}
	if t.EmptyBlock == t.WallBlock {
		return fmt.Errorf("empty_block and wall_block are both %q", t.EmptyBlock)
	}
	if t.MaxCells <= 0 {
		return fmt.Errorf("max_cells must be positive")
	}
	return nil
}

// Dims returns Size as an array. Validate must have passed.
func (t Tuning) Dims() [3]int {
	return [3]int{t.Size[0], t.Size[1], t.Size[2]}
}
