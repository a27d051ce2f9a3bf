package encoding

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"voxelmaze.ai/internal/voxel"
)

// Name is the encoding tag carried on the wire next to RLE payloads.
const Name = "RLE"

// EncodeRLE encodes a sequence of palette ids into base64(varint pairs).
// The pairs are (block_id, run_len) repeated.
func EncodeRLE(ids []uint16) string {
	var buf bytes.Buffer
	var tmp [binary.MaxVarintLen64]byte

	i := 0
	for i < len(ids) {
		b := ids[i]
		run := 1
		for j := i + 1; j < len(ids) && ids[j] == b && run < 1<<31; j++ {
			run++
		}

		n := binary.PutUvarint(tmp[:], uint64(b))
		buf.Write(tmp[:n])
		n = binary.PutUvarint(tmp[:], uint64(run))
		buf.Write(tmp[:n])

		i += run
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// DecodeRLE reverses EncodeRLE. limit caps the decoded length; limit < 0
// disables the cap.
func DecodeRLE(b64 string, limit int) ([]uint16, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, err
	}
	var out []uint16
	for i := 0; i < len(raw); {
		b, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at %d", i)
		}
		i += n
		run, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at %d", i)
		}
		i += n
		if b > 0xFFFF {
			return nil, fmt.Errorf("block id too large: %d", b)
		}
		if limit >= 0 && uint64(len(out))+run > uint64(limit) {
			return nil, fmt.Errorf("decoded length exceeds %d", limit)
		}
		for k := uint64(0); k < run; k++ {
			out = append(out, uint16(b))
		}
	}
	return out, nil
}

// EncodeGrid encodes every block of g in its x-fastest order.
func EncodeGrid(g *voxel.Grid) string {
	return EncodeRLE(g.Blocks())
}

// DecodeGrid rebuilds a grid of the given size from an EncodeGrid payload.
func DecodeGrid(size [3]int, b64 string) (*voxel.Grid, error) {
	for i, v := range size {
		if v < 0 {
			return nil, fmt.Errorf("negative extent on axis %d: %d", i, v)
		}
	}
	n := size[0] * size[1] * size[2]
	ids, err := DecodeRLE(b64, n)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uint16{}
	}
	return voxel.FromBlocks(size, ids)
}
