package world

import (
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/voxelfs/regiontext/internal/pool"
)

// MaxSliceSize caps the summed serialized chunk bytes per output slice, so a
// dense region splits into several reviewable files instead of one huge one.
const MaxSliceSize = 8 * 1024 * 1024

// Slice filenames are `r.<cx>.<cz>.<idx>.json`. All slices of one region
// share the container coordinates and differ only in the running index.
var sliceRe = regexp.MustCompile(`^r\.(-?\d+)\.(-?\d+)\.(\d+)\.json$`)

// parseSliceFilename extracts the container coordinates from a slice
// filename. The index is not returned; restore reads every slice of a group.
func parseSliceFilename(name string) (cx, cz int32, ok bool) {
	m := sliceRe.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, false
	}

	x, err := strconv.ParseInt(m[1], 10, 32)
	if err != nil {
		return 0, 0, false
	}
	z, err := strconv.ParseInt(m[2], 10, 32)
	if err != nil {
		return 0, 0, false
	}

	return int32(x), int32(z), true
}

func sliceFilename(cx, cz int32, idx int) string {
	return fmt.Sprintf("r.%d.%d.%d.json", cx, cz, idx)
}

// packSlices groups serialized chunk documents greedily: a chunk is appended
// to the current slice unless that would push the slice past maxSize, in
// which case the slice is flushed first. A single chunk larger than maxSize
// occupies a slice alone.
func packSlices(chunks [][]byte, maxSize int) [][][]byte {
	var (
		slices  [][][]byte
		current [][]byte
		size    int
	)

	for _, c := range chunks {
		if len(current) > 0 && size+len(c) > maxSize {
			slices = append(slices, current)
			current = nil
			size = 0
		}
		current = append(current, c)
		size += len(c)
	}
	if len(current) > 0 {
		slices = append(slices, current)
	}

	return slices
}

// writeSlice renders one slice file: a single "chunks" array with one
// serialized chunk document per line, so line-oriented diffs align with
// chunks. It returns the written size and an xxhash digest of the content
// for debug logging.
func writeSlice(path string, chunks [][]byte) (int, uint64, error) {
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	buf.WriteString("{\"chunks\":[\n")
	for i, c := range chunks {
		if i > 0 {
			buf.WriteString(",\n")
		}
		buf.MustWrite(c)
	}
	buf.WriteString("\n]}\n")

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return 0, 0, err
	}

	return buf.Len(), xxhash.Sum64(buf.Bytes()), nil
}
