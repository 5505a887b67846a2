// Package region reads and writes the sector-addressed container format that
// packs up to 1024 independently compressed records on a 32x32 grid.
//
// A container starts with two header sectors: the location table (per slot, a
// 3-byte big-endian sector offset and a 1-byte sector count) and the
// timestamp table. Each record payload starts with a 4-byte big-endian length
// covering the method byte plus the compressed bytes, then the compression
// method byte, then the payload, zero-padded to whole sectors.
package region

import (
	"encoding/binary"
	"fmt"

	"github.com/voxelfs/regiontext/compress"
	"github.com/voxelfs/regiontext/internal/pool"
	"github.com/voxelfs/regiontext/nbt"
)

const (
	// SectorSize is the fixed allocation unit of the container format.
	SectorSize = 4096
	// GridSize is the records-per-axis of a container.
	GridSize = 32
	// SlotCount is the number of record slots in a container.
	SlotCount = GridSize * GridSize

	headerSectors = 2
	maxSlotSector = 255 // sector count is a single byte
)

// Record is one addressable unit inside a container: a grid position and its
// tag tree. Decode yields local positions in [0,GridSize); Encode accepts any
// integers and floor-wraps them onto the grid.
type Record struct {
	X, Z int32
	Data nbt.Compound
}

// Diag describes a tolerated per-slot problem found while decoding.
type Diag struct {
	Slot int
	X, Z int32
	Err  error
}

// DiagFunc receives tolerated per-slot diagnostics. A nil DiagFunc discards
// them.
type DiagFunc func(Diag)

func emit(diag DiagFunc, slot int, x, z int32, err error) {
	if diag != nil {
		diag(Diag{Slot: slot, X: x, Z: z, Err: err})
	}
}

// Decode parses a container image into its records.
//
// Inputs shorter than the two header sectors yield no records and no error.
// Slots with a zero offset or count, out-of-range payload declarations,
// unknown compression methods and records whose tag tree fails to parse are
// skipped, reported through diag, and never abort the container. A payload
// that declares a known method but fails to decompress is the one condition
// that aborts the whole container.
func Decode(data []byte, diag DiagFunc) ([]Record, error) {
	if len(data) < SectorSize*headerSectors {
		return nil, nil
	}

	var records []Record

	for i := 0; i < SlotCount; i++ {
		entry := data[i*4 : i*4+4]
		offset := int(entry[0])<<16 | int(entry[1])<<8 | int(entry[2])
		sectors := int(entry[3])
		if offset == 0 || sectors == 0 {
			continue
		}

		x := int32(i % GridSize)
		z := int32(i / GridSize)

		start := offset * SectorSize
		if start+5 > len(data) {
			continue
		}

		length := int(binary.BigEndian.Uint32(data[start : start+4]))
		if length == 0 || start+4+length > len(data) {
			emit(diag, i, x, z, fmt.Errorf("declared payload length %d exceeds container", length))
			continue
		}

		method := compress.Method(data[start+4])
		payload := data[start+5 : start+4+length]

		codec, err := compress.ForMethod(method)
		if err != nil {
			emit(diag, i, x, z, err)
			continue
		}

		raw, err := codec.Decompress(payload)
		if err != nil {
			return nil, fmt.Errorf("record (%d, %d): decompress %s payload: %w", x, z, method, err)
		}

		root, err := nbt.Unmarshal(raw)
		if err != nil {
			emit(diag, i, x, z, fmt.Errorf("parse record: %w", err))
			continue
		}

		records = append(records, Record{X: x, Z: z, Data: root})
	}

	return records, nil
}

// Encode serializes records into a container image. Records are laid out in
// the order supplied, each compressed with zlib and padded to whole sectors.
// The timestamp table is written as zeros. An empty record list produces an
// empty image.
func Encode(records []Record) ([]byte, error) {
	if len(records) == 0 {
		return nil, nil
	}

	locations := make([]byte, SectorSize)
	body := pool.GetBuffer()
	defer pool.PutBuffer(body)

	zlib := compress.ZlibCodec{}
	currentSector := headerSectors

	for _, rec := range records {
		raw, err := nbt.Marshal(rec.Data)
		if err != nil {
			return nil, fmt.Errorf("record (%d, %d): encode: %w", rec.X, rec.Z, err)
		}

		compressed, err := zlib.Compress(raw)
		if err != nil {
			return nil, fmt.Errorf("record (%d, %d): compress: %w", rec.X, rec.Z, err)
		}

		sectors := (len(compressed) + 5 + SectorSize - 1) / SectorSize
		if sectors > maxSlotSector {
			return nil, fmt.Errorf("record (%d, %d): %d sectors exceed slot capacity", rec.X, rec.Z, sectors)
		}
		if currentSector+sectors > 1<<24 {
			return nil, fmt.Errorf("record (%d, %d): container exceeds addressable sectors", rec.X, rec.Z)
		}

		var header [5]byte
		binary.BigEndian.PutUint32(header[:4], uint32(len(compressed)+1))
		header[4] = byte(compress.MethodZlib)
		body.MustWrite(header[:])
		body.MustWrite(compressed)
		body.PadTo(SectorSize)

		// Bitwise AND floor-wraps negative coordinates onto the grid.
		slot := int(rec.X&(GridSize-1)) + int(rec.Z&(GridSize-1))*GridSize
		idx := slot * 4
		locations[idx] = byte(currentSector >> 16)
		locations[idx+1] = byte(currentSector >> 8)
		locations[idx+2] = byte(currentSector)
		locations[idx+3] = byte(sectors)

		currentSector += sectors
	}

	out := make([]byte, 0, SectorSize*headerSectors+body.Len())
	out = append(out, locations...)
	out = append(out, make([]byte, SectorSize)...) // zero timestamp table
	out = append(out, body.Bytes()...)

	return out, nil
}
