package region

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voxelfs/regiontext/compress"
	"github.com/voxelfs/regiontext/nbt"
)

func testRecord(x, z int32, status string) Record {
	return Record{
		X: x,
		Z: z,
		Data: nbt.Compound{
			"Status":  nbt.String(status),
			"xPos":    nbt.Int(x),
			"zPos":    nbt.Int(z),
			"payload": nbt.LongArray{1, 2, 3},
		},
	}
}

func recordSet(records []Record) map[[2]int32]nbt.Compound {
	set := make(map[[2]int32]nbt.Compound, len(records))
	for _, r := range records {
		set[[2]int32{r.X, r.Z}] = r.Data
	}

	return set
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	records := []Record{
		testRecord(0, 0, "minecraft:full"),
		testRecord(31, 31, "minecraft:full"),
		testRecord(5, 17, "full"),
	}

	data, err := Encode(records)
	require.NoError(t, err)
	require.Equal(t, 0, len(data)%SectorSize, "image must be whole sectors")

	got, err := Decode(data, nil)
	require.NoError(t, err)
	require.Equal(t, recordSet(records), recordSet(got))
}

func TestEncodeWrapsNegativeCoordinates(t *testing.T) {
	// Absolute chunk coordinates from a negative region floor-wrap onto the
	// local grid: -1 maps to slot 31.
	records := []Record{testRecord(-1, -32, "minecraft:full")}

	data, err := Encode(records)
	require.NoError(t, err)

	got, err := Decode(data, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, int32(31), got[0].X)
	require.Equal(t, int32(0), got[0].Z)
	require.Equal(t, records[0].Data, got[0].Data)
}

func TestEncodeRoundTripIgnoresEmissionOrder(t *testing.T) {
	a := []Record{testRecord(1, 2, "full"), testRecord(3, 4, "full")}
	b := []Record{a[1], a[0]}

	dataA, err := Encode(a)
	require.NoError(t, err)
	dataB, err := Encode(b)
	require.NoError(t, err)

	gotA, err := Decode(dataA, nil)
	require.NoError(t, err)
	gotB, err := Decode(dataB, nil)
	require.NoError(t, err)
	require.Equal(t, recordSet(gotA), recordSet(gotB))
}

func TestEncodeEmptyProducesNoOutput(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	require.Empty(t, data)
}

func TestDecodeShortInputYieldsNothing(t *testing.T) {
	got, err := Decode(make([]byte, SectorSize*2-1), nil)
	require.NoError(t, err)
	require.Empty(t, got)

	got, err = Decode(nil, nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

// corruptSlot rewrites slot 0's payload area in a freshly encoded image.
func encodedSingle(t *testing.T) []byte {
	t.Helper()

	data, err := Encode([]Record{testRecord(0, 0, "full")})
	require.NoError(t, err)

	return data
}

func TestDecodeSkipsUnknownCompressionMethod(t *testing.T) {
	data := encodedSingle(t)
	data[2*SectorSize+4] = 9 // method byte of slot 0's payload

	var diags []Diag
	got, err := Decode(data, func(d Diag) { diags = append(diags, d) })
	require.NoError(t, err)
	require.Empty(t, got)
	require.Len(t, diags, 1)
	require.Equal(t, 0, diags[0].Slot)
}

func TestDecodeSkipsOutOfRangePayload(t *testing.T) {
	data := encodedSingle(t)
	// Declare a payload length far beyond the image.
	binary.BigEndian.PutUint32(data[2*SectorSize:], uint32(len(data)))

	var diags []Diag
	got, err := Decode(data, func(d Diag) { diags = append(diags, d) })
	require.NoError(t, err)
	require.Empty(t, got)
	require.Len(t, diags, 1)
}

func TestDecodeSkipsUnparsableRecord(t *testing.T) {
	// Valid zlib stream that is not a tag tree: record is skipped with a
	// diagnostic, container survives.
	junk, err := compress.ZlibCodec{}.Compress([]byte{0x42, 0x42, 0x42})
	require.NoError(t, err)

	data := make([]byte, 2*SectorSize)
	data[0] = 0
	data[1] = 0
	data[2] = 2 // offset sector 2
	data[3] = 1 // one sector

	payload := make([]byte, SectorSize)
	binary.BigEndian.PutUint32(payload[:4], uint32(len(junk)+1))
	payload[4] = byte(compress.MethodZlib)
	copy(payload[5:], junk)
	data = append(data, payload...)

	var diags []Diag
	got, err := Decode(data, func(d Diag) { diags = append(diags, d) })
	require.NoError(t, err)
	require.Empty(t, got)
	require.Len(t, diags, 1)
	require.ErrorContains(t, diags[0].Err, "parse record")
}

func TestDecodeAbortsOnCorruptCompression(t *testing.T) {
	data := encodedSingle(t)
	// Smash the zlib stream body while keeping the method byte intact.
	for i := 2*SectorSize + 5; i < 2*SectorSize+16; i++ {
		data[i] = 0xff
	}

	_, err := Decode(data, nil)
	require.Error(t, err)
	require.ErrorContains(t, err, "decompress")
}

func TestDecodeEmitsZlibMethodOnly(t *testing.T) {
	data := encodedSingle(t)
	require.Equal(t, byte(compress.MethodZlib), data[2*SectorSize+4])
}

func TestParseFilename(t *testing.T) {
	tests := []struct {
		name   string
		cx, cz int32
		ok     bool
	}{
		{"r.0.0.mca", 0, 0, true},
		{"r.-1.2.mca", -1, 2, true},
		{"r.-128.-127.mca", -128, -127, true},
		{"r.10.10.json", 0, 0, false},
		{"r.10.mca", 0, 0, false},
		{"r.a.b.mca", 0, 0, false},
		{"x.1.2.mca", 0, 0, false},
		{"r.1.2.mca.bak", 0, 0, false},
		{"", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cx, cz, ok := ParseFilename(tt.name)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.Equal(t, tt.cx, cx)
				require.Equal(t, tt.cz, cz)
			}
		})
	}
}

func TestFilenameRoundTrip(t *testing.T) {
	name := Filename(-3, 12)
	require.Equal(t, "r.-3.12.mca", name)

	cx, cz, ok := ParseFilename(name)
	require.True(t, ok)
	require.Equal(t, int32(-3), cx)
	require.Equal(t, int32(12), cz)
}
