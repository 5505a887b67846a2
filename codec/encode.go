package codec

import (
	"encoding/base64"
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/voxelfs/regiontext/jsondoc"
	"github.com/voxelfs/regiontext/nbt"
)

// Encode converts a tag tree into its document form. Every tag value is
// representable, so Encode cannot fail.
func Encode(tag nbt.Tag) jsondoc.Value {
	switch v := tag.(type) {
	case nbt.Byte:
		return jsondoc.String(strconv.FormatInt(int64(v), 10) + "b")
	case nbt.Short:
		return jsondoc.String(strconv.FormatInt(int64(v), 10) + "s")
	case nbt.Int:
		return jsondoc.FromInt(int64(v))
	case nbt.Long:
		return jsondoc.String(strconv.FormatInt(int64(v), 10) + "L")
	case nbt.Float:
		return jsondoc.String(strconv.FormatFloat(float64(v), 'g', -1, 32) + "f")
	case nbt.Double:
		return encodeDouble(float64(v))
	case nbt.String:
		if needsEscape(string(v)) {
			return jsondoc.String(string(v) + escapeMarker)
		}

		return jsondoc.String(string(v))
	case nbt.ByteArray:
		raw := make([]byte, len(v))
		for i, b := range v {
			raw[i] = byte(b)
		}

		return jsondoc.String("B;" + base64.StdEncoding.EncodeToString(raw))
	case nbt.IntArray:
		raw := make([]byte, 0, len(v)*4)
		for _, e := range v {
			raw = binary.BigEndian.AppendUint32(raw, uint32(e))
		}

		return jsondoc.String("I;" + base64.StdEncoding.EncodeToString(raw))
	case nbt.LongArray:
		raw := make([]byte, 0, len(v)*8)
		for _, e := range v {
			raw = binary.BigEndian.AppendUint64(raw, uint64(e))
		}

		return jsondoc.String("L;" + base64.StdEncoding.EncodeToString(raw))
	case nbt.List:
		if len(v) == 0 {
			// An empty list's element type is unrecoverable; the sentinel
			// object keeps it distinct from an empty compound.
			return jsondoc.Object{"[]": jsondoc.String("End")}
		}

		arr := make(jsondoc.Array, 0, len(v))
		for _, e := range v {
			arr = append(arr, Encode(e))
		}

		return arr
	case nbt.Compound:
		obj := make(jsondoc.Object, len(v))
		for k, e := range v {
			obj[k] = Encode(e)
		}

		return obj
	default:
		// The tag set is closed; this is unreachable for values built
		// through the nbt package.
		return jsondoc.Null{}
	}
}

// encodeDouble emits a real JSON number for finite doubles and the "d"
// string fallback otherwise. Integral literals get a trailing ".0" so a
// reparse still sees a float.
func encodeDouble(v float64) jsondoc.Value {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return jsondoc.String(strconv.FormatFloat(v, 'g', -1, 64) + "d")
	}

	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}

	return jsondoc.Number(s)
}
