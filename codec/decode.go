package codec

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/voxelfs/regiontext/jsondoc"
	"github.com/voxelfs/regiontext/nbt"
)

// Decode converts a document tree back into a tag tree. It is the inverse of
// Encode; errors only arise from malformed hand-edited input such as corrupt
// base64 array payloads.
func Decode(v jsondoc.Value) (nbt.Tag, error) {
	switch d := v.(type) {
	case jsondoc.Object:
		if _, ok := d["[]"]; ok && len(d) == 1 {
			return nbt.List{}, nil
		}

		c := make(nbt.Compound, len(d))
		for k, e := range d {
			tag, err := Decode(e)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			c[k] = tag
		}

		return c, nil
	case jsondoc.Array:
		list := make(nbt.List, 0, len(d))
		for i, e := range d {
			tag, err := Decode(e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			list = append(list, tag)
		}

		return list, nil
	case jsondoc.String:
		return decodeString(string(d))
	case jsondoc.Number:
		return decodeNumber(d)
	case jsondoc.Bool:
		if d {
			return nbt.Byte(1), nil
		}

		return nbt.Byte(0), nil
	case jsondoc.Null:
		return nbt.Byte(0), nil
	default:
		return nil, fmt.Errorf("codec: unsupported document node %T", v)
	}
}

// decodeNumber maps integral literals to Int or Long by range, and literals
// with a fraction or exponent to Double. Integers too wide for int64 fall
// back to Double, mirroring the encoder's number space.
func decodeNumber(n jsondoc.Number) (nbt.Tag, error) {
	if !n.IsFloat() {
		if i, err := n.Int64(); err == nil {
			if i >= math.MinInt32 && i <= math.MaxInt32 {
				return nbt.Int(i), nil
			}

			return nbt.Long(i), nil
		}
	}

	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("codec: invalid number literal %q", string(n))
	}

	return nbt.Double(f), nil
}

// decodeString runs the disambiguation chain: escape marker first, then the
// numeric type suffixes, then the array prefixes, and plain string last.
func decodeString(s string) (nbt.Tag, error) {
	if strings.HasSuffix(s, escapeMarker) {
		return nbt.String(s[:len(s)-len(escapeMarker)]), nil
	}

	if len(s) >= 2 {
		prefix := s[:len(s)-1]
		switch s[len(s)-1] {
		case 'b':
			if v, err := strconv.ParseInt(prefix, 10, 8); err == nil {
				return nbt.Byte(v), nil
			}
		case 's':
			if v, err := strconv.ParseInt(prefix, 10, 16); err == nil {
				return nbt.Short(v), nil
			}
		case 'L':
			if v, err := strconv.ParseInt(prefix, 10, 64); err == nil {
				return nbt.Long(v), nil
			}
		case 'f':
			if v, err := strconv.ParseFloat(prefix, 32); err == nil {
				return nbt.Float(v), nil
			}
		case 'd':
			if v, err := strconv.ParseFloat(prefix, 64); err == nil {
				return nbt.Double(v), nil
			}
		}
	}

	if len(s) > 2 && s[1] == ';' {
		switch s[0] {
		case 'B', 'I', 'L':
			return decodeArray(s[0], s[2:])
		}
	}

	return nbt.String(s), nil
}

func decodeArray(kind byte, b64 string) (nbt.Tag, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("codec: invalid %c; array payload: %w", kind, err)
	}

	switch kind {
	case 'B':
		arr := make(nbt.ByteArray, len(raw))
		for i, b := range raw {
			arr[i] = int8(b)
		}

		return arr, nil
	case 'I':
		if len(raw)%4 != 0 {
			return nil, fmt.Errorf("codec: I; payload length %d is not a multiple of 4", len(raw))
		}
		arr := make(nbt.IntArray, len(raw)/4)
		for i := range arr {
			arr[i] = int32(binary.BigEndian.Uint32(raw[i*4:]))
		}

		return arr, nil
	default: // 'L'
		if len(raw)%8 != 0 {
			return nil, fmt.Errorf("codec: L; payload length %d is not a multiple of 8", len(raw))
		}
		arr := make(nbt.LongArray, len(raw)/8)
		for i := range arr {
			arr[i] = int64(binary.BigEndian.Uint64(raw[i*8:]))
		}

		return arr, nil
	}
}
