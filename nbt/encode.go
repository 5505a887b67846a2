package nbt

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
)

// maxStringLen is the largest string payload the uint16 length prefix can
// carry.
const maxStringLen = math.MaxUint16

// Marshal encodes a root compound into the binary tag wire format.
//
// The root is written as an unnamed compound, matching what region payloads
// and level metadata carry. The returned slice is newly allocated and owned
// by the caller.
func Marshal(root Compound) ([]byte, error) {
	buf := make([]byte, 0, 512)
	buf = append(buf, byte(TypeCompound))
	buf = binary.BigEndian.AppendUint16(buf, 0) // unnamed root

	return appendPayload(buf, root)
}

func appendPayload(buf []byte, tag Tag) ([]byte, error) {
	var err error

	switch v := tag.(type) {
	case Byte:
		buf = append(buf, byte(v))
	case Short:
		buf = binary.BigEndian.AppendUint16(buf, uint16(v))
	case Int:
		buf = binary.BigEndian.AppendUint32(buf, uint32(v))
	case Long:
		buf = binary.BigEndian.AppendUint64(buf, uint64(v))
	case Float:
		buf = binary.BigEndian.AppendUint32(buf, math.Float32bits(float32(v)))
	case Double:
		buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(float64(v)))
	case String:
		buf, err = appendString(buf, string(v))
	case ByteArray:
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(v)))
		for _, b := range v {
			buf = append(buf, byte(b))
		}
	case IntArray:
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(v)))
		for _, e := range v {
			buf = binary.BigEndian.AppendUint32(buf, uint32(e))
		}
	case LongArray:
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(v)))
		for _, e := range v {
			buf = binary.BigEndian.AppendUint64(buf, uint64(e))
		}
	case List:
		buf, err = appendList(buf, v)
	case Compound:
		buf, err = appendCompound(buf, v)
	default:
		return nil, fmt.Errorf("nbt: cannot encode tag type %T", tag)
	}

	return buf, err
}

func appendString(buf []byte, s string) ([]byte, error) {
	if len(s) > maxStringLen {
		return nil, fmt.Errorf("nbt: string length %d exceeds maximum %d", len(s), maxStringLen)
	}

	buf = binary.BigEndian.AppendUint16(buf, uint16(len(s)))

	return append(buf, s...), nil
}

func appendList(buf []byte, list List) ([]byte, error) {
	if len(list) == 0 {
		// Element type of an empty list is unrecoverable; End is canonical.
		buf = append(buf, byte(TypeEnd))

		return binary.BigEndian.AppendUint32(buf, 0), nil
	}

	elem := list[0].Type()
	for i, t := range list {
		if t.Type() != elem {
			return nil, fmt.Errorf("nbt: list element %d has type %s, want %s", i, t.Type(), elem)
		}
	}

	buf = append(buf, byte(elem))
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(list)))

	var err error
	for _, t := range list {
		if buf, err = appendPayload(buf, t); err != nil {
			return nil, err
		}
	}

	return buf, nil
}

func appendCompound(buf []byte, c Compound) ([]byte, error) {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var err error
	for _, k := range keys {
		t := c[k]
		buf = append(buf, byte(t.Type()))
		if buf, err = appendString(buf, k); err != nil {
			return nil, err
		}
		if buf, err = appendPayload(buf, t); err != nil {
			return nil, err
		}
	}

	return append(buf, byte(TypeEnd)), nil
}
