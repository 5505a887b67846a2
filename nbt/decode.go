package nbt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrTruncated is returned when the input ends before a complete tag tree
// has been read.
var ErrTruncated = errors.New("nbt: truncated input")

// Unmarshal decodes a binary tag stream produced by Marshal (or by the game)
// into its root compound. The root tag must be a compound; its name is read
// and discarded. Bytes past the end of the root tree are ignored, since
// decompressed region payloads may carry sector padding.
func Unmarshal(data []byte) (Compound, error) {
	r := &reader{data: data}

	id, err := r.readByte()
	if err != nil {
		return nil, err
	}
	if TagType(id) != TypeCompound {
		return nil, fmt.Errorf("nbt: root tag is %s, want Compound", TagType(id))
	}
	if _, err := r.readString(); err != nil {
		return nil, err
	}

	tag, err := r.readPayload(TypeCompound, 0)
	if err != nil {
		return nil, err
	}

	return tag.(Compound), nil
}

// maxDepth bounds nesting to keep malformed input from exhausting the stack.
const maxDepth = 512

type reader struct {
	data []byte
	off  int
}

func (r *reader) readByte() (byte, error) {
	if r.off >= len(r.data) {
		return 0, ErrTruncated
	}
	b := r.data[r.off]
	r.off++

	return b, nil
}

func (r *reader) readN(n int) ([]byte, error) {
	if n < 0 || r.off+n > len(r.data) {
		return nil, ErrTruncated
	}
	b := r.data[r.off : r.off+n]
	r.off += n

	return b, nil
}

func (r *reader) readUint16() (uint16, error) {
	b, err := r.readN(2)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint16(b), nil
}

func (r *reader) readUint32() (uint32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint32(b), nil
}

func (r *reader) readUint64() (uint64, error) {
	b, err := r.readN(8)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint64(b), nil
}

func (r *reader) readString() (string, error) {
	n, err := r.readUint16()
	if err != nil {
		return "", err
	}
	b, err := r.readN(int(n))
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// readCount reads a 4-byte element count and rejects values that cannot fit
// in the remaining input, so corrupt counts fail fast instead of allocating.
func (r *reader) readCount(elemSize int) (int, error) {
	n, err := r.readUint32()
	if err != nil {
		return 0, err
	}
	count := int(int32(n))
	if count < 0 || count*elemSize > len(r.data)-r.off {
		return 0, fmt.Errorf("nbt: array count %d exceeds remaining input", count)
	}

	return count, nil
}

func (r *reader) readPayload(t TagType, depth int) (Tag, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("nbt: nesting depth exceeds %d", maxDepth)
	}

	switch t {
	case TypeByte:
		b, err := r.readByte()
		if err != nil {
			return nil, err
		}

		return Byte(b), nil
	case TypeShort:
		v, err := r.readUint16()
		if err != nil {
			return nil, err
		}

		return Short(v), nil
	case TypeInt:
		v, err := r.readUint32()
		if err != nil {
			return nil, err
		}

		return Int(v), nil
	case TypeLong:
		v, err := r.readUint64()
		if err != nil {
			return nil, err
		}

		return Long(v), nil
	case TypeFloat:
		v, err := r.readUint32()
		if err != nil {
			return nil, err
		}

		return Float(math.Float32frombits(v)), nil
	case TypeDouble:
		v, err := r.readUint64()
		if err != nil {
			return nil, err
		}

		return Double(math.Float64frombits(v)), nil
	case TypeString:
		s, err := r.readString()
		if err != nil {
			return nil, err
		}

		return String(s), nil
	case TypeByteArray:
		count, err := r.readCount(1)
		if err != nil {
			return nil, err
		}
		b, err := r.readN(count)
		if err != nil {
			return nil, err
		}
		arr := make(ByteArray, count)
		for i, e := range b {
			arr[i] = int8(e)
		}

		return arr, nil
	case TypeIntArray:
		count, err := r.readCount(4)
		if err != nil {
			return nil, err
		}
		arr := make(IntArray, count)
		for i := range arr {
			v, err := r.readUint32()
			if err != nil {
				return nil, err
			}
			arr[i] = int32(v)
		}

		return arr, nil
	case TypeLongArray:
		count, err := r.readCount(8)
		if err != nil {
			return nil, err
		}
		arr := make(LongArray, count)
		for i := range arr {
			v, err := r.readUint64()
			if err != nil {
				return nil, err
			}
			arr[i] = int64(v)
		}

		return arr, nil
	case TypeList:
		return r.readList(depth)
	case TypeCompound:
		return r.readCompound(depth)
	default:
		return nil, fmt.Errorf("nbt: unknown tag type 0x%02x", uint8(t))
	}
}

func (r *reader) readList(depth int) (Tag, error) {
	id, err := r.readByte()
	if err != nil {
		return nil, err
	}
	elem := TagType(id)

	count, err := r.readCount(1)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return List{}, nil
	}
	if elem == TypeEnd {
		return nil, fmt.Errorf("nbt: non-empty list with End element type")
	}

	list := make(List, 0, count)
	for i := 0; i < count; i++ {
		t, err := r.readPayload(elem, depth+1)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}

	return list, nil
}

func (r *reader) readCompound(depth int) (Tag, error) {
	c := make(Compound)
	for {
		id, err := r.readByte()
		if err != nil {
			return nil, err
		}
		t := TagType(id)
		if t == TypeEnd {
			return c, nil
		}

		name, err := r.readString()
		if err != nil {
			return nil, err
		}
		tag, err := r.readPayload(t, depth+1)
		if err != nil {
			return nil, err
		}
		c[name] = tag
	}
}
