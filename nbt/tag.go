// Package nbt implements the named binary tag value model used by region
// containers and level metadata, together with its big-endian wire codec.
//
// The tag tree is a closed set of twelve variants. Each variant is a distinct
// Go type implementing the Tag interface, so consumers can switch exhaustively
// on the concrete type or on Type().
//
// Only whole-tree operations are provided: Marshal encodes a root compound to
// bytes and Unmarshal decodes bytes back into a root compound. Partial or
// streaming access is deliberately out of scope.
package nbt

// TagType identifies a tag variant on the wire.
type TagType uint8

const (
	TypeEnd       TagType = 0x00 // terminates a compound, element type of an empty list
	TypeByte      TagType = 0x01
	TypeShort     TagType = 0x02
	TypeInt       TagType = 0x03
	TypeLong      TagType = 0x04
	TypeFloat     TagType = 0x05
	TypeDouble    TagType = 0x06
	TypeByteArray TagType = 0x07
	TypeString    TagType = 0x08
	TypeList      TagType = 0x09
	TypeCompound  TagType = 0x0a
	TypeIntArray  TagType = 0x0b
	TypeLongArray TagType = 0x0c
)

func (t TagType) String() string {
	switch t {
	case TypeEnd:
		return "End"
	case TypeByte:
		return "Byte"
	case TypeShort:
		return "Short"
	case TypeInt:
		return "Int"
	case TypeLong:
		return "Long"
	case TypeFloat:
		return "Float"
	case TypeDouble:
		return "Double"
	case TypeByteArray:
		return "ByteArray"
	case TypeString:
		return "String"
	case TypeList:
		return "List"
	case TypeCompound:
		return "Compound"
	case TypeIntArray:
		return "IntArray"
	case TypeLongArray:
		return "LongArray"
	default:
		return "Unknown"
	}
}

// Tag is the interface satisfied by every tag variant.
type Tag interface {
	// Type returns the wire type of the tag.
	Type() TagType
}

type (
	// Byte is a signed 8-bit integer tag.
	Byte int8
	// Short is a signed 16-bit integer tag.
	Short int16
	// Int is a signed 32-bit integer tag.
	Int int32
	// Long is a signed 64-bit integer tag.
	Long int64
	// Float is a 32-bit floating point tag.
	Float float32
	// Double is a 64-bit floating point tag.
	Double float64
	// String is a UTF-8 string tag.
	String string
	// ByteArray is a homogeneous array of signed 8-bit integers.
	ByteArray []int8
	// IntArray is a homogeneous array of signed 32-bit integers.
	IntArray []int32
	// LongArray is a homogeneous array of signed 64-bit integers.
	LongArray []int64
	// List is an ordered sequence of tags. All elements must share one wire
	// type; Marshal rejects heterogeneous lists.
	List []Tag
	// Compound maps unique string keys to tags. Key order carries no meaning;
	// the codec writes keys in sorted order for determinism.
	Compound map[string]Tag
)

func (Byte) Type() TagType      { return TypeByte }
func (Short) Type() TagType     { return TypeShort }
func (Int) Type() TagType       { return TypeInt }
func (Long) Type() TagType      { return TypeLong }
func (Float) Type() TagType     { return TypeFloat }
func (Double) Type() TagType    { return TypeDouble }
func (String) Type() TagType    { return TypeString }
func (ByteArray) Type() TagType { return TypeByteArray }
func (IntArray) Type() TagType  { return TypeIntArray }
func (LongArray) Type() TagType { return TypeLongArray }
func (List) Type() TagType      { return TypeList }
func (Compound) Type() TagType  { return TypeCompound }

// GetCompound returns the compound stored under key, or nil if the key is
// absent or holds a different variant.
func (c Compound) GetCompound(key string) Compound {
	v, ok := c[key].(Compound)
	if !ok {
		return nil
	}

	return v
}

// GetList returns the list stored under key, or nil if the key is absent or
// holds a different variant.
func (c Compound) GetList(key string) List {
	v, ok := c[key].(List)
	if !ok {
		return nil
	}

	return v
}

// GetString returns the string stored under key and whether it was present
// with the string variant.
func (c Compound) GetString(key string) (string, bool) {
	v, ok := c[key].(String)
	if !ok {
		return "", false
	}

	return string(v), true
}
