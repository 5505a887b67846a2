package nbt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	root := Compound{
		"byte":   Byte(-12),
		"short":  Short(-30000),
		"int":    Int(123456789),
		"long":   Long(-1234567890123456789),
		"float":  Float(1.5),
		"double": Double(-2.25),
		"string": String("hello, world"),
		"bytes":  ByteArray{-128, -1, 0, 1, 127},
		"ints":   IntArray{-2147483648, 0, 2147483647},
		"longs":  LongArray{-9223372036854775808, 9223372036854775807},
		"empty":  List{},
		"list":   List{String("a"), String("b")},
		"nested": Compound{
			"inner": Compound{
				"deep": List{Compound{"k": Int(1)}, Compound{"k": Int(2)}},
			},
		},
	}

	data, err := Marshal(root)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, root, got)
}

func TestMarshalDeterministic(t *testing.T) {
	root := Compound{"b": Int(2), "a": Int(1), "c": Int(3)}

	first, err := Marshal(root)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Marshal(root)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestMarshalRejectsMixedList(t *testing.T) {
	_, err := Marshal(Compound{"bad": List{Int(1), String("x")}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "list element")
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty input", data: nil},
		{name: "non-compound root", data: []byte{0x01, 0x00, 0x00, 0x07}},
		{name: "truncated name", data: []byte{0x0a, 0x00, 0x05, 'a'}},
		{name: "truncated payload", data: []byte{0x0a, 0x00, 0x00, 0x03, 0x00, 0x01, 'x', 0x00, 0x00}},
		{name: "bogus array count", data: []byte{
			0x0a, 0x00, 0x00, // root
			0x0b, 0x00, 0x01, 'a', // IntArray "a"
			0x7f, 0xff, 0xff, 0xff, // count far beyond input
		}},
		{name: "unknown tag type", data: []byte{0x0a, 0x00, 0x00, 0x3f, 0x00, 0x01, 'x'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal(tt.data)
			require.Error(t, err)
		})
	}
}

func TestUnmarshalIgnoresTrailingPadding(t *testing.T) {
	data, err := Marshal(Compound{"v": Byte(1)})
	require.NoError(t, err)

	padded := append(data, make([]byte, 64)...)
	got, err := Unmarshal(padded)
	require.NoError(t, err)
	require.Equal(t, Compound{"v": Byte(1)}, got)
}

func TestEmptyListElementTypeCanonicalized(t *testing.T) {
	// A list that arrives typed but empty decodes to the same value an
	// End-typed empty list does.
	data := []byte{
		0x0a, 0x00, 0x00, // root compound
		0x09, 0x00, 0x01, 'l', // list "l"
		0x03,                   // element type Int
		0x00, 0x00, 0x00, 0x00, // count 0
		0x00, // end
	}

	got, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, Compound{"l": List{}}, got)
}

func TestTagTypeString(t *testing.T) {
	require.Equal(t, "Compound", TypeCompound.String())
	require.Equal(t, "LongArray", TypeLongArray.String())
	require.Equal(t, "Unknown", TagType(0x7f).String())
}
