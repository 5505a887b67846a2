// Package jsondoc wraps JSON document trees behind a small closed value set.
//
// The standard library's generic decoding (map[string]any with float64
// numbers) erases the distinction between the literals 2 and 2.0. That
// distinction is load-bearing here: the tag codec maps integral document
// numbers and floating document numbers to different tag variants. Number
// therefore keeps the raw source literal, the same way json.Number does, and
// every other variant is a thin named type so consumers can switch
// exhaustively.
package jsondoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Value is the interface satisfied by every document node variant:
// Object, Array, String, Number, Bool and Null.
type Value interface {
	isValue()
}

type (
	// Object is a string-keyed document node. Keys are serialized in sorted
	// order; key order carries no meaning.
	Object map[string]Value
	// Array is an ordered document node.
	Array []Value
	// String is a literal string node.
	String string
	// Number is a numeric node holding the raw source literal, so whether it
	// was written as an integer or a float survives reparsing.
	Number string
	// Bool is a boolean node.
	Bool bool
	// Null is the null node.
	Null struct{}
)

func (Object) isValue() {}
func (Array) isValue()  {}
func (String) isValue() {}
func (Number) isValue() {}
func (Bool) isValue()   {}
func (Null) isValue()   {}

// FromInt builds a Number from a signed integer.
func FromInt(v int64) Number {
	return Number(strconv.FormatInt(v, 10))
}

// IsFloat reports whether the literal carries a fraction or exponent, which
// marks it as a floating point origin.
func (n Number) IsFloat() bool {
	return strings.ContainsAny(string(n), ".eE")
}

// Int64 parses the literal as a signed 64-bit integer.
func (n Number) Int64() (int64, error) {
	return strconv.ParseInt(string(n), 10, 64)
}

// Float64 parses the literal as a 64-bit float.
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// Marshal serializes a document tree to compact JSON.
func Marshal(v Value) ([]byte, error) {
	return json.Marshal(v)
}

// MarshalIndent serializes a document tree with two-space indentation, used
// for the human-facing level metadata file.
func MarshalIndent(v Value) ([]byte, error) {
	compact, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// Unmarshal parses JSON into a document tree. Numeric literals are kept
// verbatim. Trailing non-whitespace content is rejected.
func Unmarshal(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("jsondoc: trailing content after document")
	}

	return fromAny(raw)
}

func fromAny(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(v), nil
	case string:
		return String(v), nil
	case json.Number:
		return Number(v), nil
	case []any:
		arr := make(Array, 0, len(v))
		for _, e := range v {
			elem, err := fromAny(e)
			if err != nil {
				return nil, err
			}
			arr = append(arr, elem)
		}

		return arr, nil
	case map[string]any:
		obj := make(Object, len(v))
		for k, e := range v {
			elem, err := fromAny(e)
			if err != nil {
				return nil, err
			}
			obj[k] = elem
		}

		return obj, nil
	default:
		return nil, fmt.Errorf("jsondoc: unsupported decoded type %T", raw)
	}
}

// MarshalJSON writes the object with sorted keys.
func (o Object) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func (a Array) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, e := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		eb, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}
		buf.Write(eb)
	}
	buf.WriteByte(']')

	return buf.Bytes(), nil
}

func (s String) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// MarshalJSON emits the stored literal verbatim after validating it parses
// as a number, so a corrupt Number cannot produce invalid output.
func (n Number) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseFloat(string(n), 64); err != nil {
		return nil, fmt.Errorf("jsondoc: invalid number literal %q", string(n))
	}

	return []byte(n), nil
}

func (b Bool) MarshalJSON() ([]byte, error) {
	if b {
		return []byte("true"), nil
	}

	return []byte("false"), nil
}

func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}
