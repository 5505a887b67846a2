package compress

import "fmt"

// Method is the single-byte compression tag stored in front of each record
// payload inside a container.
type Method uint8

const (
	MethodGzip Method = 0x1 // MethodGzip is gzip-wrapped deflate.
	MethodZlib Method = 0x2 // MethodZlib is zlib-wrapped deflate; the only method the encoder emits.
	MethodNone Method = 0x3 // MethodNone is an uncompressed passthrough.
)

func (m Method) String() string {
	switch m {
	case MethodGzip:
		return "Gzip"
	case MethodZlib:
		return "Zlib"
	case MethodNone:
		return "None"
	default:
		return fmt.Sprintf("Unknown(0x%02x)", uint8(m))
	}
}
