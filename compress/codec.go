// Package compress provides the compression method dispatch for region
// container payloads and level metadata.
//
// The container wire format identifies each record's compression with a
// single method byte: 1 gzip, 2 zlib, 3 uncompressed. Decoding accepts all
// three; the encoder only ever emits zlib, matching what the game writes.
package compress

import "fmt"

// Compressor compresses a payload into a newly allocated slice.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	// The input slice is not modified and the returned slice is owned by the
	// caller.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload previously produced by the matching
// Compressor.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original bytes.
	// Returns an error if the data is corrupted or was produced by a
	// different method.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions for a single compression method.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[Method]Codec{
	MethodGzip: GzipCodec{},
	MethodZlib: ZlibCodec{},
	MethodNone: NoOpCodec{},
}

// ForMethod returns the built-in Codec for the given method byte.
//
// Returns an error for method values outside the wire format's set; callers
// decoding container slots treat that as a per-slot skip, not a failure.
func ForMethod(m Method) (Codec, error) {
	if codec, ok := builtinCodecs[m]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression method: %s", m)
}
