package compress

// NoOpCodec implements the uncompressed passthrough (method byte 3).
type NoOpCodec struct{}

var _ Codec = (*NoOpCodec)(nil)

// Compress returns a copy of the input data.
func (NoOpCodec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out := make([]byte, len(data))
	copy(out, data)

	return out, nil
}

// Decompress returns a copy of the input data.
func (NoOpCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out := make([]byte, len(data))
	copy(out, data)

	return out, nil
}
