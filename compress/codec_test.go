package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func testPayload() []byte {
	var buf bytes.Buffer
	for i := 0; i < 200; i++ {
		buf.WriteString("repetitive region payload data ")
		buf.WriteByte(byte(i))
	}

	return buf.Bytes()
}

func TestCodecRoundTrip(t *testing.T) {
	payload := testPayload()

	for _, m := range []Method{MethodGzip, MethodZlib, MethodNone} {
		t.Run(m.String(), func(t *testing.T) {
			codec, err := ForMethod(m)
			require.NoError(t, err)

			compressed, err := codec.Compress(payload)
			require.NoError(t, err)

			restored, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, payload, restored)
		})
	}
}

func TestDeflateMethodsActuallyCompress(t *testing.T) {
	payload := testPayload()

	for _, m := range []Method{MethodGzip, MethodZlib} {
		codec, err := ForMethod(m)
		require.NoError(t, err)

		compressed, err := codec.Compress(payload)
		require.NoError(t, err)
		require.Less(t, len(compressed), len(payload), "method %s", m)
	}
}

func TestForMethodRejectsUnknown(t *testing.T) {
	for _, m := range []Method{0, 4, 0x80, 0xff} {
		_, err := ForMethod(m)
		require.Error(t, err, "method 0x%02x", uint8(m))
	}
}

func TestDecompressRejectsGarbage(t *testing.T) {
	garbage := []byte{0xde, 0xad, 0xbe, 0xef}

	for _, m := range []Method{MethodGzip, MethodZlib} {
		codec, err := ForMethod(m)
		require.NoError(t, err)

		_, err = codec.Decompress(garbage)
		require.Error(t, err, "method %s", m)
	}
}

func TestNoOpCopies(t *testing.T) {
	src := []byte{1, 2, 3}
	codec := NoOpCodec{}

	out, err := codec.Compress(src)
	require.NoError(t, err)

	src[0] = 9
	require.Equal(t, []byte{1, 2, 3}, out)
}

func TestMethodString(t *testing.T) {
	require.Equal(t, "Gzip", MethodGzip.String())
	require.Equal(t, "Zlib", MethodZlib.String())
	require.Equal(t, "None", MethodNone.String())
	require.Equal(t, "Unknown(0x09)", Method(9).String())
}
