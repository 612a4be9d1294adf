package acquisition

import (
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

const samplePage = "<html><body><table id=\"matchlogs_for\"></table></body></html>"

func brotliBytes(t *testing.T, data string) []byte {
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	_, err := w.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDecodeBody(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	zstdBody := enc.EncodeAll([]byte(samplePage), nil)
	require.NoError(t, enc.Close())

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, err = gw.Write([]byte(samplePage))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	testCases := []struct {
		name     string
		encoding string
		body     []byte
	}{
		{name: "identity", encoding: "", body: []byte(samplePage)},
		{name: "brotli", encoding: "br", body: brotliBytes(t, samplePage)},
		{name: "zstd", encoding: "zstd", body: zstdBody},
		{name: "gzip", encoding: "gzip", body: gz.Bytes()},
		{name: "gzip already inflated", encoding: "gzip", body: []byte(samplePage)},
		{name: "unknown encoding", encoding: "compress", body: []byte(samplePage)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := decodeBody(tc.encoding, tc.body)
			require.NoError(t, err)
			require.Equal(t, samplePage, string(out))
		})
	}
}

func TestDecodeBodyCorrupt(t *testing.T) {
	_, err := decodeBody("zstd", []byte("definitely not zstd"))
	require.Error(t, err)
}
