package acquisition

import (
	"bytes"
	"compress/gzip"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zstd"
)

var gzipMagic = []byte{0x1f, 0x8b}

// decodeBody undoes the content encodings advertised in the request headers.
// gzip bodies may already have been inflated by resty, those are left as is.
func decodeBody(contentEncoding string, body []byte) ([]byte, error) {
	enc := strings.ToLower(strings.TrimSpace(contentEncoding))
	switch {
	case enc == "" || len(body) == 0:
		return body, nil
	case strings.Contains(enc, "br"):
		out, err := io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
		if err != nil {
			return nil, errors.Wrap(err, "brotli decode")
		}
		return out, nil
	case strings.Contains(enc, "zstd"):
		r, err := zstd.NewReader(nil)
		if err != nil {
			return nil, errors.Wrap(err, "zstd reader")
		}
		defer r.Close()
		out, err := r.DecodeAll(body, nil)
		if err != nil {
			return nil, errors.Wrap(err, "zstd decode")
		}
		return out, nil
	case strings.Contains(enc, "gzip"):
		if !bytes.HasPrefix(body, gzipMagic) {
			return body, nil
		}
		r, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, errors.Wrap(err, "gzip reader")
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrap(err, "gzip decode")
		}
		return out, nil
	}
	return body, nil
}
