// Package compress provides the opaque string compression codec used to
// shrink text payloads before they are loaded into the MO buffer.
//
// The SBD session pipeline treats this codec as a black box: it never
// inspects the compressed bytes, only passes them through to SBDWT, and
// nothing in the pipeline decompresses inbound messages. This implementation is a DEFLATE-backed stand-in for the
// Unishox2-style codec real Iridium SBD deployments favour for short
// text, since no Unishox2 binding is available anywhere in the
// dependency set this driver draws from.
package compress

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
)

// Compress returns a compressed representation of s.
func Compress(s string) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write([]byte(s)); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress reverses Compress.
func Decompress(b []byte) (string, error) {
	r := flate.NewReader(bytes.NewReader(b))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
