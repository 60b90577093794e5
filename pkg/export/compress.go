package export

import (
	"bytes"
	"io"

	"github.com/golang/snappy"
)

// CompressedExt is appended to compressed artifact names.
const CompressedExt = ".sz"

// Compress encodes data in the snappy framing format.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := snappy.NewBufferedWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	return io.ReadAll(snappy.NewReader(bytes.NewReader(data)))
}
