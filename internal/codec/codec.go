// Package codec provides compression for exported report files, selected
// by file extension.
package codec

import (
	"io"
	"strings"
)

// Codec wraps readers and writers with a compression scheme.
type Codec interface {
	// Reader wraps r to decompress data read from it.
	Reader(r io.Reader) (io.ReadCloser, error)
	// Writer wraps w to compress data written to it.
	Writer(w io.Writer) (io.WriteCloser, error)
	// Extension returns the file extension without dot (e.g. "zst", "gz").
	// Empty string means no compression.
	Extension() string
}

// ForPath picks the codec matching the path's extension: ".zst" for zstd,
// ".gz" for gzip, anything else uncompressed.
func ForPath(path string) Codec {
	switch {
	case strings.HasSuffix(path, ".zst"):
		return Zstd{}
	case strings.HasSuffix(path, ".gz"):
		return Gzip{}
	default:
		return None{}
	}
}
