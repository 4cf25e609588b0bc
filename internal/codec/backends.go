package codec

import (
	"compress/gzip"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Compile-time checks that every backend implements Codec.
var (
	_ Codec = Zstd{}
	_ Codec = Gzip{}
	_ Codec = None{}
)

// Zstd compresses with zstandard.
type Zstd struct{}

func (Zstd) Reader(r io.Reader) (io.ReadCloser, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return decoder.IOReadCloser(), nil
}

func (Zstd) Writer(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w)
}

func (Zstd) Extension() string { return "zst" }

// Gzip compresses with gzip.
type Gzip struct{}

func (Gzip) Reader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

func (Gzip) Writer(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriter(w), nil
}

func (Gzip) Extension() string { return "gz" }

// None passes data through unchanged.
type None struct{}

func (None) Reader(r io.Reader) (io.ReadCloser, error) {
	if rc, ok := r.(io.ReadCloser); ok {
		return rc, nil
	}
	return io.NopCloser(r), nil
}

func (None) Writer(w io.Writer) (io.WriteCloser, error) {
	if wc, ok := w.(io.WriteCloser); ok {
		return wc, nil
	}
	return nopWriteCloser{w}, nil
}

func (None) Extension() string { return "" }

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
