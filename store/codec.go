package store

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec selects how artifacts are compressed on disk
type Codec string

const (
	// CodecNone stores plain JSON
	CodecNone Codec = "none"

	// CodecZstd stores zstd compressed JSON (better ratio)
	CodecZstd Codec = "zst"

	// CodecLZ4 stores lz4 frame compressed JSON (faster)
	CodecLZ4 Codec = "lz4"
)

// ErrUnknownCodec reports an unsupported codec name
var ErrUnknownCodec = errors.New("unknown codec")

// codecs in the order Load probes for them
var codecs = []Codec{CodecZstd, CodecLZ4, CodecNone}

// ParseCodec validates a codec name
func ParseCodec(s string) (Codec, error) {
	switch c := Codec(s); c {
	case CodecNone, CodecZstd, CodecLZ4:
		return c, nil
	case "":
		return CodecZstd, nil
	}
	return "", errors.Wrapf(ErrUnknownCodec, "%q", s)
}

// extension is appended to the artifact name
func (c Codec) extension() string {
	if c == CodecNone {
		return ""
	}
	return "." + string(c)
}

// writer wraps w so that bytes written are compressed. Close flushes the
// compressor but does not close w.
func (c Codec) writer(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case CodecZstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	case CodecLZ4:
		return lz4.NewWriter(w), nil
	case CodecNone:
		return nopWriteCloser{w}, nil
	}
	return nil, errors.Wrapf(ErrUnknownCodec, "%q", c)
}

// reader wraps r so that bytes read are decompressed
func (c Codec) reader(r io.Reader) (io.ReadCloser, error) {
	switch c {
	case CodecZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case CodecLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case CodecNone:
		return io.NopCloser(r), nil
	}
	return nil, errors.Wrapf(ErrUnknownCodec, "%q", c)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}
