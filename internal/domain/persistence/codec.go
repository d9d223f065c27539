package persistence

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/visionaryvybes/Archi-sub000/internal/domain/studio"
)

// Compression selects how envelopes are compressed on write
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

// Version is the envelope version written by this package
const Version = 0

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	gzipMagic = []byte{0x1f, 0x8b}
)

// Envelope is the stored document
type Envelope struct {
	State   *studio.Snapshot `json:"state"`
	Version int              `json:"version"`
}

// Codec encodes envelopes and decodes any supported format
type Codec struct {
	compression Compression
	encoder     *zstd.Encoder
	decoder     *zstd.Decoder
}

// NewCodec creates a codec writing with the given compression
func NewCodec(compression Compression) (*Codec, error) {
	if compression == "" {
		compression = CompressionNone
	}
	switch compression {
	case CompressionNone, CompressionGzip, CompressionZstd:
	default:
		return nil, fmt.Errorf("unsupported compression %q", compression)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &Codec{compression: compression, encoder: encoder, decoder: decoder}, nil
}

// Compression returns the write compression
func (c *Codec) Compression() Compression {
	return c.compression
}

// Encode serializes env and compresses it
func (c *Codec) Encode(env Envelope) ([]byte, error) {
	data, err := sonic.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}

	switch c.compression {
	case CompressionZstd:
		return c.encoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
	case CompressionGzip:
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("failed to gzip state: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("failed to gzip state: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return data, nil
	}
}

// Decode decompresses data when it carries a known frame magic and parses
// the envelope.
func (c *Codec) Decode(data []byte) (Envelope, error) {
	raw, err := c.decompress(data)
	if err != nil {
		return Envelope{}, err
	}

	var env Envelope
	if err := sonic.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("failed to decode state: %w", err)
	}
	return env, nil
}

func (c *Codec) decompress(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		out, err := c.decoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress zstd state: %w", err)
		}
		return out, nil
	case bytes.HasPrefix(data, gzipMagic):
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip state: %w", err)
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress gzip state: %w", err)
		}
		return out, nil
	default:
		return data, nil
	}
}

// Close releases the zstd encoder and decoder
func (c *Codec) Close() {
	c.encoder.Close()
	c.decoder.Close()
}
