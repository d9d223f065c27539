package blob

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/visionaryvybes/Archi-sub000/internal/providers/storage"
	"github.com/visionaryvybes/Archi-sub000/internal/shared/id"
)

// RefPrefix marks a URL as a reference into the blob store
const RefPrefix = "blob:"

// DefaultMaxSize bounds a single upload
const DefaultMaxSize = 20 << 20

var (
	ErrEmpty      = errors.New("blob: empty upload")
	ErrTooLarge   = errors.New("blob: upload exceeds size limit")
	ErrNotImage   = errors.New("blob: upload is not an image")
	ErrInvalidRef = errors.New("blob: invalid reference")
)

// Info describes a stored blob
type Info struct {
	Ref  string `json:"ref"`
	MIME string `json:"mime"`
	Size int    `json:"size"`
}

// Store keeps uploaded source images in a key-value slot keyed by ULID
type Store struct {
	kv      storage.KV
	ids     *id.Generator
	maxSize int
}

// New creates a blob store on kv
func New(kv storage.KV, ids *id.Generator) *Store {
	if ids == nil {
		ids = id.Default()
	}
	return &Store{kv: kv, ids: ids, maxSize: DefaultMaxSize}
}

// WithMaxSize overrides the upload size limit
func (s *Store) WithMaxSize(n int) *Store {
	s.maxSize = n
	return s
}

// MaxSize returns the upload size limit in bytes
func (s *Store) MaxSize() int {
	return s.maxSize
}

// Save stores an image and returns its blob reference
func (s *Store) Save(ctx context.Context, data []byte) (Info, error) {
	if len(data) == 0 {
		return Info{}, ErrEmpty
	}
	if len(data) > s.maxSize {
		return Info{}, fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, len(data), s.maxSize)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return Info{}, fmt.Errorf("%w: detected %s", ErrNotImage, mtype.String())
	}

	key := s.ids.Blob()
	if err := s.kv.Set(ctx, key, data); err != nil {
		return Info{}, fmt.Errorf("save blob: %w", err)
	}

	return Info{Ref: RefPrefix + key, MIME: mtype.String(), Size: len(data)}, nil
}

// Read returns the bytes behind a blob reference
func (s *Store) Read(ctx context.Context, ref string) ([]byte, error) {
	key, ok := strings.CutPrefix(ref, RefPrefix)
	if !ok || !id.IsValid(key) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}

	data, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", key, err)
	}
	return data, nil
}

// Base64 reads a blob reference and encodes it for an upstream payload
func (s *Store) Base64(ctx context.Context, ref string) (string, error) {
	data, err := s.Read(ctx, ref)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// IsRef reports whether url points into the blob store
func IsRef(url string) bool {
	return strings.HasPrefix(url, RefPrefix)
}

// DataURL builds a data URL from a MIME type and base64 payload
func DataURL(mime, b64 string) string {
	return "data:" + mime + ";base64," + b64
}

// ParseDataURL splits a base64 data URL into its MIME type and payload
func ParseDataURL(url string) (mime, b64 string, ok bool) {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return "", "", false
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", "", false
	}
	mime, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return "", "", false
	}
	return mime, payload, true
}
