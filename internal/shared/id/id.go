// Package id provides centralized ID generation for the studio backend.
//
// IDs are ULIDs, optionally prefixed with their type (sess_*, msg_*,
// rnd_*), which keeps them lexicographically sortable by creation time and
// readable in logs.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ============================================================================
// ID Prefixes
// ============================================================================

const (
	SessionPrefix    = "sess"
	MessagePrefix    = "msg"
	AttachmentPrefix = "att"
	RenderPrefix     = "rnd"
	VariationPrefix  = "var"
	CollectionPrefix = "col"
	BlobPrefix       = "blob"
)

// ============================================================================
// ULID Generator
// ============================================================================

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
	now       func() time.Time
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the process-wide generator
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator with monotonic, cryptographically seeded
// entropy. IDs created within the same millisecond still sort in creation
// order.
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source
// and time function. Useful for deterministic tests.
func NewGeneratorWithEntropy(entropy io.Reader, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{
		entropy: entropy,
		now:     now,
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// ============================================================================
// Typed helpers
// ============================================================================

// Session returns a new session ID.
func (g *Generator) Session() string { return g.GenerateWithPrefix(SessionPrefix) }

// Message returns a new chat message ID.
func (g *Generator) Message() string { return g.GenerateWithPrefix(MessagePrefix) }

// Attachment returns a new attachment ID.
func (g *Generator) Attachment() string { return g.GenerateWithPrefix(AttachmentPrefix) }

// Render returns a new render ID.
func (g *Generator) Render() string { return g.GenerateWithPrefix(RenderPrefix) }

// Variation returns a new render variation ID.
func (g *Generator) Variation() string { return g.GenerateWithPrefix(VariationPrefix) }

// Collection returns a new collection ID.
func (g *Generator) Collection() string { return g.GenerateWithPrefix(CollectionPrefix) }

// Blob returns a bare ULID for blob storage names.
func (g *Generator) Blob() string { return g.GenerateString() }

// ============================================================================
// Validation
// ============================================================================

// IsValid checks if an ID string is a valid ULID
func IsValid(id string) bool {
	_, err := ulid.Parse(id)
	return err == nil
}

// IsValidPrefixed checks that id has the form prefix_ULID.
func IsValidPrefixed(id, prefix string) bool {
	rest, ok := strings.CutPrefix(id, prefix+"_")
	return ok && IsValid(rest)
}

// Timestamp extracts the creation time from a bare or prefixed ULID
func Timestamp(id string) (time.Time, error) {
	if i := strings.LastIndexByte(id, '_'); i >= 0 {
		id = id[i+1:]
	}
	parsed, err := ulid.Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
