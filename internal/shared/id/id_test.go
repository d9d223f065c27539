package id

import (
	"bytes"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	gen := NewGenerator()

	id1 := gen.Generate()
	id2 := gen.Generate()

	if id1.String() == id2.String() {
		t.Error("Generated IDs should be unique")
	}
}

func TestGenerateString(t *testing.T) {
	gen := NewGenerator()

	id := gen.GenerateString()

	if len(id) != 26 {
		t.Errorf("ULID should be 26 characters, got %d", len(id))
	}
}

func TestTypedHelpers(t *testing.T) {
	gen := NewGenerator()

	tests := []struct {
		got    string
		prefix string
	}{
		{gen.Session(), SessionPrefix},
		{gen.Message(), MessagePrefix},
		{gen.Attachment(), AttachmentPrefix},
		{gen.Render(), RenderPrefix},
		{gen.Variation(), VariationPrefix},
		{gen.Collection(), CollectionPrefix},
	}

	for _, tt := range tests {
		if !strings.HasPrefix(tt.got, tt.prefix+"_") {
			t.Errorf("ID should start with '%s_', got: %s", tt.prefix, tt.got)
		}
		if !IsValidPrefixed(tt.got, tt.prefix) {
			t.Errorf("ID should be a valid prefixed ULID: %s", tt.got)
		}
	}

	if !IsValid(gen.Blob()) {
		t.Error("Blob IDs should be bare ULIDs")
	}
}

func TestIsValidPrefixed(t *testing.T) {
	gen := NewGenerator()

	if IsValidPrefixed(gen.Render(), SessionPrefix) {
		t.Error("Render ID must not validate as a session ID")
	}
	if IsValidPrefixed("sess_not-a-ulid", SessionPrefix) {
		t.Error("Malformed ULID must not validate")
	}
}

func TestSortableByCreation(t *testing.T) {
	gen := NewGenerator()

	ids := make([]string, 100)
	for i := range ids {
		ids[i] = gen.Message()
	}

	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	for i := range ids {
		if ids[i] != sorted[i] {
			t.Fatalf("IDs should sort in creation order, mismatch at %d", i)
		}
	}
}

func TestDeterministicEntropy(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	now := func() time.Time { return fixed }

	a := NewGeneratorWithEntropy(bytes.NewReader(make([]byte, 64)), now)
	b := NewGeneratorWithEntropy(bytes.NewReader(make([]byte, 64)), now)

	if a.GenerateString() != b.GenerateString() {
		t.Error("Same entropy and time should give the same ULID")
	}

	ts, err := Timestamp(a.Render())
	if err != nil {
		t.Fatalf("Timestamp failed: %v", err)
	}
	if !ts.Equal(fixed) {
		t.Errorf("Expected timestamp %v, got %v", fixed, ts)
	}
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()

	const workers = 10
	const perWorker = 100

	var (
		mu   sync.Mutex
		seen = make(map[string]struct{}, workers*perWorker)
		wg   sync.WaitGroup
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := gen.Session()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Errorf("Expected %d unique IDs, got %d", workers*perWorker, len(seen))
	}
}
