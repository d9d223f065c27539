package persistence

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/visionaryvybes/Archi-sub000/internal/domain/studio"
	"github.com/visionaryvybes/Archi-sub000/internal/infrastructure/logging"
	"github.com/visionaryvybes/Archi-sub000/internal/providers/storage"
	"github.com/visionaryvybes/Archi-sub000/internal/shared/clock"
	"github.com/visionaryvybes/Archi-sub000/internal/shared/types"
)

var epoch = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// countingKV records how many writes reach the backing store
type countingKV struct {
	*storage.Memory
	sets atomic.Int32
}

func (c *countingKV) Set(ctx context.Context, key string, value []byte) error {
	c.sets.Add(1)
	return c.Memory.Set(ctx, key, value)
}

func newPersister(t *testing.T, kv storage.KV, clk clock.Clock, compression Compression) *Persister {
	t.Helper()
	p, err := New(kv, Options{Clock: clk, Compression: compression})
	require.NoError(t, err)
	return p
}

func newStore(t *testing.T, clk clock.Clock, snap *studio.Snapshot) *studio.Store {
	t.Helper()
	s := studio.New(studio.Options{Clock: clk, Snapshot: snap})
	t.Cleanup(s.Close)
	return s
}

func TestLoadMissingReturnsNil(t *testing.T) {
	p := newPersister(t, storage.NewMemory(), clock.NewManual(epoch), CompressionNone)
	assert.Nil(t, p.Load(context.Background()))
}

func TestLoadCorruptLogsAndReturnsNil(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(context.Background(), DefaultKey, []byte("{not json")))

	core, logs := observer.New(zapcore.WarnLevel)
	p, err := New(kv, Options{Logger: logging.Wrap(zap.New(core))})
	require.NoError(t, err)

	assert.Nil(t, p.Load(context.Background()))
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "corrupt")
}

func TestLoadRejectsFutureVersion(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(context.Background(), DefaultKey, []byte(`{"state":{"rendersUsedThisMonth":3},"version":7}`)))

	p := newPersister(t, kv, clock.NewManual(epoch), CompressionNone)
	assert.Nil(t, p.Load(context.Background()))
}

func TestRoundTripAcrossCompressions(t *testing.T) {
	formats := []Compression{CompressionNone, CompressionGzip, CompressionZstd}

	for _, written := range formats {
		t.Run(string(written), func(t *testing.T) {
			ctx := context.Background()
			kv := storage.NewMemory()
			clk := clock.NewManual(epoch)

			s := newStore(t, clk, nil)
			_, err := s.CreateCollection("Lake House")
			require.NoError(t, err)
			require.NoError(t, s.SetStyleByID("japandi"))
			s.CreateSession()

			writer := newPersister(t, kv, clk, written)
			require.NoError(t, writer.Start(s))
			require.NoError(t, writer.Close(ctx))

			for _, reading := range formats {
				reader := newPersister(t, kv, clk, reading)
				snap := reader.Load(ctx)
				require.NotNil(t, snap, "reading with %s", reading)

				restored := newStore(t, clk, snap)
				assert.Equal(t, s.Collections(), restored.Collections())
				assert.Equal(t, s.Sessions(), restored.Sessions())
				assert.Equal(t, "japandi", restored.Settings().Style.ID)
			}
		})
	}
}

func TestEnvelopeFormat(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	clk := clock.NewManual(epoch)
	s := newStore(t, clk, nil)

	p := newPersister(t, kv, clk, CompressionNone)
	require.NoError(t, p.Start(s))
	require.NoError(t, p.Flush(ctx))

	data, err := kv.Get(ctx, DefaultKey)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, sonic.Unmarshal(data, &doc))
	assert.EqualValues(t, 0, doc["version"])

	state, ok := doc["state"].(map[string]any)
	require.True(t, ok)
	for _, field := range []string{"sessions", "collections", "recentRenders", "settings", "rendersUsedThisMonth"} {
		assert.Contains(t, state, field)
	}
	assert.NotContains(t, state, "ui")
	assert.NotContains(t, state, "generation")
}

func TestPersistentChangesAreCoalesced(t *testing.T) {
	kv := &countingKV{Memory: storage.NewMemory()}
	clk := clock.NewManual(epoch)
	s := newStore(t, clk, nil)

	p := newPersister(t, kv, clk, CompressionNone)
	require.NoError(t, p.Start(s))
	t.Cleanup(func() { _ = p.Close(context.Background()) })

	for i := 0; i < 5; i++ {
		s.CreateSession()
	}

	require.Eventually(t, func() bool {
		return len(p.events) == 0 && clk.Pending() == 1
	}, time.Second, time.Millisecond)
	assert.Zero(t, kv.sets.Load(), "nothing is written before the window closes")

	clk.Advance(DefaultDebounce)
	assert.EqualValues(t, 1, kv.sets.Load())

	snap := p.Load(context.Background())
	require.NotNil(t, snap)
	assert.Len(t, snap.Sessions, 5, "the write carries every change of the burst")
}

func TestTransientChangesAreIgnored(t *testing.T) {
	kv := &countingKV{Memory: storage.NewMemory()}
	clk := clock.NewManual(epoch)
	s := newStore(t, clk, nil)

	p := newPersister(t, kv, clk, CompressionNone)
	require.NoError(t, p.Start(s))
	t.Cleanup(func() { _ = p.Close(context.Background()) })

	open := false
	require.NoError(t, s.UpdateUI(types.UIPatch{RightPanelOpen: &open}))
	s.SetOriginalImage("https://example.com/room.jpg")

	assert.Never(t, func() bool { return clk.Pending() > 0 }, 50*time.Millisecond, 5*time.Millisecond)
	clk.Advance(time.Second)
	assert.Zero(t, kv.sets.Load())
}

func TestFlushCancelsPendingWrite(t *testing.T) {
	kv := &countingKV{Memory: storage.NewMemory()}
	clk := clock.NewManual(epoch)
	s := newStore(t, clk, nil)

	p := newPersister(t, kv, clk, CompressionNone)
	require.NoError(t, p.Start(s))
	t.Cleanup(func() { _ = p.Close(context.Background()) })

	s.CreateSession()
	require.Eventually(t, func() bool { return clk.Pending() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, p.Flush(context.Background()))
	assert.EqualValues(t, 1, kv.sets.Load())
	assert.Zero(t, clk.Pending())

	clk.Advance(time.Second)
	assert.EqualValues(t, 1, kv.sets.Load())
}

func TestCloseWritesFinalSnapshot(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	clk := clock.NewManual(epoch)
	s := newStore(t, clk, nil)

	p := newPersister(t, kv, clk, CompressionZstd)
	require.NoError(t, p.Start(s))

	sessionID := s.CreateSession()
	require.NoError(t, p.Close(ctx))
	require.NoError(t, p.Close(ctx), "close is idempotent")

	snap := newPersister(t, kv, clk, CompressionNone).Load(ctx)
	require.NotNil(t, snap)
	require.Len(t, snap.Sessions, 1)
	assert.Equal(t, sessionID, snap.Sessions[0].ID)

	assert.Error(t, p.Start(s))
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := New(storage.NewMemory(), Options{Compression: "lz4"})
	assert.Error(t, err)

	_, err = New(storage.NewMemory(), Options{Key: "../escape"})
	assert.Error(t, err)
}
