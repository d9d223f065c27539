package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/visionaryvybes/Archi-sub000/internal/domain/studio"
	"github.com/visionaryvybes/Archi-sub000/internal/infrastructure/logging"
	"github.com/visionaryvybes/Archi-sub000/internal/infrastructure/monitoring"
	"github.com/visionaryvybes/Archi-sub000/internal/providers/storage"
	"github.com/visionaryvybes/Archi-sub000/internal/shared/clock"
)

const (
	// DefaultKey is the storage slot of the studio state
	DefaultKey = "visionary-studio-storage"

	// DefaultDebounce is the coalescing window for writes
	DefaultDebounce = 250 * time.Millisecond
)

// Options configures a Persister. Zero values fall back to defaults.
type Options struct {
	Key         string
	Compression Compression
	Debounce    time.Duration
	Clock       clock.Clock
	Logger      *logging.Logger
	Metrics     *monitoring.Metrics
}

// Persister loads the store snapshot at startup and writes it back after
// persistent changes
type Persister struct {
	kv       storage.KV
	key      string
	codec    *Codec
	debounce time.Duration
	clock    clock.Clock
	logger   *logging.Logger
	metrics  *monitoring.Metrics

	mu          sync.Mutex
	store       *studio.Store
	events      <-chan studio.Event
	unsubscribe func()
	done        chan struct{}
	timer       clock.Timer
	closed      bool

	// serializes writes so an older snapshot never lands after a newer one
	writeMu  sync.Mutex
	finished bool
}

// New creates a persister over kv
func New(kv storage.KV, opts Options) (*Persister, error) {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if err := storage.ValidateKey(opts.Key); err != nil {
		return nil, err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}

	codec, err := NewCodec(opts.Compression)
	if err != nil {
		return nil, err
	}

	return &Persister{
		kv:       kv,
		key:      opts.Key,
		codec:    codec,
		debounce: opts.Debounce,
		clock:    opts.Clock,
		logger:   opts.Logger.Named("persistence"),
		metrics:  opts.Metrics,
	}, nil
}

// Load reads the saved snapshot. It returns nil when nothing usable is
// stored, in which case the store starts from its defaults. Read and decode
// failures are logged, never returned.
func (p *Persister) Load(ctx context.Context) *studio.Snapshot {
	data, err := p.kv.Get(ctx, p.key)
	if errors.Is(err, storage.ErrNotFound) {
		p.logger.Info("No saved state, starting from defaults", zap.String("key", p.key))
		return nil
	}
	if err != nil {
		p.metrics.RecordPersistError("read")
		p.logger.Warn("Failed to read saved state, starting from defaults", zap.String("key", p.key), zap.Error(err))
		return nil
	}

	env, err := p.codec.Decode(data)
	if err != nil {
		p.metrics.RecordPersistError("decode")
		p.logger.Warn("Saved state is corrupt, starting from defaults", zap.String("key", p.key), zap.Error(err))
		return nil
	}
	if env.Version > Version {
		p.metrics.RecordPersistError("version")
		p.logger.Warn("Saved state has an unknown version, starting from defaults",
			zap.Int("version", env.Version))
		return nil
	}
	if env.State == nil {
		return nil
	}

	p.logger.Info("Loaded saved state",
		zap.Int("sessions", len(env.State.Sessions)),
		zap.Int("collections", len(env.State.Collections)),
		zap.Int("recentRenders", len(env.State.RecentRenders)),
		zap.Int("bytes", len(data)))
	return env.State
}

// Start subscribes to store and begins writing after persistent changes
func (p *Persister) Start(store *studio.Store) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("persister closed")
	}
	if p.store != nil {
		return fmt.Errorf("persister already started")
	}

	p.store = store
	p.events, p.unsubscribe = store.Subscribe(studio.DefaultSubscriberBuffer)
	p.done = make(chan struct{})
	go p.run(p.events, p.done)
	return nil
}

func (p *Persister) run(events <-chan studio.Event, done chan<- struct{}) {
	defer close(done)
	for ev := range events {
		if ev.Kind.Persistent() {
			p.schedule()
		}
	}
}

// schedule arms the write timer unless one is already pending. Events that
// arrive while it is armed ride on the same write.
func (p *Persister) schedule() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.timer != nil {
		return
	}
	p.timer = p.clock.AfterFunc(p.debounce, p.fire)
}

func (p *Persister) fire() {
	p.mu.Lock()
	p.timer = nil
	p.mu.Unlock()

	if err := p.write(context.Background()); err != nil {
		p.logger.Error("Failed to persist state", zap.Error(err))
	}
}

// Flush cancels a pending write and writes the current snapshot now
func (p *Persister) Flush(ctx context.Context) error {
	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.mu.Unlock()

	return p.write(ctx)
}

func (p *Persister) write(ctx context.Context) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.mu.Lock()
	store := p.store
	p.mu.Unlock()
	if store == nil || p.finished {
		return nil
	}

	snap := store.Snapshot()
	data, err := p.codec.Encode(Envelope{State: &snap, Version: Version})
	if err != nil {
		p.metrics.RecordPersistError("encode")
		return err
	}
	if err := p.kv.Set(ctx, p.key, data); err != nil {
		p.metrics.RecordPersistError("write")
		return fmt.Errorf("failed to write state: %w", err)
	}

	p.metrics.RecordPersistWrite(len(data))
	p.logger.Debug("Persisted state",
		zap.Int("bytes", len(data)),
		zap.String("compression", string(p.codec.Compression())))
	return nil
}

// Close stops listening for changes and writes a final snapshot
func (p *Persister) Close(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	unsubscribe, done := p.unsubscribe, p.done
	p.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
		<-done
	}

	err := p.Flush(ctx)

	p.writeMu.Lock()
	p.finished = true
	p.codec.Close()
	p.writeMu.Unlock()
	return err
}
