package studio

import (
	"context"
	"sync"
	"time"

	"github.com/visionaryvybes/Archi-sub000/internal/domain/catalog"
	"github.com/visionaryvybes/Archi-sub000/internal/infrastructure/logging"
	"github.com/visionaryvybes/Archi-sub000/internal/infrastructure/monitoring"
	"github.com/visionaryvybes/Archi-sub000/internal/providers/generation"
	"github.com/visionaryvybes/Archi-sub000/internal/shared/clock"
	"github.com/visionaryvybes/Archi-sub000/internal/shared/id"
	"github.com/visionaryvybes/Archi-sub000/internal/shared/types"
)

const (
	// MaxRecentRenders bounds the recent renders list
	MaxRecentRenders = 12

	// DefaultPlaceholderImage is used when a generation yields no image
	DefaultPlaceholderImage = "https://images.unsplash.com/photo-1618221195710-dd6b41faaea6?w=800&h=600&fit=crop&q=80"

	defaultProgressTick      = 500 * time.Millisecond
	defaultReplyDelay        = 1500 * time.Millisecond
	defaultRenderLimit       = 1000
	defaultGenerationTimeout = 2 * time.Minute
)

// Generator calls the upstream image model
type Generator interface {
	Generate(ctx context.Context, req generation.GenerateRequest) (*generation.GenerateResponse, error)
	Chat(ctx context.Context, req generation.ChatRequest) (*generation.ChatResponse, error)
}

// BlobReader resolves blob references to base64 payloads
type BlobReader interface {
	Base64(ctx context.Context, ref string) (string, error)
}

// Options configures a Store. Zero values fall back to defaults.
type Options struct {
	Clock     clock.Clock
	IDs       *id.Generator
	Catalog   *catalog.Catalog
	Generator Generator
	Blobs     BlobReader
	Logger    *logging.Logger
	Metrics   *monitoring.Metrics

	PlaceholderImage  string
	ProgressTick      time.Duration
	ReplyDelay        time.Duration
	RenderLimit       int
	GenerationTimeout time.Duration

	// Snapshot seeds the persisted fields, usually from the persistence adapter
	Snapshot *Snapshot
}

// Store is the studio session store: sessions and messages, generation
// state, settings, collections and UI toggles behind a single lock.
type Store struct {
	mu sync.RWMutex

	// Persisted
	sessions      []types.ChatSession
	collections   []types.Collection
	recentRenders []types.Render
	settings      types.RenderSettings
	rendersUsed   int

	// Transient
	activeSessionID string
	currentRender   *types.Render
	originalImage   string
	variations      []types.RenderVariation
	generation      types.GenerationStatus
	ui              types.UIState
	replies         map[*pendingReply]clock.Timer
	stats           durationWindow

	clock   clock.Clock
	ids     *id.Generator
	catalog *catalog.Catalog
	gen     Generator
	blobs   BlobReader
	logger  *logging.Logger
	metrics *monitoring.Metrics

	placeholder       string
	tick              time.Duration
	replyDelay        time.Duration
	renderLimit       int
	generationTimeout time.Duration

	baseCtx    context.Context
	baseCancel context.CancelFunc
	inflight   sync.WaitGroup
	closed     bool

	subsMu     sync.Mutex
	subs       map[int]chan Event
	nextSub    int
	subsClosed bool
}

// New creates a store from opts
func New(opts Options) *Store {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.IDs == nil {
		opts.IDs = id.Default()
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.PlaceholderImage == "" {
		opts.PlaceholderImage = DefaultPlaceholderImage
	}
	if opts.ProgressTick <= 0 {
		opts.ProgressTick = defaultProgressTick
	}
	if opts.ReplyDelay <= 0 {
		opts.ReplyDelay = defaultReplyDelay
	}
	if opts.RenderLimit <= 0 {
		opts.RenderLimit = defaultRenderLimit
	}
	if opts.GenerationTimeout <= 0 {
		opts.GenerationTimeout = defaultGenerationTimeout
	}

	baseCtx, baseCancel := context.WithCancel(context.Background())

	s := &Store{
		clock:             opts.Clock,
		ids:               opts.IDs,
		catalog:           opts.Catalog,
		gen:               opts.Generator,
		blobs:             opts.Blobs,
		logger:            opts.Logger.Named("store"),
		metrics:           opts.Metrics,
		placeholder:       opts.PlaceholderImage,
		tick:              opts.ProgressTick,
		replyDelay:        opts.ReplyDelay,
		renderLimit:       opts.RenderLimit,
		generationTimeout: opts.GenerationTimeout,
		baseCtx:           baseCtx,
		baseCancel:        baseCancel,
		replies:           make(map[*pendingReply]clock.Timer),
		subs:              make(map[int]chan Event),
		stats:             newDurationWindow(statsWindow),
	}

	s.resetPersisted()
	s.ui = defaultUI()
	if opts.Snapshot != nil {
		s.restore(*opts.Snapshot)
	}

	s.metrics.SetSessions(len(s.sessions))
	s.metrics.SetCollections(len(s.collections))
	return s
}

// Close stops pending assistant replies, cancels an in-flight generation
// and waits for it to write its fallback render. Subscriber channels are
// closed afterwards.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for reply, timer := range s.replies {
		timer.Stop()
		delete(s.replies, reply)
	}
	s.mu.Unlock()

	s.baseCancel()
	s.inflight.Wait()

	s.closeSubscribers()
	s.logger.Info("Store closed")
}

// Closed reports whether Close has been called
func (s *Store) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Catalog returns the style catalog the store was built with
func (s *Store) Catalog() *catalog.Catalog {
	return s.catalog
}

// Usage reports the monthly render counter against the configured limit
func (s *Store) Usage() Usage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Usage{RendersUsedThisMonth: s.rendersUsed, RenderLimit: s.renderLimit}
}

// State returns a deep copy of the whole store
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{
		ActiveSessionID: s.activeSessionID,
		Sessions:        cloneSessions(s.sessions),
		IsTyping:        len(s.replies) > 0,
		OriginalImage:   s.originalImage,
		Variations:      append([]types.RenderVariation{}, s.variations...),
		Generation:      cloneStatus(s.generation),
		Settings:        s.settings.Clone(),
		Collections:     cloneCollections(s.collections),
		RecentRenders:   cloneRenders(s.recentRenders),
		Usage:           Usage{RendersUsedThisMonth: s.rendersUsed, RenderLimit: s.renderLimit},
		UI:              s.ui,
	}
	if s.currentRender != nil {
		r := s.currentRender.Clone()
		st.CurrentRender = &r
	}
	return st
}

// Usage is the render quota view
type Usage struct {
	RendersUsedThisMonth int `json:"rendersUsedThisMonth"`
	RenderLimit          int `json:"renderLimit"`
}

// State is the full observable state of the store
type State struct {
	ActiveSessionID string                  `json:"currentSessionId,omitempty"`
	Sessions        []types.ChatSession     `json:"sessions"`
	IsTyping        bool                    `json:"isTyping"`
	CurrentRender   *types.Render           `json:"currentRender"`
	OriginalImage   string                  `json:"originalImage,omitempty"`
	Variations      []types.RenderVariation `json:"variations"`
	Generation      types.GenerationStatus  `json:"generation"`
	Settings        types.RenderSettings    `json:"settings"`
	Collections     []types.Collection      `json:"collections"`
	RecentRenders   []types.Render          `json:"recentRenders"`
	Usage           Usage                   `json:"usage"`
	UI              types.UIState           `json:"ui"`
}

// resetPersisted installs the defaults of every persisted field. Caller
// holds mu or owns s exclusively.
func (s *Store) resetPersisted() {
	s.sessions = []types.ChatSession{}
	s.collections = defaultCollections(s.clock.Now())
	s.recentRenders = []types.Render{}
	s.settings = s.defaultSettings()
	s.rendersUsed = 0
}

func (s *Store) defaultSettings() types.RenderSettings {
	return types.RenderSettings{
		Style:       s.catalog.DefaultStyle(),
		Quality:     types.QualityStandard,
		Count:       1,
		AspectRatio: types.AspectLandscape,
		Strength:    75,
		Model:       types.ModelPro,
	}
}

func defaultCollections(now time.Time) []types.Collection {
	return []types.Collection{
		{ID: "favorites", Name: "Favorites", Icon: "heart", RenderIDs: []string{}, CreatedAt: now},
		{ID: "client-a", Name: "Client A Project", Icon: "folder", RenderIDs: []string{}, CreatedAt: now},
		{ID: "inspiration", Name: "Inspiration", Icon: "lightbulb", RenderIDs: []string{}, CreatedAt: now},
	}
}

func defaultUI() types.UIState {
	return types.UIState{
		RightPanelOpen: true,
		RightPanelTab:  types.PanelChat,
		ViewMode:       types.ViewImage,
	}
}

func cloneSessions(in []types.ChatSession) []types.ChatSession {
	out := make([]types.ChatSession, len(in))
	for i, sess := range in {
		out[i] = sess.Clone()
	}
	return out
}

func cloneCollections(in []types.Collection) []types.Collection {
	out := make([]types.Collection, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

func cloneRenders(in []types.Render) []types.Render {
	out := make([]types.Render, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}

func cloneStatus(st types.GenerationStatus) types.GenerationStatus {
	if st.Phase != nil {
		phase := *st.Phase
		st.Phase = &phase
	}
	return st
}
