package studio

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/visionaryvybes/Archi-sub000/internal/providers/blob"
	"github.com/visionaryvybes/Archi-sub000/internal/providers/generation"
	"github.com/visionaryvybes/Archi-sub000/internal/shared/clock"
	"github.com/visionaryvybes/Archi-sub000/internal/shared/types"
)

const (
	progressStep    = 5
	progressCeiling = 90

	outcomeSuccess         = "success"
	outcomeReportedFailure = "reported_failure"
	outcomeError           = "error"
)

// generationJob carries what a cycle captured when it started
type generationJob struct {
	prompt        string
	settings      types.RenderSettings
	sessionID     string
	originalImage string
	startedAt     time.Time

	stopTicker context.CancelFunc
	tickerDone chan struct{}
}

// Generation returns the current generation status
func (s *Store) Generation() types.GenerationStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneStatus(s.generation)
}

// CurrentRender returns the render shown on the canvas, if any
func (s *Store) CurrentRender() (types.Render, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentRender == nil {
		return types.Render{}, false
	}
	return s.currentRender.Clone(), true
}

// RecentRenders returns up to MaxRecentRenders renders, most recent first
func (s *Store) RecentRenders() []types.Render {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRenders(s.recentRenders)
}

// OriginalImage returns the source image URL, or "" when unset
func (s *Store) OriginalImage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.originalImage
}

// SetOriginalImage sets the source image; "" clears it. It is ignored once
// the store is closed.
func (s *Store) SetOriginalImage(url string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.originalImage = strings.TrimSpace(url)
	ev := s.event(EventOriginalImage)
	s.mu.Unlock()

	s.emit(ev)
}

// Generate runs one generation cycle and blocks until its render is
// written. Endpoint failures never surface: they produce a fallback render.
// The only errors are ErrEmptyPrompt, ErrGenerationInFlight and ErrClosed.
func (s *Store) Generate(ctx context.Context, prompt string) (types.Render, error) {
	job, err := s.beginGeneration(prompt)
	if err != nil {
		return types.Render{}, err
	}
	return s.runGeneration(ctx, job), nil
}

// StartGenerate starts a generation cycle in the background under the
// configured timeout and returns once it is in flight.
func (s *Store) StartGenerate(prompt string) error {
	job, err := s.beginGeneration(prompt)
	if err != nil {
		return err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.generationTimeout)
		defer cancel()
		s.runGeneration(ctx, job)
	}()
	return nil
}

// beginGeneration claims the controller and starts the progress ticker
func (s *Store) beginGeneration(prompt string) (*generationJob, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if s.generation.IsGenerating {
		s.mu.Unlock()
		s.metrics.IncGenerationsRejected()
		return nil, ErrGenerationInFlight
	}

	s.generation = types.GenerationStatus{IsGenerating: true}
	s.inflight.Add(1)

	tickCtx, stopTicker := context.WithCancel(s.baseCtx)
	job := &generationJob{
		prompt:        prompt,
		settings:      s.settings.Clone(),
		sessionID:     s.activeSessionID,
		originalImage: s.originalImage,
		startedAt:     s.clock.Now(),
		stopTicker:    stopTicker,
		tickerDone:    make(chan struct{}),
	}
	ticker := s.clock.NewTicker(s.tick)
	ev := s.event(EventGenerationStarted)
	s.mu.Unlock()

	s.metrics.GenerationStarted()
	go s.runTicker(tickCtx, ticker, job.tickerDone)

	ev.SessionID = job.sessionID
	s.emit(ev)
	s.logger.Info("Generation started",
		zap.String("sessionId", job.sessionID),
		zap.String("style", job.settings.Style.ID))
	return job, nil
}

// runTicker advances synthetic progress until stopped. It never completes
// the cycle.
func (s *Store) runTicker(ctx context.Context, ticker clock.Ticker, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if ev, ok := s.advanceProgress(); ok {
				s.emit(ev)
			}
		}
	}
}

func (s *Store) advanceProgress() (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.generation.IsGenerating || s.generation.Progress >= progressCeiling {
		return Event{}, false
	}
	next := s.generation.Progress + progressStep
	if next > progressCeiling {
		next = progressCeiling
	}
	phase := s.catalog.PhaseFor(next)
	s.generation.Progress = next
	s.generation.Phase = &phase
	return s.event(EventGenerationProgress), true
}

// runGeneration issues the request, joins the ticker and writes the
// terminal state. It always produces exactly one render.
func (s *Store) runGeneration(ctx context.Context, job *generationJob) types.Render {
	defer s.inflight.Done()
	defer s.metrics.GenerationFinished()

	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.baseCtx, cancel)
	defer stop()

	imageURL, outcome := s.requestImage(reqCtx, job)

	job.stopTicker()
	<-job.tickerDone

	s.mu.Lock()
	render := types.Render{
		ID:        s.ids.Render(),
		ImageURL:  imageURL,
		Prompt:    job.prompt,
		Style:     job.settings.Style.Name,
		CreatedAt: s.clock.Now(),
		SessionID: job.sessionID,
		Settings:  job.settings,
	}

	s.generation = types.GenerationStatus{Progress: 100}
	s.recentRenders = append([]types.Render{render}, s.recentRenders...)
	if len(s.recentRenders) > MaxRecentRenders {
		s.recentRenders = s.recentRenders[:MaxRecentRenders]
	}
	current := render.Clone()
	s.currentRender = &current
	s.variations = nil
	s.rendersUsed++

	elapsed := render.CreatedAt.Sub(job.startedAt)
	s.stats.add(elapsed, outcome)
	ev := s.event(EventRenderCreated)
	s.mu.Unlock()

	s.metrics.RecordRender(outcome, elapsed)
	s.logger.Info("Generation finished",
		zap.String("renderId", render.ID),
		zap.String("outcome", outcome),
		zap.Duration("elapsed", elapsed))

	ev.SessionID = render.SessionID
	ev.RenderID = render.ID
	s.emit(ev)
	return render.Clone()
}

// requestImage calls the endpoint and returns the image URL of the render
// together with the cycle outcome.
func (s *Store) requestImage(ctx context.Context, job *generationJob) (string, string) {
	fallback := job.originalImage
	if fallback == "" {
		fallback = s.placeholder
	}

	if s.gen == nil {
		s.logger.Warn("No generator configured, using fallback image")
		return fallback, outcomeError
	}

	req := generation.GenerateRequest{
		Prompt:      job.prompt,
		Style:       job.settings.Style.ID,
		ImageBase64: s.sourceImageBase64(ctx, job.originalImage),
		AspectRatio: string(job.settings.AspectRatio),
	}

	resp, err := s.gen.Generate(ctx, req)
	switch {
	case err != nil:
		s.logger.Warn("Generation request failed", zap.Error(err))
		return fallback, outcomeError
	case !resp.HasImage():
		s.logger.Warn("Generation reported failure", zap.String("error", resp.Error))
		return fallback, outcomeReportedFailure
	}
	return blob.DataURL("image/png", resp.ImageBase64), outcomeSuccess
}

// sourceImageBase64 converts the original image to a base64 payload. Blob
// references and data URLs are supported; failures are logged and the
// request proceeds without an image.
func (s *Store) sourceImageBase64(ctx context.Context, url string) string {
	switch {
	case url == "":
		return ""
	case blob.IsRef(url):
		if s.blobs == nil {
			return ""
		}
		b64, err := s.blobs.Base64(ctx, url)
		if err != nil {
			s.logger.Warn("Failed to convert image to base64", zap.String("ref", url), zap.Error(err))
			return ""
		}
		return b64
	default:
		if _, payload, ok := blob.ParseDataURL(url); ok {
			return payload
		}
		return ""
	}
}
