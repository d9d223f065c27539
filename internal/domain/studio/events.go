package studio

import "time"

// EventKind names a store mutation
type EventKind string

const (
	EventSessionCreated     EventKind = "session_created"
	EventSessionSelected    EventKind = "session_selected"
	EventSessionDeleted     EventKind = "session_deleted"
	EventMessageAdded       EventKind = "message_added"
	EventTyping             EventKind = "typing"
	EventSettingsUpdated    EventKind = "settings_updated"
	EventCollectionsUpdated EventKind = "collections_updated"
	EventGenerationStarted  EventKind = "generation_started"
	EventGenerationProgress EventKind = "generation_progress"
	EventRenderCreated      EventKind = "render_created"
	EventVariationAdded     EventKind = "variation_added"
	EventVariationSelected  EventKind = "variation_selected"
	EventOriginalImage      EventKind = "original_image"
	EventUIUpdated          EventKind = "ui_updated"
)

// Persistent reports whether the kind touches a persisted field
func (k EventKind) Persistent() bool {
	switch k {
	case EventSessionCreated, EventSessionDeleted, EventMessageAdded,
		EventSettingsUpdated, EventCollectionsUpdated, EventRenderCreated:
		return true
	}
	return false
}

// Event notifies subscribers that the store changed. It carries the
// generation status at emit time; everything else is read from the store.
type Event struct {
	Kind       EventKind      `json:"type"`
	Generation GenerationView `json:"generation"`
	SessionID  string         `json:"sessionId,omitempty"`
	RenderID   string         `json:"renderId,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// GenerationView mirrors types.GenerationStatus for event payloads
type GenerationView struct {
	IsGenerating bool   `json:"isGenerating"`
	Progress     int    `json:"progress"`
	Phase        string `json:"phase,omitempty"`
}

// DefaultSubscriberBuffer is the channel capacity used by Subscribe
const DefaultSubscriberBuffer = 64

// Subscribe registers a change listener. Sends never block: a subscriber
// that falls behind misses events but can always read the latest state.
// The returned func unsubscribes and closes the channel.
func (s *Store) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}
	ch := make(chan Event, buffer)

	s.subsMu.Lock()
	if s.subsClosed {
		s.subsMu.Unlock()
		close(ch)
		return ch, func() {}
	}
	key := s.nextSub
	s.nextSub++
	s.subs[key] = ch
	s.subsMu.Unlock()

	return ch, func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		if sub, ok := s.subs[key]; ok {
			delete(s.subs, key)
			close(sub)
		}
	}
}

func (s *Store) emit(ev Event) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Store) closeSubscribers() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for key, ch := range s.subs {
		delete(s.subs, key)
		close(ch)
	}
	s.subsClosed = true
}

// event builds an Event with the current generation status. Caller holds mu.
func (s *Store) event(kind EventKind) Event {
	view := GenerationView{
		IsGenerating: s.generation.IsGenerating,
		Progress:     s.generation.Progress,
	}
	if s.generation.Phase != nil {
		view.Phase = s.generation.Phase.Name
	}
	return Event{Kind: kind, Generation: view, Timestamp: s.clock.Now()}
}
