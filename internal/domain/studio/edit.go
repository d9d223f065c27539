package studio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/visionaryvybes/Archi-sub000/internal/providers/blob"
	"github.com/visionaryvybes/Archi-sub000/internal/providers/generation"
	"github.com/visionaryvybes/Archi-sub000/internal/shared/types"
)

// EditResult is what the editing endpoint produced. Either field may be nil
// but not both.
type EditResult struct {
	Variation *types.RenderVariation `json:"variation,omitempty"`
	Reply     *types.ChatMessage     `json:"reply,omitempty"`
}

// Variations returns the variations of the current render
func (s *Store) Variations() []types.RenderVariation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.RenderVariation{}, s.variations...)
}

// Edit sends a conversational edit of the current render to the editing
// endpoint. An image reply becomes a variation of the current render and a
// text reply becomes an assistant message in the active session.
func (s *Store) Edit(ctx context.Context, instruction string) (EditResult, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return EditResult{}, ErrEmptyPrompt
	}
	if s.gen == nil {
		return EditResult{}, fmt.Errorf("%w: no editing endpoint configured", ErrEditFailed)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return EditResult{}, ErrClosed
	}
	if s.currentRender == nil {
		s.mu.Unlock()
		return EditResult{}, ErrNoCurrentRender
	}
	parent := s.currentRender.Clone()

	var created bool
	idx := s.indexOfSession(s.activeSessionID)
	if idx < 0 {
		original := s.originalImage
		s.createSessionLocked()
		// A new session clears the canvas; keep editing the same render
		s.currentRender = &parent
		s.originalImage = original
		idx = 0
		created = true
	}
	session := &s.sessions[idx]
	sessionID := session.ID

	history := make([]generation.HistoryEntry, 0, len(session.Messages))
	for _, m := range session.Messages {
		history = append(history, generation.HistoryEntry{Role: string(m.Role), Content: m.Content})
	}

	now := s.clock.Now()
	if len(session.Messages) == 0 {
		session.Title = truncateRunes(instruction, titleRunes) + "..."
	}
	session.Messages = append(session.Messages, types.ChatMessage{
		ID:        s.ids.Message(),
		Role:      types.RoleUser,
		Content:   instruction,
		Timestamp: now,
	})
	session.UpdatedAt = now
	s.metrics.IncMessages(string(types.RoleUser))

	events := make([]Event, 0, 2)
	if created {
		events = append(events, s.event(EventSessionCreated))
	}
	events = append(events, s.event(EventMessageAdded))
	s.mu.Unlock()

	for _, ev := range events {
		ev.SessionID = sessionID
		s.emit(ev)
	}

	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.baseCtx, cancel)
	defer stop()

	resp, err := s.gen.Chat(reqCtx, generation.ChatRequest{
		Message:             instruction,
		CurrentImageBase64:  s.sourceImageBase64(reqCtx, parent.ImageURL),
		ConversationHistory: history,
	})
	if err == nil && !resp.Success {
		err = errors.New(resp.Error)
	}
	if err == nil && resp.ImageBase64 == "" && resp.TextResponse == "" {
		err = errors.New("empty response")
	}
	if err != nil {
		s.metrics.RecordEdit("error")
		s.logger.Warn("Edit failed", zap.String("renderId", parent.ID), zap.Error(err))
		return EditResult{}, fmt.Errorf("%w: %w", ErrEditFailed, err)
	}

	result, err := s.applyEdit(sessionID, parent.ID, resp)
	if err != nil {
		return EditResult{}, err
	}
	s.metrics.RecordEdit("success")
	return result, nil
}

func (s *Store) applyEdit(sessionID, parentID string, resp *generation.ChatResponse) (EditResult, error) {
	var result EditResult
	events := make([]Event, 0, 2)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return result, ErrClosed
	}
	if resp.ImageBase64 != "" {
		v := types.RenderVariation{
			ID:             s.ids.Variation(),
			ImageURL:       blob.DataURL("image/png", resp.ImageBase64),
			ParentRenderID: parentID,
		}
		s.variations = append(s.variations, v)
		result.Variation = &v
		events = append(events, s.event(EventVariationAdded))
	}
	if resp.TextResponse != "" {
		if idx := s.indexOfSession(sessionID); idx >= 0 {
			now := s.clock.Now()
			msg := types.ChatMessage{
				ID:        s.ids.Message(),
				Role:      types.RoleAssistant,
				Content:   resp.TextResponse,
				Timestamp: now,
			}
			session := &s.sessions[idx]
			session.Messages = append(session.Messages, msg)
			session.UpdatedAt = now
			s.metrics.IncMessages(string(types.RoleAssistant))

			reply := msg.Clone()
			result.Reply = &reply
			events = append(events, s.event(EventMessageAdded))
		}
	}
	s.mu.Unlock()

	for _, ev := range events {
		ev.SessionID = sessionID
		ev.RenderID = parentID
		s.emit(ev)
	}
	return result, nil
}

// SelectVariation shows a variation's image on the current render. It
// reports false when the variation or the current render is missing.
func (s *Store) SelectVariation(variationID string) bool {
	s.mu.Lock()
	if s.closed || s.currentRender == nil {
		s.mu.Unlock()
		return false
	}

	var found *types.RenderVariation
	for i := range s.variations {
		if s.variations[i].ID == variationID {
			found = &s.variations[i]
			break
		}
	}
	if found == nil {
		s.mu.Unlock()
		return false
	}

	updated := s.currentRender.Clone()
	updated.ImageURL = found.ImageURL
	s.currentRender = &updated
	ev := s.event(EventVariationSelected)
	s.mu.Unlock()

	ev.RenderID = updated.ID
	s.emit(ev)
	return true
}
