package studio

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/visionaryvybes/Archi-sub000/internal/shared/types"
)

const (
	defaultSessionTitle = "New Chat"
	titleRunes          = 30
	replyQuoteRunes     = 50
)

var suggestedActions = []string{
	"Make it brighter",
	"Add more plants",
	"Try a different style",
	"Show variations",
}

type pendingReply struct {
	sessionID string
}

// CreateSession prepends an empty session, makes it active and clears the
// current render, original image and variations. It returns "" once the
// store is closed.
func (s *Store) CreateSession() string {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ""
	}
	sessionID := s.createSessionLocked()
	ev := s.event(EventSessionCreated)
	s.mu.Unlock()

	ev.SessionID = sessionID
	s.emit(ev)
	return sessionID
}

// createSessionLocked does the work of CreateSession. Caller holds mu.
func (s *Store) createSessionLocked() string {
	now := s.clock.Now()
	session := types.ChatSession{
		ID:        s.ids.Session(),
		Title:     defaultSessionTitle,
		Messages:  []types.ChatMessage{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.sessions = append([]types.ChatSession{session}, s.sessions...)
	s.activeSessionID = session.ID
	s.currentRender = nil
	s.originalImage = ""
	s.variations = nil

	s.metrics.SetSessions(len(s.sessions))
	s.logger.Debug("Session created", zap.String("sessionId", session.ID))
	return session.ID
}

// SelectSession sets the active session pointer. The pointer is set even for
// an unknown ID; the result reports whether the ID names a session.
func (s *Store) SelectSession(sessionID string) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.activeSessionID = sessionID
	known := s.indexOfSession(sessionID) >= 0
	ev := s.event(EventSessionSelected)
	s.mu.Unlock()

	ev.SessionID = sessionID
	s.emit(ev)
	return known
}

// ActiveSessionID returns the active session pointer, or "" when unset
func (s *Store) ActiveSessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeSessionID
}

// DeleteSession removes a session and clears the active pointer if it was
// active. It reports whether the session existed.
func (s *Store) DeleteSession(sessionID string) bool {
	s.mu.Lock()
	idx := s.indexOfSession(sessionID)
	if s.closed || idx < 0 {
		s.mu.Unlock()
		return false
	}

	s.sessions = append(s.sessions[:idx:idx], s.sessions[idx+1:]...)
	if s.activeSessionID == sessionID {
		s.activeSessionID = ""
	}
	s.metrics.SetSessions(len(s.sessions))
	ev := s.event(EventSessionDeleted)
	s.mu.Unlock()

	ev.SessionID = sessionID
	s.emit(ev)
	return true
}

// Sessions returns deep copies of all sessions, newest first
func (s *Store) Sessions() []types.ChatSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSessions(s.sessions)
}

// SessionSummaries returns list metadata for all sessions, newest first
func (s *Store) SessionSummaries() []types.SessionSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.SessionSummary, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = sess.Summary()
	}
	return out
}

// Session returns a deep copy of one session
func (s *Store) Session(sessionID string) (types.ChatSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOfSession(sessionID)
	if idx < 0 {
		return types.ChatSession{}, false
	}
	return s.sessions[idx].Clone(), true
}

// IsTyping reports whether an assistant reply is pending
func (s *Store) IsTyping() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.replies) > 0
}

// ValidateMessage rejects a message with no content and no attachments.
// The store itself accepts empty messages; callers facing users check first.
func ValidateMessage(content string, attachments []types.AttachmentInput) error {
	if strings.TrimSpace(content) == "" && len(attachments) == 0 {
		return ErrEmptyMessage
	}
	return nil
}

// SendMessage appends a user message to the active session, creating a
// session first when none is active or the active ID is unknown. A
// simulated assistant reply follows after the reply delay. Empty content is
// accepted; the only errors are ErrInvalidAttachment and ErrClosed.
func (s *Store) SendMessage(content string, attachments []types.AttachmentInput) (string, types.ChatMessage, error) {
	converted, err := s.convertAttachments(attachments)
	if err != nil {
		return "", types.ChatMessage{}, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", types.ChatMessage{}, ErrClosed
	}
	var created bool
	idx := s.indexOfSession(s.activeSessionID)
	if idx < 0 {
		s.createSessionLocked()
		idx = 0
		created = true
	}
	session := &s.sessions[idx]
	sessionID := session.ID

	now := s.clock.Now()
	msg := types.ChatMessage{
		ID:          s.ids.Message(),
		Role:        types.RoleUser,
		Content:     content,
		Timestamp:   now,
		Attachments: converted,
	}
	if len(session.Messages) == 0 {
		session.Title = truncateRunes(content, titleRunes) + "..."
	}
	session.Messages = append(session.Messages, msg)
	session.UpdatedAt = now
	s.metrics.IncMessages(string(types.RoleUser))

	// The reply quotes the style current at send time
	s.scheduleReplyLocked(sessionID, content, s.settings.Style.Name)

	events := make([]Event, 0, 3)
	if created {
		events = append(events, s.event(EventSessionCreated))
	}
	events = append(events, s.event(EventMessageAdded), s.event(EventTyping))
	s.mu.Unlock()

	for _, ev := range events {
		ev.SessionID = sessionID
		s.emit(ev)
	}
	return sessionID, msg.Clone(), nil
}

// scheduleReplyLocked arms the assistant reply timer. Caller holds mu.
func (s *Store) scheduleReplyLocked(sessionID, content, styleName string) {
	if s.closed {
		return
	}

	reply := &pendingReply{sessionID: sessionID}
	text := fmt.Sprintf(
		"I'll help you create that design. Based on your request \"%s...\", I'll generate a %s style interior with attention to lighting and composition.",
		truncateRunes(content, replyQuoteRunes),
		strings.ToLower(styleName),
	)

	s.replies[reply] = s.clock.AfterFunc(s.replyDelay, func() {
		s.deliverReply(reply, text)
	})
}

func (s *Store) deliverReply(reply *pendingReply, text string) {
	s.mu.Lock()
	if _, pending := s.replies[reply]; !pending {
		s.mu.Unlock()
		return
	}
	delete(s.replies, reply)

	var appended bool
	if idx := s.indexOfSession(reply.sessionID); idx >= 0 {
		now := s.clock.Now()
		session := &s.sessions[idx]
		session.Messages = append(session.Messages, types.ChatMessage{
			ID:               s.ids.Message(),
			Role:             types.RoleAssistant,
			Content:          text,
			Timestamp:        now,
			SuggestedActions: append([]string(nil), suggestedActions...),
		})
		session.UpdatedAt = now
		appended = true
		s.metrics.IncMessages(string(types.RoleAssistant))
	}

	events := []Event{s.event(EventTyping)}
	if appended {
		events = append(events, s.event(EventMessageAdded))
	}
	s.mu.Unlock()

	for _, ev := range events {
		ev.SessionID = reply.sessionID
		s.emit(ev)
	}
}

func (s *Store) convertAttachments(in []types.AttachmentInput) ([]types.Attachment, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]types.Attachment, 0, len(in))
	for i, a := range in {
		if !a.Type.Valid() || strings.TrimSpace(a.URL) == "" {
			return nil, fmt.Errorf("%w: attachment %d", ErrInvalidAttachment, i)
		}
		out = append(out, types.Attachment{
			ID:        s.ids.Attachment(),
			Type:      a.Type,
			URL:       a.URL,
			Name:      a.Name,
			Thumbnail: a.Thumbnail,
		})
	}
	return out, nil
}

// indexOfSession returns the index of sessionID or -1. Caller holds mu.
func (s *Store) indexOfSession(sessionID string) int {
	if sessionID == "" {
		return -1
	}
	for i := range s.sessions {
		if s.sessions[i].ID == sessionID {
			return i
		}
	}
	return -1
}

// truncateRunes returns at most n runes of text
func truncateRunes(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return string(runes[:n])
}
