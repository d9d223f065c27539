package types

import "time"

// Role identifies the author of a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// AttachmentType distinguishes image attachments from generic files
type AttachmentType string

const (
	AttachmentImage AttachmentType = "image"
	AttachmentFile  AttachmentType = "file"
)

// Valid reports whether t is a known attachment type
func (t AttachmentType) Valid() bool {
	return t == AttachmentImage || t == AttachmentFile
}

// Attachment is owned by the message that references it
type Attachment struct {
	ID        string         `json:"id"`
	Type      AttachmentType `json:"type"`
	URL       string         `json:"url"`
	Name      string         `json:"name"`
	Thumbnail string         `json:"thumbnail,omitempty"`
}

// ChatMessage is immutable once appended to a session
type ChatMessage struct {
	ID               string       `json:"id"`
	Role             Role         `json:"role"`
	Content          string       `json:"content"`
	Timestamp        time.Time    `json:"timestamp"`
	Attachments      []Attachment `json:"attachments,omitempty"`
	SuggestedActions []string     `json:"suggestedActions,omitempty"`
}

// Clone returns a deep copy of the message
func (m ChatMessage) Clone() ChatMessage {
	out := m
	if m.Attachments != nil {
		out.Attachments = append([]Attachment(nil), m.Attachments...)
	}
	if m.SuggestedActions != nil {
		out.SuggestedActions = append([]string(nil), m.SuggestedActions...)
	}
	return out
}

// ChatSession is a single conversation thread
type ChatSession struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Thumbnail string        `json:"thumbnail,omitempty"`
}

// Clone returns a deep copy of the session
func (s ChatSession) Clone() ChatSession {
	out := s
	out.Messages = make([]ChatMessage, len(s.Messages))
	for i, m := range s.Messages {
		out.Messages[i] = m.Clone()
	}
	return out
}

// SessionSummary is the list view of a session
type SessionSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"messageCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
}

// Summary extracts list metadata from the session
func (s ChatSession) Summary() SessionSummary {
	return SessionSummary{
		ID:           s.ID,
		Title:        s.Title,
		MessageCount: len(s.Messages),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		Thumbnail:    s.Thumbnail,
	}
}
