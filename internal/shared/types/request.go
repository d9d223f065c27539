package types

// PanelTab selects the right panel content
type PanelTab string

const (
	PanelChat     PanelTab = "chat"
	PanelSettings PanelTab = "settings"
)

// ViewMode selects the canvas mode
type ViewMode string

const (
	ViewImage ViewMode = "image"
	ViewVideo ViewMode = "video"
	View3D    ViewMode = "3d"
)

// UIState holds front-end toggles; never persisted
type UIState struct {
	RightPanelOpen     bool     `json:"rightPanelOpen"`
	RightPanelTab      PanelTab `json:"rightPanelTab"`
	CommandPaletteOpen bool     `json:"commandPaletteOpen"`
	ViewMode           ViewMode `json:"viewMode"`
}

// UIPatch is a partial UI state update
type UIPatch struct {
	RightPanelOpen     *bool     `json:"rightPanelOpen,omitempty"`
	RightPanelTab      *PanelTab `json:"rightPanelTab,omitempty" binding:"omitempty,oneof=chat settings"`
	CommandPaletteOpen *bool     `json:"commandPaletteOpen,omitempty"`
	ViewMode           *ViewMode `json:"viewMode,omitempty" binding:"omitempty,oneof=image video 3d"`
}

// AttachmentInput is an attachment as submitted by a client
type AttachmentInput struct {
	Type      AttachmentType `json:"type" binding:"required,oneof=image file"`
	URL       string         `json:"url" binding:"required"`
	Name      string         `json:"name"`
	Thumbnail string         `json:"thumbnail,omitempty"`
}

// MessageRequest sends a chat message to the active session
type MessageRequest struct {
	Content     string            `json:"content" binding:"required"`
	Attachments []AttachmentInput `json:"attachments,omitempty" binding:"omitempty,dive"`
}

// GenerateRequest starts a render
type GenerateRequest struct {
	Prompt string `json:"prompt" binding:"required"`
	Wait   bool   `json:"wait,omitempty"`
}

// EditRequest asks the editing endpoint to alter the current render
type EditRequest struct {
	Instruction string `json:"instruction" binding:"required"`
}

// CollectionRequest creates a collection
type CollectionRequest struct {
	Name string `json:"name" binding:"required"`
}

// CollectionMemberRequest adds a render to a collection
type CollectionMemberRequest struct {
	RenderID string `json:"renderId" binding:"required"`
}

// StyleRequest selects a catalog style by ID
type StyleRequest struct {
	ID string `json:"id" binding:"required"`
}

// OriginalImageRequest sets or clears the source image
type OriginalImageRequest struct {
	URL string `json:"url"`
}

// WSMessage represents a WebSocket message from a client
type WSMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}
