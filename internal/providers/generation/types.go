package generation

// GenerateRequest is the payload of the image generation endpoint
type GenerateRequest struct {
	Prompt      string `json:"prompt"`
	Style       string `json:"style"`
	ImageBase64 string `json:"imageBase64,omitempty"`
	AspectRatio string `json:"aspectRatio"`
}

// GenerateResponse is the generation endpoint's reply. GenerationTime is in
// seconds.
type GenerateResponse struct {
	Success        bool     `json:"success"`
	ImageBase64    string   `json:"imageBase64,omitempty"`
	Error          string   `json:"error,omitempty"`
	GenerationTime *float64 `json:"generationTime,omitempty"`
}

// HasImage reports whether the response carries a usable image
func (r *GenerateResponse) HasImage() bool {
	return r != nil && r.Success && r.ImageBase64 != ""
}

// HistoryEntry is one prior turn sent to the chat endpoint
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the payload of the conversational editing endpoint
type ChatRequest struct {
	Message             string         `json:"message"`
	CurrentImageBase64  string         `json:"currentImageBase64,omitempty"`
	ConversationHistory []HistoryEntry `json:"conversationHistory"`
}

// ChatResponse is the editing endpoint's reply. Either field may be set.
type ChatResponse struct {
	Success        bool     `json:"success"`
	TextResponse   string   `json:"textResponse,omitempty"`
	ImageBase64    string   `json:"imageBase64,omitempty"`
	Error          string   `json:"error,omitempty"`
	GenerationTime *float64 `json:"generationTime,omitempty"`
}
