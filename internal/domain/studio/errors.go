package studio

import "errors"

var (
	// ErrGenerationInFlight rejects a generation while another is running
	ErrGenerationInFlight = errors.New("generation already in progress")
	// ErrEmptyPrompt rejects a blank generation prompt or edit instruction
	ErrEmptyPrompt = errors.New("prompt must not be empty")
	// ErrEmptyMessage rejects a chat message with no content and no attachments
	ErrEmptyMessage = errors.New("message must have content or attachments")
	// ErrInvalidAttachment rejects an attachment with an unknown type or no URL
	ErrInvalidAttachment = errors.New("invalid attachment")
	// ErrInvalidSettings rejects a settings value outside its enumeration
	ErrInvalidSettings = errors.New("invalid settings")
	// ErrStyleNotFound is returned for a style ID missing from the catalog
	ErrStyleNotFound = errors.New("style not found")
	// ErrInvalidName rejects a blank collection name
	ErrInvalidName = errors.New("name must not be empty")
	// ErrInvalidUI rejects an unknown panel tab or view mode
	ErrInvalidUI = errors.New("invalid ui state")
	// ErrNoCurrentRender is returned by operations that need a current render
	ErrNoCurrentRender = errors.New("no current render")
	// ErrEditFailed wraps a failed call to the editing endpoint
	ErrEditFailed = errors.New("edit failed")
	// ErrClosed is returned once the store has been closed
	ErrClosed = errors.New("store closed")
)
