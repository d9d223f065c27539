// Package types provides shared data structures for the studio backend.
//
// Core Types:
//   - ChatSession, ChatMessage, Attachment: conversation threads
//   - Render, RenderVariation: generation results
//   - RenderSettings, DesignStyle: generation parameters
//   - Collection: named grouping of render IDs
//   - GenerationPhase, GenerationStatus: in-flight progress
//   - UIState: front-end toggles held by the store (never persisted)
//
// Request Types:
//   - MessageRequest, GenerateRequest, EditRequest: HTTP bodies
//   - WSMessage: WebSocket communication
//
// All JSON field names are camelCase to match the studio front end and the
// persisted storage blob.
package types
