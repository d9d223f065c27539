/*
Package http exposes the studio store over a JSON API built on gin.

Routes live under /api and map one-to-one onto store operations: sessions
and messages, settings, collections, renders (generate, edit, variations),
UI toggles and image uploads. Free text (messages, prompts, instructions,
collection names) is stripped of markup with bluemonday before it reaches
the store.

Domain errors map to status codes: invalid input is 400, a generation in
flight or a missing current render is 409, a failed edit is 502 and unknown
IDs are 404. Error bodies are {"error": "..."}.
*/
package http
