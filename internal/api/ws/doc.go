/*
Package ws streams studio changes to browsers over WebSocket.

Each connection subscribes to the store and receives every event as
{"type", "generation", "sessionId", "renderId", "timestamp"}. Clients read
the rest of the state over HTTP.

Client messages:
  - ping: answered with pong
  - chat: sends "message" to the active session, answered with message_ack
  - generate: starts a render from "message"; progress arrives as events

Failures are answered with {"type": "error", "message"}.

	handler := ws.NewHandler(store, metrics, logger)
	router.GET("/stream", handler.HandleConnection)
*/
package ws
