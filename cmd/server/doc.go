// Package main runs the Visionary Studio backend.
//
// The server keeps the studio state (chat sessions, renders, settings and
// collections) in memory, saves the persisted part under the storage
// directory and relays generation and edit requests to the upstream image
// endpoints.
//
// Configuration comes from the environment (see internal/infrastructure/config);
// flags override it:
//
//	./server -port 8000 -storage /var/lib/studio
//
//	# Console logs at debug level
//	./server -dev
//
// SIGINT and SIGTERM stop the listener, cancel in-flight generations and
// write a final snapshot before exit.
package main
