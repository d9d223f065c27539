/*
Package persistence saves the studio store to a key-value slot and loads it
back at startup.

The slot holds an envelope {"state": Snapshot, "version": 0} encoded as
JSON, optionally compressed with zstd or gzip. The compression of a stored
blob is detected from its frame magic, so changing STORAGE_COMPRESSION never
strands existing data.

Writes are driven by store change events. Events that touch no persisted
field are ignored and bursts are coalesced into one write per debounce
window. Every write reads a fresh snapshot, so a dropped event never loses
state.
*/
package persistence
