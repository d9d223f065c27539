/*
Package studio implements the studio session store.

The Store is the single state container behind the studio front end. It
owns the chat sessions and their message logs, the generation controller,
the render settings, the collections and the UI toggles. Every mutation runs
under one lock and replaces whole fields; accessors return deep copies.

# Generation

A generation cycle runs two tasks. The request task calls the image endpoint
once. The progress task adds 5 to the progress every tick while it is below
90 and derives the display phase from it. When the request finishes, for any
reason, it stops the progress task, waits for it to exit, and then writes
the terminal state in one step: progress 100, no phase, one new render at
the head of the recent renders. A failed or unreachable endpoint yields a
fallback render showing the original image or a placeholder. Only one cycle
may be in flight; a second one is rejected with ErrGenerationInFlight.

# Events

Subscribe returns a channel of change events. Sends never block. Events
whose kind is Persistent touch the fields captured by Snapshot, which is
what the persistence adapter writes.

# Time

All timestamps, the progress ticker and the simulated assistant reply go
through a clock.Clock, so tests drive them with clock.Manual.
*/
package studio
