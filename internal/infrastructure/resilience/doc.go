/*
Package resilience provides circuit breaker implementation for graceful degradation.

# Overview

This package implements the circuit breaker pattern to prevent cascading failures
and provide graceful degradation when services become unavailable or slow.

# Features

- Three-state circuit breaker (Closed, Open, Half-Open)
- Configurable failure thresholds and timeouts
- Automatic state transitions
- Concurrent request handling
- State change callbacks for monitoring
- Injectable time source for deterministic tests
- Context cancellation is not counted as an upstream failure

# Usage

	// Create a circuit breaker
	breaker := resilience.New("service", resilience.Settings{
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Info("breaker state", zap.String("name", name), zap.Stringer("to", to))
		},
	})

	// Execute request through breaker
	err := breaker.Execute(ctx, func(ctx context.Context) error {
		return client.Call(ctx)
	})

	// Or keep the result typed
	resp, err := resilience.Do(ctx, breaker, client.Generate)

# States

- Closed: Normal operation, requests pass through
- Open: Service unavailable, requests fail immediately
- Half-Open: Testing if service recovered, limited requests allowed

# Pattern

The circuit breaker transitions between states based on success/failure rates:

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                    [failure]
	                                           |
	                                           v
	                                         Open
*/
package resilience
