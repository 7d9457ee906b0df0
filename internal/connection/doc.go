// Package connection implements the per-channel WebSocket manager.
//
// A Manager owns exactly one physical connection for one named channel and:
//   - Tracks a three-state machine: Connecting, Connected, Disconnected
//   - Answers server {"type":"ping"} heartbeats with {"type":"pong"}
//   - Reconnects forever with capped exponential backoff
//   - Drops malformed frames silently
//
// Transport failures are never surfaced as errors; consumers observe only
// the State value and the stream of decoded messages.
package connection
