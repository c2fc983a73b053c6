package service

import "context"

// ─────────────────────────────────────────────────────────────
// EventEmitter — decouples services from any particular transport
// ─────────────────────────────────────────────────────────────

// EventEmitter is an interface for emitting progress events during a
// compute. MockEmitter (tests) and NoopEmitter (passed by cmd/galaxyroute
// and cmd/routerd) implement it. Services receive this interface instead of a
// concrete transport, which makes them independently testable with a mock
// emitter.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// MockEmitter is a test-friendly EventEmitter that records all calls.
type MockEmitter struct {
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}

// NoopEmitter discards every event; used where no caller cares to observe them.
type NoopEmitter struct{}

func (NoopEmitter) Emit(context.Context, string, any) {}
