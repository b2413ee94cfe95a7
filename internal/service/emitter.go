package service

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// ─────────────────────────────────────────────────────────────
// EventEmitter: decouples services from the transport
// ─────────────────────────────────────────────────────────────

// Events emitted by the services.
const (
	EventPageChanged = "page:changed"   // data: []*domain.Component
	EventSelection   = "page:selection" // data: string (selected id, "" for none)
	EventPreviewData = "preview:data"   // data: PreviewPayload
	EventNotifyError = "notify:error"   // data: string
)

// EventEmitter is an interface for emitting events to connected editors.
// The websocket hub implements it for the HTTP server; services receive
// this interface so they are testable with a mock emitter.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// FanOut emits every event to each of its emitters in order.
type FanOut []EventEmitter

func (f FanOut) Emit(ctx context.Context, event string, data any) {
	for _, e := range f {
		if e != nil {
			e.Emit(ctx, event, data)
		}
	}
}

// LogEmitter records events in the log. Used where nobody is listening,
// such as the stdio MCP server.
type LogEmitter struct {
	Log *zap.Logger
}

func (l LogEmitter) Emit(_ context.Context, event string, _ any) {
	if l.Log != nil {
		l.Log.Debug("event", zap.String("event", event))
	}
}

// MockEmitter is a test-friendly EventEmitter that records all calls.
// It is safe for use from timer callbacks.
type MockEmitter struct {
	mu     sync.Mutex
	events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.mu.Lock()
	m.events = append(m.events, EmittedEvent{Event: event, Data: data})
	m.mu.Unlock()
}

// Events returns a copy of everything emitted so far.
func (m *MockEmitter) Events() []EmittedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]EmittedEvent(nil), m.events...)
}

// Named returns the recorded emissions of one event.
func (m *MockEmitter) Named(event string) []EmittedEvent {
	var out []EmittedEvent
	for _, e := range m.Events() {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}
