// Package observability carries store lifecycle events to logging and
// tracing backends. Level values align with OpenTelemetry SeverityNumbers so
// events can be forwarded to OTel collectors without translation.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level is an event severity on the OpenTelemetry SeverityNumber scale
// (1-24, four numbers per band). Stores and middleware use the first number
// of the band they report in.
type Level int

const (
	LevelVerbose Level = 5  // subscriptions and routine dispatches
	LevelInfo    Level = 9  // store creation and reducer swaps
	LevelWarning Level = 13 // reducer and middleware failures
	LevelError   Level = 17 // recovered panics
)

// severityBands lists the OTel bands from TRACE to FATAL with the slog level
// each one is logged at. slog has no trace or fatal level, so those sit four
// steps outside Debug and Error.
var severityBands = [...]struct {
	text string
	slog slog.Level
}{
	{"TRACE", slog.LevelDebug - 4},
	{"DEBUG", slog.LevelDebug},
	{"INFO", slog.LevelInfo},
	{"WARN", slog.LevelWarn},
	{"ERROR", slog.LevelError},
	{"FATAL", slog.LevelError + 4},
}

func (l Level) band() int {
	return min(max(int(l-1)/4, 0), len(severityBands)-1)
}

// String returns the OTel severity text of the band containing l.
func (l Level) String() string {
	return severityBands[l.band()].text
}

// SlogLevel returns the slog level events at l are logged with.
func (l Level) SlogLevel() slog.Level {
	return severityBands[l.band()].slog
}

// EventType identifies the kind of event. Packages define their own
// constants with this type ("store.dispatch", "middleware.action", ...).
type EventType string

// Event is emitted by stores and middleware. Fields map to OTel LogRecord
// fields: Type→EventName, Level→SeverityNumber, Timestamp→Timestamp,
// Source→InstrumentationScope, Data→Attributes.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Observer receives events. Implementations must not call back into the
// store that emitted the event.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(ctx context.Context, event Event)

func (f ObserverFunc) OnEvent(ctx context.Context, event Event) {
	f(ctx, event)
}

// NoOpObserver discards all events.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(ctx context.Context, event Event) {}

// MultiObserver fans out events to multiple observers in order.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver creates a MultiObserver forwarding to all non-nil
// observers.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	filtered := make([]Observer, 0, len(observers))
	for _, obs := range observers {
		if obs != nil {
			filtered = append(filtered, obs)
		}
	}
	return &MultiObserver{observers: filtered}
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		obs.OnEvent(ctx, event)
	}
}
