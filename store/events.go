package store

import "github.com/tailored-agentic-units/statestore/observability"

// Store event types emitted to the configured observer.
const (
	EventCreate       observability.EventType = "store.create"
	EventDispatch     observability.EventType = "store.dispatch"
	EventReducerError observability.EventType = "store.reducer.error"
	EventSubscribe    observability.EventType = "store.subscribe"
	EventUnsubscribe  observability.EventType = "store.unsubscribe"
	EventReplace      observability.EventType = "store.replace"
)
