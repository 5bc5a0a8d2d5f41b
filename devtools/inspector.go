// Package devtools exposes a read-only view of a running store over Connect.
//
// An Inspector is installed as the innermost middleware so it sees every
// action that reaches the reducer. After each dispatch it snapshots the state
// as JSON and appends a history record. The snapshot is served by the
// InspectorService procedures using google.protobuf.Struct messages, so any
// Connect, gRPC or gRPC-Web client can read it without generated code.
//
//	inspector := devtools.NewInspector[State]("todos", devtools.DefaultConfig())
//	s, err := store.New(reducer, store.WithEnhancer(store.Apply(
//	    middleware.Thunk[State](nil),
//	    inspector.Middleware(),
//	)))
//	go devtools.ListenAndServe(ctx, cfg.Addr, inspector, logger)
//
// The store itself stays single-goroutine. The inspector's cache is written
// on the dispatching goroutine and read by RPC handlers under a lock.
package devtools

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/tailored-agentic-units/statestore/store"
)

// Snapshot is the latest state captured by an Inspector.
type Snapshot struct {
	Store      string
	State      any
	Dispatches uint64
	UpdatedAt  time.Time
}

// Inspector records store activity for the devtools service.
//
// Store.ReplaceReducer dispatches its replace action below the middleware
// chain, so the snapshot does not see a hot swap until the next action or a
// call to Refresh.
type Inspector[S any] struct {
	name     string
	history  *history
	getState func() (S, error)

	mu         sync.RWMutex
	state      any
	stateErr   error
	captured   bool
	dispatches uint64
	updatedAt  time.Time
}

// NewInspector creates an inspector labelled name.
func NewInspector[S any](name string, cfg Config) *Inspector[S] {
	return &Inspector[S]{
		name:    name,
		history: newHistory(cfg.HistoryLimit),
	}
}

// Middleware returns the store middleware feeding this inspector. The state
// at setup time is captured immediately. Values that are not store.Action are
// forwarded without being recorded.
func (i *Inspector[S]) Middleware() store.Middleware[S] {
	return func(api store.API[S]) func(store.Dispatch) store.Dispatch {
		i.mu.Lock()
		i.getState = api.GetState
		i.mu.Unlock()

		if state, err := api.GetState(); err == nil {
			i.capture(state, false)
		}
		return func(next store.Dispatch) store.Dispatch {
			return func(action any) (any, error) {
				act, ok := action.(store.Action)
				if !ok {
					return next(action)
				}

				result, err := next(action)
				if err != nil {
					i.history.add(act.Type, i.count(), err)
					return result, err
				}

				if state, serr := api.GetState(); serr == nil {
					i.capture(state, true)
				}
				i.history.add(act.Type, i.count(), nil)
				return result, nil
			}
		}
	}
}

// Refresh captures the store's current state without recording a dispatch.
// Call it on the store's goroutine, typically right after ReplaceReducer.
func (i *Inspector[S]) Refresh() error {
	i.mu.RLock()
	getState := i.getState
	i.mu.RUnlock()

	if getState == nil {
		return ErrNoSnapshot
	}
	state, err := getState()
	if err != nil {
		return err
	}
	i.capture(state, false)
	return nil
}

// Snapshot returns the latest captured state.
func (i *Inspector[S]) Snapshot() (Snapshot, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if !i.captured {
		return Snapshot{}, ErrNoSnapshot
	}
	if i.stateErr != nil {
		return Snapshot{}, i.stateErr
	}
	return Snapshot{
		Store:      i.name,
		State:      i.state,
		Dispatches: i.dispatches,
		UpdatedAt:  i.updatedAt,
	}, nil
}

// History returns the recorded actions, oldest first.
func (i *Inspector[S]) History() []Record {
	return i.history.list()
}

// Reset drops the recorded history. The latest snapshot is kept.
func (i *Inspector[S]) Reset() {
	i.history.clear()
}

func (i *Inspector[S]) count() uint64 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.dispatches
}

// capture stores a JSON-shaped copy of state so readers never share memory
// with the store.
func (i *Inspector[S]) capture(state S, dispatched bool) {
	decoded, err := toJSONValue(state)

	i.mu.Lock()
	defer i.mu.Unlock()

	i.captured = true
	i.updatedAt = time.Now()
	if dispatched {
		i.dispatches++
	}
	if err != nil {
		i.stateErr = err
		return
	}
	i.state, i.stateErr = decoded, nil
}

func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeState, err)
	}
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeState, err)
	}
	return decoded, nil
}
