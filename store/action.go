package store

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Action is a transition request. Type is the mandatory discriminant; an
// empty Type is treated as undefined and rejected by the store.
type Action struct {
	Type    string         `json:"type"`
	Payload any            `json:"payload,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// NewAction builds an Action with the given type and payload.
func NewAction(actionType string, payload any) Action {
	return Action{Type: actionType, Payload: payload}
}

// WithMeta returns a copy of the action with key set in its metadata.
// The receiver's Meta map is never modified.
func (a Action) WithMeta(key string, value any) Action {
	meta := make(map[string]any, len(a.Meta)+1)
	for k, v := range a.Meta {
		meta[k] = v
	}
	meta[key] = value
	a.Meta = meta
	return a
}

const reservedPrefix = "@@statestore/"

// Reserved action types. The store dispatches ActionInit once on creation and
// ActionReplace once per ReplaceReducer call. The values carry a random
// per-process suffix: reducers must handle them through their default branch
// and never match on them.
var (
	ActionInit    = reservedPrefix + "INIT." + randomSuffix()
	ActionReplace = reservedPrefix + "REPLACE." + randomSuffix()
)

// IsReserved reports whether actionType belongs to the store's private
// namespace.
func IsReserved(actionType string) bool {
	return strings.HasPrefix(actionType, reservedPrefix)
}

func randomSuffix() string {
	id := uuid.New()
	return strings.Join(strings.Split(id.String()[:6], ""), ".")
}

// asAction accepts only Action values. Pointers, funcs, nil and foreign
// types must be translated by middleware before they reach the reducer.
func asAction(action any) (Action, error) {
	act, ok := action.(Action)
	if !ok {
		return Action{}, fmt.Errorf(
			"%w: actions must be store.Action values, got %T; use custom middleware for other kinds",
			ErrInvalidArgument, action,
		)
	}
	if act.Type == "" {
		return Action{}, fmt.Errorf(
			"%w: actions may not have an empty Type; have you misspelled a constant?",
			ErrInvalidArgument,
		)
	}
	return act, nil
}
