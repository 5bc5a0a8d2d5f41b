package bind_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tailored-agentic-units/statestore/bind"
	"github.com/tailored-agentic-units/statestore/store"
)

type todos []string

var todoReducer = store.Pure(func(s todos, a store.Action) todos {
	switch a.Type {
	case "ADD_TODO":
		return append(slices.Clone(s), a.Payload.(string))
	case "CLEAR":
		return todos{}
	}
	return s
})

func addTodo(args ...any) any {
	return store.Action{Type: "ADD_TODO", Payload: args[0]}
}

func clearTodos(...any) any {
	return store.Action{Type: "CLEAR"}
}

func newStore(t *testing.T) store.Store[todos] {
	t.Helper()
	s, err := store.New(todoReducer)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func TestOne(t *testing.T) {
	s := newStore(t)

	add, err := bind.One(addTodo, s.Dispatch)
	if err != nil {
		t.Fatalf("One() error = %v", err)
	}

	result, err := add("write tests")
	if err != nil {
		t.Fatalf("bound creator error = %v", err)
	}

	if diff := cmp.Diff(store.Action{Type: "ADD_TODO", Payload: "write tests"}, result); diff != "" {
		t.Errorf("bound creator result mismatch (-want +got):\n%s", diff)
	}
	state, _ := s.GetState()
	if diff := cmp.Diff(todos{"write tests"}, state); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestMap(t *testing.T) {
	s := newStore(t)

	bound, err := bind.Map(map[string]bind.Creator{
		"add":    addTodo,
		"clear":  clearTodos,
		"broken": nil,
	}, s.Dispatch)
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if _, ok := bound["broken"]; ok {
		t.Error("Map() should skip nil creators")
	}
	if len(bound) != 2 {
		t.Fatalf("len(Map()) = %d, want 2", len(bound))
	}

	bound["add"]("a")
	bound["add"]("b")
	state, _ := s.GetState()
	if diff := cmp.Diff(todos{"a", "b"}, state); diff != "" {
		t.Errorf("state after add mismatch (-want +got):\n%s", diff)
	}

	bound["clear"]()
	state, _ = s.GetState()
	if len(state) != 0 {
		t.Errorf("state after clear = %v, want empty", state)
	}
}

func TestTyped(t *testing.T) {
	s := newStore(t)

	add, err := bind.Typed(func(title string) store.Action {
		return store.Action{Type: "ADD_TODO", Payload: title}
	}, s.Dispatch)
	if err != nil {
		t.Fatalf("Typed() error = %v", err)
	}

	if _, err := add("typed"); err != nil {
		t.Fatalf("bound creator error = %v", err)
	}
	state, _ := s.GetState()
	if diff := cmp.Diff(todos{"typed"}, state); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestBound_PropagatesDispatchErrors(t *testing.T) {
	s := newStore(t)

	bad, err := bind.One(func(...any) any { return "not an action" }, s.Dispatch)
	if err != nil {
		t.Fatalf("One() error = %v", err)
	}

	if _, err := bad(); !errors.Is(err, store.ErrInvalidArgument) {
		t.Errorf("bound creator error = %v, want %v", err, store.ErrInvalidArgument)
	}
}

func TestInvalidArguments(t *testing.T) {
	s := newStore(t)

	tests := []struct {
		name string
		call func() error
	}{
		{name: "One nil creator", call: func() error { _, err := bind.One(nil, s.Dispatch); return err }},
		{name: "One nil dispatch", call: func() error { _, err := bind.One(addTodo, nil); return err }},
		{name: "Map nil map", call: func() error { _, err := bind.Map(nil, s.Dispatch); return err }},
		{
			name: "Map nil dispatch",
			call: func() error { _, err := bind.Map(map[string]bind.Creator{"add": addTodo}, nil); return err },
		},
		{
			name: "Typed nil creator",
			call: func() error { _, err := bind.Typed[string](nil, s.Dispatch); return err },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, store.ErrInvalidArgument) {
				t.Errorf("error = %v, want %v", err, store.ErrInvalidArgument)
			}
		})
	}
}
