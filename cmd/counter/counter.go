package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tailored-agentic-units/statestore/bind"
	"github.com/tailored-agentic-units/statestore/combine"
	"github.com/tailored-agentic-units/statestore/store"
)

const (
	actionIncrement = "counter/increment"
	actionDecrement = "counter/decrement"
	actionAdd       = "counter/add"
	actionReset     = "counter/reset"
)

// newReducer combines the count slice with a log of applied commands.
func newReducer(initial, step int) (store.Reducer[combine.State], error) {
	return combine.Reducers(map[string]store.Reducer[any]{
		"count": combine.Slice(initial, store.Pure(func(n int, a store.Action) int {
			switch a.Type {
			case actionIncrement:
				return n + step
			case actionDecrement:
				return n - step
			case actionAdd:
				return n + a.Payload.(int)
			case actionReset:
				return initial
			}
			return n
		})),
		"applied": combine.Slice([]string{}, store.Pure(func(log []string, a store.Action) []string {
			if store.IsReserved(a.Type) {
				return log
			}
			return append(log[:len(log):len(log)], a.Type)
		})),
	})
}

// creators maps command names to the action creators they run.
func creators() map[string]bind.Creator {
	return map[string]bind.Creator{
		"inc": func(...any) any { return store.Action{Type: actionIncrement} },
		"dec": func(...any) any { return store.Action{Type: actionDecrement} },
		"reset": func(...any) any {
			return store.Action{Type: actionReset}
		},
		"add": func(args ...any) any {
			return store.NewAction(actionAdd, args[0])
		},
	}
}

// command is one parsed entry of the -actions flag.
type command struct {
	name string
	args []any
}

// parseCommands reads a comma separated list such as "inc,add:5,dec".
func parseCommands(input string, known map[string]bind.Bound) ([]command, error) {
	var cmds []command
	for _, field := range strings.Split(input, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		name, arg, hasArg := strings.Cut(field, ":")
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("unknown action %q", name)
		}

		cmd := command{name: name}
		switch {
		case name == "add" && !hasArg:
			return nil, fmt.Errorf("action %q requires an argument, e.g. add:5", name)
		case hasArg:
			n, err := strconv.Atoi(arg)
			if err != nil {
				return nil, fmt.Errorf("action %q: invalid argument %q: %w", name, arg, err)
			}
			cmd.args = []any{n}
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}
