package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/tailored-agentic-units/statestore/bind"
	"github.com/tailored-agentic-units/statestore/combine"
	"github.com/tailored-agentic-units/statestore/devtools"
	"github.com/tailored-agentic-units/statestore/middleware"
	"github.com/tailored-agentic-units/statestore/observability"
	"github.com/tailored-agentic-units/statestore/observable"
	"github.com/tailored-agentic-units/statestore/store"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to counter config JSON file")
		actions    = flag.String("actions", "", "Comma separated actions to dispatch, e.g. inc,add:5,dec (required)")
		name       = flag.String("name", "", "Store name (overrides config)")
		initial    = flag.Int("initial", 0, "Initial count (overrides config)")
		serve      = flag.Bool("serve", false, "Serve the devtools inspector until interrupted")
		addr       = flag.String("addr", "", "Devtools listen address (overrides config)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	if *actions == "" {
		fmt.Fprintln(os.Stderr, "Usage: counter -actions <list> [-config <file>] [-serve]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := DefaultConfig()
	if *configFile != "" {
		loaded, err := LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}

	overrides{
		Name:    *name,
		Initial: *initial,
		Addr:    *addr,
		set:     setFlags(flag.CommandLine),
	}.apply(&cfg)

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
		cfg.Store.Observer = "slog"
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	observability.RegisterObserver("slog", observability.NewSlogObserver(logger))

	reducer, err := newReducer(cfg.Initial, cfg.Step)
	if err != nil {
		log.Fatalf("Failed to build reducer: %v", err)
	}

	inspector := devtools.NewInspector[combine.State](cfg.Store.Name, cfg.Devtools)
	s, err := store.New(reducer,
		store.WithConfig[combine.State](cfg.Store),
		store.WithEnhancer(store.Apply(
			middleware.Recover[combine.State](),
			middleware.Logger[combine.State](logger),
			middleware.Thunk[combine.State](nil),
			inspector.Middleware(),
		)),
	)
	if err != nil {
		log.Fatalf("Failed to create store: %v", err)
	}

	bound, err := bind.Map(creators(), s.Dispatch)
	if err != nil {
		log.Fatalf("Failed to bind actions: %v", err)
	}

	cmds, err := parseCommands(*actions, bound)
	if err != nil {
		log.Fatalf("Invalid -actions: %v", err)
	}

	sub, err := observable.From(s).Subscribe(observable.ObserverFunc[combine.State](func(state combine.State) {
		fmt.Printf("count=%v\n", state["count"])
	}))
	if err != nil {
		log.Fatalf("Failed to observe store: %v", err)
	}

	for _, cmd := range cmds {
		if _, err := bound[cmd.name](cmd.args...); err != nil {
			log.Fatalf("Action %s failed: %v", cmd.name, err)
		}
	}
	if err := sub.Unsubscribe(); err != nil {
		log.Fatalf("Failed to stop observing store: %v", err)
	}

	state, err := s.GetState()
	if err != nil {
		log.Fatalf("Failed to read state: %v", err)
	}
	applied, _ := state["applied"].([]string)
	fmt.Printf("\nFinal count: %v\n", state["count"])
	fmt.Printf("Applied: %d actions\n", len(applied))

	if !*serve {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := devtools.ListenAndServe(ctx, cfg.Devtools.Addr, inspector, logger); err != nil {
		log.Fatalf("Devtools server failed: %v", err)
	}
}
