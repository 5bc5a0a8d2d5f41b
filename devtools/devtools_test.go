package devtools_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/google/go-cmp/cmp"

	"github.com/tailored-agentic-units/statestore/combine"
	"github.com/tailored-agentic-units/statestore/devtools"
	"github.com/tailored-agentic-units/statestore/middleware"
	"github.com/tailored-agentic-units/statestore/store"
)

type todoState struct {
	Items []string `json:"items"`
	Done  int      `json:"done"`
}

var errRejected = errors.New("rejected")

func todos(s todoState, a store.Action) (todoState, error) {
	switch a.Type {
	case "ADD":
		items := append([]string(nil), s.Items...)
		return todoState{Items: append(items, a.Payload.(string)), Done: s.Done}, nil
	case "DONE":
		return todoState{Items: s.Items, Done: s.Done + 1}, nil
	case "REJECT":
		return s, errRejected
	}
	return s, nil
}

func newInspected(t *testing.T, cfg devtools.Config) (store.Store[todoState], *devtools.Inspector[todoState]) {
	t.Helper()
	inspector := devtools.NewInspector[todoState]("todos", cfg)
	s, err := store.New(todos, store.WithEnhancer(store.Apply(
		middleware.Thunk[todoState](nil),
		inspector.Middleware(),
	)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s, inspector
}

func newClient(t *testing.T, src devtools.Source) *devtools.Client {
	t.Helper()
	path, handler := devtools.NewHandler(src)
	mux := http.NewServeMux()
	mux.Handle(path, handler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return devtools.NewClient(server.Client(), server.URL)
}

func TestDefaultConfig(t *testing.T) {
	cfg := devtools.DefaultConfig()

	if cfg.Addr == "" {
		t.Error("Addr should not be empty")
	}
	if cfg.HistoryLimit != 100 {
		t.Errorf("HistoryLimit = %d, want 100", cfg.HistoryLimit)
	}
}

func TestConfig_Merge(t *testing.T) {
	tests := []struct {
		name   string
		source devtools.Config
		want   devtools.Config
	}{
		{
			name:   "empty source keeps defaults",
			source: devtools.Config{},
			want:   devtools.DefaultConfig(),
		},
		{
			name:   "overrides",
			source: devtools.Config{Addr: ":9000", HistoryLimit: 5},
			want:   devtools.Config{Addr: ":9000", HistoryLimit: 5},
		},
		{
			name:   "negative limit ignored",
			source: devtools.Config{HistoryLimit: -1},
			want:   devtools.DefaultConfig(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := devtools.DefaultConfig()
			cfg.Merge(&tt.source)
			if cfg != tt.want {
				t.Errorf("Merge() = %+v, want %+v", cfg, tt.want)
			}
		})
	}
}

func TestInspector_CapturesInitialState(t *testing.T) {
	inspector := devtools.NewInspector[todoState]("todos", devtools.DefaultConfig())

	if _, err := inspector.Snapshot(); !errors.Is(err, devtools.ErrNoSnapshot) {
		t.Fatalf("Snapshot() before install error = %v, want %v", err, devtools.ErrNoSnapshot)
	}

	_, err := store.New(todos,
		store.WithPreloadedState(todoState{Items: []string{"seed"}}),
		store.WithEnhancer(store.Apply(inspector.Middleware())),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	snap, err := inspector.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	want := map[string]any{"items": []any{"seed"}, "done": float64(0)}
	if diff := cmp.Diff(want, snap.State); diff != "" {
		t.Errorf("snapshot state mismatch (-want +got):\n%s", diff)
	}
	if snap.Dispatches != 0 {
		t.Errorf("Dispatches = %d, want 0", snap.Dispatches)
	}
}

func TestInspector_RecordsDispatches(t *testing.T) {
	s, inspector := newInspected(t, devtools.DefaultConfig())

	s.Dispatch(store.Action{Type: "ADD", Payload: "write docs"})
	s.Dispatch(store.Action{Type: "REJECT"})
	s.Dispatch(store.Action{Type: "DONE"})

	snap, err := inspector.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snap.Dispatches != 2 {
		t.Errorf("Dispatches = %d, want 2", snap.Dispatches)
	}
	want := map[string]any{"items": []any{"write docs"}, "done": float64(1)}
	if diff := cmp.Diff(want, snap.State); diff != "" {
		t.Errorf("snapshot state mismatch (-want +got):\n%s", diff)
	}

	history := inspector.History()
	var types []string
	for _, rec := range history {
		types = append(types, rec.ActionType)
		if rec.ID == "" {
			t.Error("record ID should not be empty")
		}
	}
	if diff := cmp.Diff([]string{"ADD", "REJECT", "DONE"}, types); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
	if history[1].Error != errRejected.Error() {
		t.Errorf("REJECT record error = %q, want %q", history[1].Error, errRejected.Error())
	}

	inspector.Reset()
	if got := len(inspector.History()); got != 0 {
		t.Errorf("len(History()) after Reset = %d, want 0", got)
	}
}

func TestInspector_HistoryLimit(t *testing.T) {
	s, inspector := newInspected(t, devtools.Config{HistoryLimit: 2})

	for _, item := range []string{"a", "b", "c"} {
		s.Dispatch(store.Action{Type: "ADD", Payload: item})
	}

	history := inspector.History()
	if len(history) != 2 {
		t.Fatalf("len(History()) = %d, want 2", len(history))
	}
	if history[0].Dispatch != 2 || history[1].Dispatch != 3 {
		t.Errorf("kept dispatches %d, %d; want 2, 3", history[0].Dispatch, history[1].Dispatch)
	}
}

func TestInspector_SkipsNonActions(t *testing.T) {
	s, inspector := newInspected(t, devtools.DefaultConfig())

	thunk := middleware.ThunkFunc[todoState](func(dispatch store.Dispatch, _ func() (todoState, error), _ any) (any, error) {
		return dispatch(store.Action{Type: "ADD", Payload: "from thunk"})
	})
	if _, err := s.Dispatch(thunk); err != nil {
		t.Fatalf("Dispatch(thunk) error = %v", err)
	}

	history := inspector.History()
	if len(history) != 1 || history[0].ActionType != "ADD" {
		t.Errorf("History() = %+v, want a single ADD record", history)
	}
}

func TestInspector_RefreshAfterReplaceReducer(t *testing.T) {
	before, err := combine.Reducers(map[string]store.Reducer[any]{
		"a": combine.Slice(0, store.Pure(func(n int, a store.Action) int {
			if a.Type == "INC" {
				return n + 1
			}
			return n
		})),
	})
	if err != nil {
		t.Fatalf("Reducers() error = %v", err)
	}
	after, err := combine.Reducers(map[string]store.Reducer[any]{
		"a": combine.Slice(0, store.Pure(func(n int, _ store.Action) int { return n })),
		"b": combine.Slice("fresh", store.Pure(func(s string, _ store.Action) string { return s })),
	})
	if err != nil {
		t.Fatalf("Reducers() error = %v", err)
	}

	inspector := devtools.NewInspector[combine.State]("combined", devtools.DefaultConfig())
	if err := inspector.Refresh(); !errors.Is(err, devtools.ErrNoSnapshot) {
		t.Fatalf("Refresh() before install error = %v, want %v", err, devtools.ErrNoSnapshot)
	}

	s, err := store.New(before, store.WithEnhancer(store.Apply(inspector.Middleware())))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	s.Dispatch(store.Action{Type: "INC"})

	if _, err := s.ReplaceReducer(after); err != nil {
		t.Fatalf("ReplaceReducer() error = %v", err)
	}
	if err := inspector.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	snap, err := inspector.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	want := map[string]any{"a": float64(1), "b": "fresh"}
	if diff := cmp.Diff(want, snap.State); diff != "" {
		t.Errorf("snapshot after Refresh mismatch (-want +got):\n%s", diff)
	}
	if snap.Dispatches != 1 {
		t.Errorf("Dispatches = %d, want 1", snap.Dispatches)
	}
}

func TestInspector_UnencodableState(t *testing.T) {
	inspector := devtools.NewInspector[chan int]("chan", devtools.DefaultConfig())
	_, err := store.New(store.Pure(func(c chan int, _ store.Action) chan int { return c }),
		store.WithEnhancer(store.Apply(inspector.Middleware())),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := inspector.Snapshot(); !errors.Is(err, devtools.ErrEncodeState) {
		t.Errorf("Snapshot() error = %v, want %v", err, devtools.ErrEncodeState)
	}
}

func TestService_GetState(t *testing.T) {
	s, inspector := newInspected(t, devtools.DefaultConfig())
	client := newClient(t, inspector)

	s.Dispatch(store.Action{Type: "ADD", Payload: "ship it"})

	snap, err := client.GetState(context.Background())
	if err != nil {
		t.Fatalf("GetState() error = %v", err)
	}

	if snap.Store != "todos" {
		t.Errorf("Store = %q, want todos", snap.Store)
	}
	if snap.Dispatches != 1 {
		t.Errorf("Dispatches = %d, want 1", snap.Dispatches)
	}
	if snap.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set")
	}
	want := map[string]any{"items": []any{"ship it"}, "done": float64(0)}
	if diff := cmp.Diff(want, snap.State); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestService_GetHistory(t *testing.T) {
	s, inspector := newInspected(t, devtools.DefaultConfig())
	client := newClient(t, inspector)

	s.Dispatch(store.Action{Type: "ADD", Payload: "x"})
	s.Dispatch(store.Action{Type: "REJECT"})

	records, err := client.GetHistory(context.Background())
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}

	local := inspector.History()
	if len(records) != len(local) {
		t.Fatalf("len(GetHistory()) = %d, want %d", len(records), len(local))
	}
	for i := range local {
		if records[i].ID != local[i].ID || records[i].ActionType != local[i].ActionType {
			t.Errorf("record %d = %+v, want %+v", i, records[i], local[i])
		}
		if !records[i].Time.Equal(local[i].Time) {
			t.Errorf("record %d time = %v, want %v", i, records[i].Time, local[i].Time)
		}
	}
	if records[1].Error != errRejected.Error() {
		t.Errorf("record 1 error = %q, want %q", records[1].Error, errRejected.Error())
	}
}

func TestService_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  devtools.Source
		want connect.Code
	}{
		{
			name: "not installed",
			src:  devtools.NewInspector[todoState]("idle", devtools.DefaultConfig()),
			want: connect.CodeUnavailable,
		},
		{
			name: "unencodable state",
			src: func() devtools.Source {
				inspector := devtools.NewInspector[func()]("func", devtools.DefaultConfig())
				store.New(store.Pure(func(f func(), _ store.Action) func() { return f }),
					store.WithEnhancer(store.Apply(inspector.Middleware())))
				return inspector
			}(),
			want: connect.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, tt.src)
			_, err := client.GetState(context.Background())
			if got := connect.CodeOf(err); got != tt.want {
				t.Errorf("GetState() code = %v, want %v (err: %v)", got, tt.want, err)
			}
		})
	}
}

func TestServe(t *testing.T) {
	s, inspector := newInspected(t, devtools.DefaultConfig())
	s.Dispatch(store.Action{Type: "DONE"})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- devtools.Serve(ctx, ln, inspector, nil)
	}()

	httpClient := &http.Client{Timeout: 5 * time.Second}
	client := devtools.NewClient(httpClient, "http://"+ln.Addr().String())

	snap, err := client.GetState(context.Background())
	if err != nil {
		t.Fatalf("GetState() error = %v", err)
	}
	if snap.Dispatches != 1 {
		t.Errorf("Dispatches = %d, want 1", snap.Dispatches)
	}

	httpClient.CloseIdleConnections()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
