package devtools

import (
	"context"
	"errors"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully-qualified name of the inspector service.
	ServiceName = "statestore.devtools.v1.InspectorService"

	// GetStateProcedure returns the latest state snapshot.
	GetStateProcedure = "/" + ServiceName + "/GetState"
	// GetHistoryProcedure returns the recorded actions, oldest first.
	GetHistoryProcedure = "/" + ServiceName + "/GetHistory"
)

// Source is what the service reads from. *Inspector[S] implements it for
// every S.
type Source interface {
	Snapshot() (Snapshot, error)
	History() []Record
}

// NewHandler builds the Connect handler for the inspector service and returns
// the path prefix it should be mounted on.
func NewHandler(src Source, opts ...connect.HandlerOption) (string, http.Handler) {
	svc := &service{src: src}

	mux := http.NewServeMux()
	mux.Handle(GetStateProcedure, connect.NewUnaryHandler(GetStateProcedure, svc.getState, opts...))
	mux.Handle(GetHistoryProcedure, connect.NewUnaryHandler(GetHistoryProcedure, svc.getHistory, opts...))
	return "/" + ServiceName + "/", mux
}

type service struct {
	src Source
}

func (s *service) getState(
	_ context.Context,
	_ *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	snap, err := s.src.Snapshot()
	switch {
	case errors.Is(err, ErrNoSnapshot):
		return nil, connect.NewError(connect.CodeUnavailable, err)
	case err != nil:
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	msg, err := structpb.NewStruct(map[string]any{
		"store":      snap.Store,
		"state":      snap.State,
		"dispatches": snap.Dispatches,
		"updated_at": snap.UpdatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(msg), nil
}

func (s *service) getHistory(
	_ context.Context,
	_ *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	records := s.src.History()

	list := make([]any, len(records))
	for i, rec := range records {
		entry := map[string]any{
			"id":          rec.ID,
			"action_type": rec.ActionType,
			"dispatch":    rec.Dispatch,
			"time":        rec.Time.Format(time.RFC3339Nano),
		}
		if rec.Error != "" {
			entry["error"] = rec.Error
		}
		list[i] = entry
	}

	msg, err := structpb.NewStruct(map[string]any{"records": list})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(msg), nil
}
