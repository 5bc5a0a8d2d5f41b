package devtools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client reads from a remote inspector service.
type Client struct {
	getState   *connect.Client[emptypb.Empty, structpb.Struct]
	getHistory *connect.Client[emptypb.Empty, structpb.Struct]
}

// NewClient creates a client for the inspector service at baseURL, for
// example "http://127.0.0.1:8765".
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	return &Client{
		getState:   connect.NewClient[emptypb.Empty, structpb.Struct](httpClient, baseURL+GetStateProcedure, opts...),
		getHistory: connect.NewClient[emptypb.Empty, structpb.Struct](httpClient, baseURL+GetHistoryProcedure, opts...),
	}
}

// GetState fetches the latest snapshot. Numbers in State decode as float64.
func (c *Client) GetState(ctx context.Context) (Snapshot, error) {
	resp, err := c.getState.CallUnary(ctx, connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		return Snapshot{}, err
	}
	fields := resp.Msg.AsMap()

	name, _ := fields["store"].(string)
	dispatches, ok := fields["dispatches"].(float64)
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: missing dispatches", ErrMalformedResponse)
	}
	updatedAt, err := parseTime(fields["updated_at"])
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Store:      name,
		State:      fields["state"],
		Dispatches: uint64(dispatches),
		UpdatedAt:  updatedAt,
	}, nil
}

// GetHistory fetches the recorded actions, oldest first.
func (c *Client) GetHistory(ctx context.Context) ([]Record, error) {
	resp, err := c.getHistory.CallUnary(ctx, connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		return nil, err
	}

	list, ok := resp.Msg.AsMap()["records"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing records", ErrMalformedResponse)
	}

	records := make([]Record, 0, len(list))
	for _, item := range list {
		fields, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: record is %T", ErrMalformedResponse, item)
		}
		at, err := parseTime(fields["time"])
		if err != nil {
			return nil, err
		}
		dispatch, _ := fields["dispatch"].(float64)
		rec := Record{Time: at, Dispatch: uint64(dispatch)}
		rec.ID, _ = fields["id"].(string)
		rec.ActionType, _ = fields["action_type"].(string)
		rec.Error, _ = fields["error"].(string)
		records = append(records, rec)
	}
	return records, nil
}

func parseTime(v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: missing timestamp", ErrMalformedResponse)
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return t, nil
}
