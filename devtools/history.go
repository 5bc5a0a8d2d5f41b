package devtools

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record describes one action that reached the inspector.
type Record struct {
	ID         string    `json:"id"`
	ActionType string    `json:"action_type"`
	Dispatch   uint64    `json:"dispatch"`
	Time       time.Time `json:"time"`
	Error      string    `json:"error,omitempty"`
}

// history is a bounded, oldest-first log of records.
type history struct {
	records []Record
	limit   int
	mu      sync.RWMutex
}

func newHistory(limit int) *history {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return &history{limit: limit}
}

func (h *history) add(actionType string, dispatch uint64, err error) Record {
	rec := Record{
		ID:         uuid.Must(uuid.NewV7()).String(),
		ActionType: actionType,
		Dispatch:   dispatch,
		Time:       time.Now(),
	}
	if err != nil {
		rec.Error = err.Error()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, rec)
	if over := len(h.records) - h.limit; over > 0 {
		h.records = slices.Delete(h.records, 0, over)
	}
	return rec
}

func (h *history) list() []Record {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.records)
}

func (h *history) clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
}
