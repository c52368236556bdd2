package storage

import (
	"sync"

	"github.com/google/uuid"

	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/domain"
	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/engine"
)

// HistoryStore is the append-only record of terminal transfers with
// offset-based pagination, newest first.
type HistoryStore interface {
	engine.History
	List(userID uuid.UUID, page, pageSize int) ([]domain.HistoryEntry, bool)
}

var _ HistoryStore = (*MemoryHistory)(nil)

// MemoryHistory keeps entries in memory, newest first.
type MemoryHistory struct {
	mu      sync.Mutex
	entries []domain.HistoryEntry
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{}
}

// Append records a terminal transfer. Entries arrive in completion order,
// so prepending keeps the list newest-first.
func (h *MemoryHistory) Append(entry domain.HistoryEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append([]domain.HistoryEntry{entry}, h.entries...)
}

// List returns one page for the user and whether more pages follow:
// hasMore is true iff (page+1)*pageSize < total.
func (h *MemoryHistory) List(userID uuid.UUID, page, pageSize int) ([]domain.HistoryEntry, bool) {
	if page < 0 || pageSize <= 0 {
		return []domain.HistoryEntry{}, false
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	var mine []domain.HistoryEntry
	for _, e := range h.entries {
		if userID == uuid.Nil || e.UserID == userID {
			mine = append(mine, e)
		}
	}

	start := page * pageSize
	if start >= len(mine) {
		return []domain.HistoryEntry{}, false
	}
	end := start + pageSize
	if end > len(mine) {
		end = len(mine)
	}

	out := make([]domain.HistoryEntry, end-start)
	copy(out, mine[start:end])
	return out, (page+1)*pageSize < len(mine)
}
