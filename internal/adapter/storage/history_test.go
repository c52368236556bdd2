package storage

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/domain"
)

func seedHistory(h *MemoryHistory, userID uuid.UUID, n int) []domain.HistoryEntry {
	base := time.Now().Add(-time.Hour)
	entries := make([]domain.HistoryEntry, 0, n)
	for i := 0; i < n; i++ {
		e := domain.HistoryEntry{
			TransferID:  uuid.New(),
			UserID:      userID,
			Channel:     domain.ChannelBankAccount,
			Currency:    domain.MYR,
			AmountCents: int64(1000 * (i + 1)),
			Status:      domain.StatusSuccess,
			CompletedAt: base.Add(time.Duration(i) * time.Minute),
		}
		h.Append(e)
		entries = append(entries, e)
	}
	return entries
}

func TestListNewestFirst(t *testing.T) {
	h := NewMemoryHistory()
	userID := uuid.New()
	entries := seedHistory(h, userID, 5)

	page, hasMore := h.List(userID, 0, 10)
	require.False(t, hasMore)
	require.Len(t, page, 5)
	// Last appended (latest completion) comes first.
	require.Equal(t, entries[4].TransferID, page[0].TransferID)
	require.Equal(t, entries[0].TransferID, page[4].TransferID)
}

func TestListPagesAreDisjoint(t *testing.T) {
	h := NewMemoryHistory()
	userID := uuid.New()
	seedHistory(h, userID, 25)

	seen := map[uuid.UUID]bool{}
	p0, hasMore := h.List(userID, 0, 10)
	require.True(t, hasMore)
	require.Len(t, p0, 10)

	p1, hasMore := h.List(userID, 1, 10)
	require.True(t, hasMore)
	require.Len(t, p1, 10)

	p2, hasMore := h.List(userID, 2, 10)
	require.False(t, hasMore)
	require.Len(t, p2, 5)

	for _, p := range [][]domain.HistoryEntry{p0, p1, p2} {
		for _, e := range p {
			require.False(t, seen[e.TransferID], "entry repeated across pages")
			seen[e.TransferID] = true
		}
	}
	require.Len(t, seen, 25)
}

func TestListHasMoreBoundary(t *testing.T) {
	h := NewMemoryHistory()
	userID := uuid.New()
	seedHistory(h, userID, 20)

	// hasMore is true iff (page+1)*pageSize < total.
	_, hasMore := h.List(userID, 0, 10)
	require.True(t, hasMore)
	_, hasMore = h.List(userID, 1, 10)
	require.False(t, hasMore)

	page, hasMore := h.List(userID, 5, 10)
	require.False(t, hasMore)
	require.Empty(t, page)
}

func TestListFiltersByUser(t *testing.T) {
	h := NewMemoryHistory()
	alice := uuid.New()
	bob := uuid.New()
	seedHistory(h, alice, 3)
	seedHistory(h, bob, 2)

	page, _ := h.List(alice, 0, 10)
	require.Len(t, page, 3)
	for _, e := range page {
		require.Equal(t, alice, e.UserID)
	}
}
