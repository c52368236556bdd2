package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/domain"
	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/engine"
)

var _ engine.Ledger = (*Ledger)(nil)

// Ledger is the in-memory account store. A single mutex serializes every
// read-modify-write, so Debit's check-then-mutate is atomic: two
// simultaneous debits whose combined amount exceeds the balance can never
// both succeed.
type Ledger struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*domain.Account
	now      func() time.Time
}

func NewLedger() *Ledger {
	return &Ledger{
		accounts: make(map[uuid.UUID]*domain.Account),
		now:      time.Now,
	}
}

// Add registers an account, used when seeding.
func (l *Ledger) Add(acc domain.Account) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := acc
	l.accounts[acc.ID] = &cp
}

// Account returns a snapshot copy so callers cannot mutate internal state.
func (l *Ledger) Account(id uuid.UUID) (domain.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	acc, ok := l.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return *acc, nil
}

// AccountsForUser returns snapshots of every account the user owns.
func (l *Ledger) AccountsForUser(userID uuid.UUID) []domain.Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Account, 0, 1)
	for _, acc := range l.accounts {
		if acc.OwnerID == userID {
			out = append(out, *acc)
		}
	}
	return out
}

// Debit atomically reduces the balance. It fails without mutation when the
// account is unknown or the amount exceeds the current balance.
func (l *Ledger) Debit(id uuid.UUID, amountCents int64) (domain.Account, error) {
	if amountCents <= 0 {
		return domain.Account{}, domain.ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	acc, ok := l.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	if acc.Balance < amountCents {
		return domain.Account{}, domain.ErrInsufficientFunds
	}
	acc.Balance -= amountCents
	acc.UpdatedAt = l.now()
	return *acc, nil
}

// Credit adds funds, used by seeding and inbound settlement.
func (l *Ledger) Credit(id uuid.UUID, amountCents int64) (domain.Account, error) {
	if amountCents <= 0 {
		return domain.Account{}, domain.ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	acc, ok := l.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	acc.Balance += amountCents
	acc.UpdatedAt = l.now()
	return *acc, nil
}
