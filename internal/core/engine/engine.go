// Package engine owns the transfer lifecycle state machine: it validates
// creation requests, serializes confirmations, consults the ledger for the
// debit, and projects terminal transfers into history.
//
// Confirmation is synchronous: Confirm moves a PENDING transfer through
// PROCESSING to SUCCESS or FAILED inside a single critical section and
// returns the terminal transfer. PollStatus is a pure read; WaitTerminal
// bounds a caller's polling loop for the asynchronous-client case.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/domain"
	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/metrics"
)

// Ledger is the account store the engine debits on success.
type Ledger interface {
	Account(id uuid.UUID) (domain.Account, error)
	Debit(id uuid.UUID, amountCents int64) (domain.Account, error)
}

// Directory resolves recipient handles. Ad-hoc handles are only required
// to resolve at confirmation time, not at creation.
type Directory interface {
	Recipient(id uuid.UUID) (domain.Recipient, error)
	ResolveBankAccount(accountNo, bankCode string) (domain.Resolution, error)
	ResolveMobile(mobileNumber string) (domain.Resolution, error)
}

// History receives the read-only projection of each terminal transfer.
type History interface {
	Append(entry domain.HistoryEntry)
}

// Authorizer is the authentication gate consulted before a confirmation
// proceeds. The engine treats it as an opaque boolean precondition.
type Authorizer interface {
	IsAuthorized(ctx context.Context) bool
}

// Notifier observes terminal transfers, e.g. to queue webhooks.
type Notifier interface {
	TransferCompleted(t domain.Transfer)
}

// Engine is the single owner of all in-flight transfers. One mutex
// serializes every state transition, so two concurrent Confirms on the
// same transfer can never both succeed: the second observes a status
// that is no longer PENDING.
type Engine struct {
	mu        sync.Mutex
	transfers map[uuid.UUID]*domain.Transfer

	ledger   Ledger
	dir      Directory
	auth     Authorizer
	history  History
	notifier Notifier
	faults   FaultPolicy

	rng *rand.Rand
	now func() time.Time
}

// Option tweaks engine construction; the defaults are production wiring.
type Option func(*Engine)

// WithFaultPolicy installs the downstream fault-injection policy.
func WithFaultPolicy(p FaultPolicy) Option {
	return func(e *Engine) { e.faults = p }
}

// WithNotifier installs an observer for terminal transfers.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(ledger Ledger, dir Directory, auth Authorizer, history History, opts ...Option) *Engine {
	e := &Engine{
		transfers: make(map[uuid.UUID]*domain.Transfer),
		ledger:    ledger,
		dir:       dir,
		auth:      auth,
		history:   history,
		faults:    NoFaults{},
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Create validates the request and registers a new PENDING transfer.
// No balance is touched and ad-hoc recipients are not resolved yet.
func (e *Engine) Create(ctx context.Context, req domain.TransferRequest) (domain.Transfer, error) {
	if req.AmountCents <= 0 {
		return domain.Transfer{}, domain.ErrInvalidAmount
	}
	if !req.Channel.Valid() {
		return domain.Transfer{}, domain.ErrInvalidChannel
	}
	if !req.HasRecipient() {
		return domain.Transfer{}, domain.ErrInvalidRecipient
	}

	acc, err := e.ledger.Account(req.AccountID)
	if err != nil {
		return domain.Transfer{}, domain.ErrAccountNotFound
	}

	// A saved recipient must exist and match the requested channel.
	var recipientName string
	if req.RecipientID != uuid.Nil {
		rec, err := e.dir.Recipient(req.RecipientID)
		if err != nil || rec.Channel != req.Channel {
			return domain.Transfer{}, domain.ErrInvalidRecipient
		}
		recipientName = rec.Name
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	t := &domain.Transfer{
		ID:            uuid.New(),
		AccountID:     req.AccountID,
		Channel:       req.Channel,
		RecipientID:   req.RecipientID,
		RecipientName: recipientName,
		AccountNo:     req.AccountNo,
		BankCode:      req.BankCode,
		MobileNumber:  req.MobileNumber,
		AmountCents:   req.AmountCents,
		Currency:      acc.Currency,
		Note:          req.Note,
		ReferenceCode: e.newReferenceCode(),
		Status:        domain.StatusPending,
		InitiatedAt:   e.now(),
	}
	e.transfers[t.ID] = t

	metrics.TransfersCreated.Inc()
	slog.Info("transfer created",
		"transfer_id", t.ID, "account_id", t.AccountID,
		"channel", t.Channel, "amount_cents", t.AmountCents, "reference", t.ReferenceCode)

	return *t, nil
}

// Confirm drives a PENDING transfer to its terminal status and returns it.
//
// Insufficient funds and injected downstream validation faults are valid
// terminal outcomes, returned as a FAILED transfer with a FailReason and a
// nil error. Sequencing mistakes (unknown id, non-PENDING status, failed
// authorization, unresolvable ad-hoc recipient) are errors and leave the
// transfer untouched.
func (e *Engine) Confirm(ctx context.Context, id uuid.UUID) (domain.Transfer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.transfers[id]
	if !ok {
		return domain.Transfer{}, domain.ErrTransferNotFound
	}
	if t.Status != domain.StatusPending {
		return domain.Transfer{}, domain.ErrInvalidStateTransition
	}
	if !e.auth.IsAuthorized(ctx) {
		return domain.Transfer{}, domain.ErrUnauthorized
	}

	// Ad-hoc recipients must resolve before confirmation proceeds. The
	// transfer stays PENDING on failure so the caller can cancel it.
	if t.RecipientID == uuid.Nil {
		if err := e.resolveAdHoc(t); err != nil {
			return domain.Transfer{}, err
		}
	}

	t.Status = domain.StatusProcessing

	// Re-read the current balance; a transfer that cannot be covered fails
	// terminally instead of erroring.
	acc, err := e.ledger.Account(t.AccountID)
	if err != nil {
		return domain.Transfer{}, domain.ErrAccountNotFound
	}
	if acc.Balance < t.AmountCents {
		return e.fail(t, domain.FailInsufficientFunds), nil
	}

	// Simulated downstream validation fault. Production wiring uses the
	// no-op policy, so this branch never fires there.
	if e.faults.ShouldFail() {
		return e.fail(t, domain.FailNetworkValidationFailed), nil
	}

	if _, err := e.ledger.Debit(t.AccountID, t.AmountCents); err != nil {
		return e.fail(t, domain.FailInsufficientFunds), nil
	}

	now := e.now()
	t.Status = domain.StatusSuccess
	t.CompletedAt = &now
	e.finish(t)

	slog.Info("transfer confirmed",
		"transfer_id", t.ID, "status", t.Status, "amount_cents", t.AmountCents)
	return *t, nil
}

// PollStatus is a pure read of the current status; it never mutates.
func (e *Engine) PollStatus(id uuid.UUID) (domain.TransferStatus, domain.FailReason, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.transfers[id]
	if !ok {
		return "", "", domain.ErrTransferNotFound
	}
	return t.Status, t.FailReason, nil
}

// Transfer returns a snapshot of the transfer.
func (e *Engine) Transfer(id uuid.UUID) (domain.Transfer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.transfers[id]
	if !ok {
		return domain.Transfer{}, domain.ErrTransferNotFound
	}
	return *t, nil
}

// Cancel removes a transfer that has not been confirmed yet. Cancellation
// is a deletion, not a transition to FAILED.
func (e *Engine) Cancel(id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.transfers[id]
	if !ok {
		return domain.ErrTransferNotFound
	}
	if t.Status != domain.StatusPending {
		return domain.ErrNotCancellable
	}
	delete(e.transfers, id)

	metrics.TransfersCancelled.Inc()
	slog.Info("transfer cancelled", "transfer_id", id)
	return nil
}

// WaitTerminal polls until the transfer reaches a terminal status, up to
// maxAttempts reads spaced by interval. Exceeding the bound surfaces
// ErrStillProcessing; cancelling ctx abandons the wait.
func (e *Engine) WaitTerminal(ctx context.Context, id uuid.UUID, maxAttempts int, interval time.Duration) (domain.Transfer, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		status, _, err := e.PollStatus(id)
		if err != nil {
			return domain.Transfer{}, err
		}
		if status.Terminal() {
			return e.Transfer(id)
		}
		select {
		case <-ctx.Done():
			return domain.Transfer{}, ctx.Err()
		case <-time.After(interval):
		}
	}
	return domain.Transfer{}, domain.ErrStillProcessing
}

// resolveAdHoc validates the raw recipient fields carried on the transfer.
// Called with e.mu held.
func (e *Engine) resolveAdHoc(t *domain.Transfer) error {
	switch t.Channel {
	case domain.ChannelBankAccount:
		res, err := e.dir.ResolveBankAccount(t.AccountNo, t.BankCode)
		if err != nil {
			return err
		}
		if !res.IsValid {
			return domain.ErrInvalidRecipient
		}
		t.RecipientName = res.DisplayName
	case domain.ChannelMobileNumber:
		res, err := e.dir.ResolveMobile(t.MobileNumber)
		if err != nil {
			return err
		}
		t.RecipientName = res.DisplayName
	default:
		return domain.ErrInvalidChannel
	}
	return nil
}

// fail marks the transfer FAILED with the given reason. Called with e.mu held.
func (e *Engine) fail(t *domain.Transfer, reason domain.FailReason) domain.Transfer {
	now := e.now()
	t.Status = domain.StatusFailed
	t.FailReason = reason
	t.CompletedAt = &now
	e.finish(t)

	slog.Warn("transfer failed",
		"transfer_id", t.ID, "reason", reason, "amount_cents", t.AmountCents)
	return *t
}

// finish projects a terminal transfer into history and notifies observers.
// Called with e.mu held.
func (e *Engine) finish(t *domain.Transfer) {
	metrics.TransfersConfirmed.WithLabelValues(string(t.Status)).Inc()

	entry := domain.HistoryEntry{
		TransferID:    t.ID,
		Channel:       t.Channel,
		Label:         t.Label(),
		Currency:      t.Currency,
		AmountCents:   t.AmountCents,
		Status:        t.Status,
		FailReason:    t.FailReason,
		ReferenceCode: t.ReferenceCode,
		CompletedAt:   *t.CompletedAt,
	}
	if acc, err := e.ledger.Account(t.AccountID); err == nil {
		entry.UserID = acc.OwnerID
	}
	e.history.Append(entry)

	if e.notifier != nil {
		e.notifier.TransferCompleted(*t)
	}
}

// newReferenceCode returns a human-shareable code like "REF483920".
// Called with e.mu held.
func (e *Engine) newReferenceCode() string {
	return fmt.Sprintf("REF%06d", e.rng.Intn(1000000))
}
