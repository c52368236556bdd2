package engine_test

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jiman93/Payment-transfer-module-ryt/internal/adapter/storage"
	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/domain"
	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/engine"
	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/security"
)

type fixture struct {
	eng       *engine.Engine
	ledger    *storage.Ledger
	dir       *storage.Directory
	history   *storage.MemoryHistory
	accountID uuid.UUID
	userID    uuid.UUID
}

func newFixture(t *testing.T, balance int64, opts ...engine.Option) *fixture {
	t.Helper()
	f := &fixture{
		ledger:    storage.NewLedger(),
		dir:       storage.NewDirectory(),
		history:   storage.NewMemoryHistory(),
		accountID: uuid.New(),
		userID:    uuid.New(),
	}
	f.ledger.Add(domain.Account{
		ID:       f.accountID,
		OwnerID:  f.userID,
		Currency: domain.MYR,
		Balance:  balance,
	})
	f.eng = engine.New(f.ledger, f.dir, security.AllowAll{}, f.history, opts...)
	return f
}

func (f *fixture) bankRequest(amountCents int64) domain.TransferRequest {
	return domain.TransferRequest{
		AccountID:   f.accountID,
		Channel:     domain.ChannelBankAccount,
		AccountNo:   "1234567890",
		BankCode:    "MB",
		AmountCents: amountCents,
	}
}

func (f *fixture) balance(t *testing.T) int64 {
	t.Helper()
	acc, err := f.ledger.Account(f.accountID)
	require.NoError(t, err)
	return acc.Balance
}

var referencePattern = regexp.MustCompile(`^REF\d{6}$`)

func TestCreateReturnsPending(t *testing.T) {
	f := newFixture(t, 250000)

	first, err := f.eng.Create(context.Background(), f.bankRequest(10000))
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, first.Status)
	require.Regexp(t, referencePattern, first.ReferenceCode)
	require.False(t, first.InitiatedAt.IsZero())

	second, err := f.eng.Create(context.Background(), f.bankRequest(20000))
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	// No balance is touched at creation time.
	require.Equal(t, int64(250000), f.balance(t))
}

func TestCreateRejectsNonPositiveAmount(t *testing.T) {
	f := newFixture(t, 250000)

	for _, amount := range []int64{0, -100} {
		_, err := f.eng.Create(context.Background(), f.bankRequest(amount))
		require.ErrorIs(t, err, domain.ErrInvalidAmount)
	}

	// Nothing was persisted.
	_, _, err := f.eng.PollStatus(uuid.New())
	require.ErrorIs(t, err, domain.ErrTransferNotFound)
}

func TestCreateRejectsMissingRecipient(t *testing.T) {
	f := newFixture(t, 250000)

	_, err := f.eng.Create(context.Background(), domain.TransferRequest{
		AccountID:   f.accountID,
		Channel:     domain.ChannelBankAccount,
		AmountCents: 10000,
	})
	require.ErrorIs(t, err, domain.ErrInvalidRecipient)

	_, err = f.eng.Create(context.Background(), domain.TransferRequest{
		AccountID:   f.accountID,
		Channel:     domain.ChannelMobileNumber,
		AmountCents: 10000,
	})
	require.ErrorIs(t, err, domain.ErrInvalidRecipient)
}

func TestCreateRejectsUnknownAccount(t *testing.T) {
	f := newFixture(t, 250000)

	req := f.bankRequest(10000)
	req.AccountID = uuid.New()
	_, err := f.eng.Create(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestCreateRejectsUnknownChannel(t *testing.T) {
	f := newFixture(t, 250000)

	req := f.bankRequest(10000)
	req.Channel = "PIGEON"
	_, err := f.eng.Create(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrInvalidChannel)
}

func TestCreateWithSavedRecipient(t *testing.T) {
	f := newFixture(t, 250000)
	recID := uuid.New()
	f.dir.Add(domain.Recipient{
		ID: recID, UserID: f.userID,
		Channel: domain.ChannelBankAccount, Name: "John Doe",
		AccountNo: "1234567890", BankCode: "MB",
	})

	t1, err := f.eng.Create(context.Background(), domain.TransferRequest{
		AccountID:   f.accountID,
		Channel:     domain.ChannelBankAccount,
		RecipientID: recID,
		AmountCents: 10000,
	})
	require.NoError(t, err)
	require.Equal(t, "John Doe", t1.RecipientName)

	// Channel mismatch between request and saved recipient is rejected.
	_, err = f.eng.Create(context.Background(), domain.TransferRequest{
		AccountID:   f.accountID,
		Channel:     domain.ChannelMobileNumber,
		RecipientID: recID,
		AmountCents: 10000,
	})
	require.ErrorIs(t, err, domain.ErrInvalidRecipient)
}

func TestConfirmSuccessDebitsExactly(t *testing.T) {
	f := newFixture(t, 250000) // RM 2,500.00

	created, err := f.eng.Create(context.Background(), f.bankRequest(10000)) // RM 100.00
	require.NoError(t, err)

	confirmed, err := f.eng.Confirm(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusSuccess, confirmed.Status)
	require.NotNil(t, confirmed.CompletedAt)
	require.Equal(t, int64(240000), f.balance(t))

	entries, _ := f.history.List(f.userID, 0, 10)
	require.Len(t, entries, 1)
	require.Equal(t, created.ID, entries[0].TransferID)
	require.Equal(t, domain.StatusSuccess, entries[0].Status)
}

func TestConfirmInsufficientFundsIsTerminalNotError(t *testing.T) {
	f := newFixture(t, 5000)

	created, err := f.eng.Create(context.Background(), f.bankRequest(10000))
	require.NoError(t, err)

	confirmed, err := f.eng.Confirm(context.Background(), created.ID)
	require.NoError(t, err) // a FAILED transfer, not an error
	require.Equal(t, domain.StatusFailed, confirmed.Status)
	require.Equal(t, domain.FailInsufficientFunds, confirmed.FailReason)
	require.NotNil(t, confirmed.CompletedAt)
	require.Equal(t, int64(5000), f.balance(t))

	entries, _ := f.history.List(f.userID, 0, 10)
	require.Len(t, entries, 1)
	require.Equal(t, domain.StatusFailed, entries[0].Status)
}

func TestConfirmTwiceDoesNotDoubleDebit(t *testing.T) {
	f := newFixture(t, 250000)

	created, err := f.eng.Create(context.Background(), f.bankRequest(10000))
	require.NoError(t, err)

	_, err = f.eng.Confirm(context.Background(), created.ID)
	require.NoError(t, err)

	_, err = f.eng.Confirm(context.Background(), created.ID)
	require.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	require.Equal(t, int64(240000), f.balance(t))
}

func TestConfirmUnknownTransfer(t *testing.T) {
	f := newFixture(t, 250000)

	_, err := f.eng.Confirm(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrTransferNotFound)
}

func TestConfirmRequiresAuthorization(t *testing.T) {
	f := &fixture{
		ledger:    storage.NewLedger(),
		dir:       storage.NewDirectory(),
		history:   storage.NewMemoryHistory(),
		accountID: uuid.New(),
		userID:    uuid.New(),
	}
	f.ledger.Add(domain.Account{ID: f.accountID, OwnerID: f.userID, Currency: domain.MYR, Balance: 250000})
	f.eng = engine.New(f.ledger, f.dir, security.Gate{}, f.history)

	created, err := f.eng.Create(context.Background(), f.bankRequest(10000))
	require.NoError(t, err)

	// Bare context carries no authorization decision.
	_, err = f.eng.Confirm(context.Background(), created.ID)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	require.Equal(t, int64(250000), f.balance(t))

	// The transfer stayed PENDING, so an authorized retry succeeds.
	ctx := security.WithAuthorization(context.Background(), true)
	confirmed, err := f.eng.Confirm(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusSuccess, confirmed.Status)
}

func TestConfirmInjectedFault(t *testing.T) {
	f := newFixture(t, 250000,
		engine.WithFaultPolicy(engine.FaultFunc(func() bool { return true })))

	created, err := f.eng.Create(context.Background(), f.bankRequest(10000))
	require.NoError(t, err)

	confirmed, err := f.eng.Confirm(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusFailed, confirmed.Status)
	require.Equal(t, domain.FailNetworkValidationFailed, confirmed.FailReason)
	require.Equal(t, int64(250000), f.balance(t))
}

func TestConfirmAdHocRecipientMustResolve(t *testing.T) {
	f := newFixture(t, 250000)

	// The all-zero account is well-formed but resolves to "not found";
	// creation still succeeds, confirmation is where it is rejected.
	req := f.bankRequest(10000)
	req.AccountNo = "0000000000"
	created, err := f.eng.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = f.eng.Confirm(context.Background(), created.ID)
	require.ErrorIs(t, err, domain.ErrInvalidRecipient)

	// Still PENDING: the caller may cancel it.
	status, _, err := f.eng.PollStatus(created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, status)
	require.NoError(t, f.eng.Cancel(created.ID))
}

func TestConfirmAdHocBadFormat(t *testing.T) {
	f := newFixture(t, 250000)

	req := f.bankRequest(10000)
	req.AccountNo = "123456789x"
	created, err := f.eng.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = f.eng.Confirm(context.Background(), created.ID)
	require.ErrorIs(t, err, domain.ErrInvalidAccountFormat)
	require.Equal(t, int64(250000), f.balance(t))
}

func TestCancelOnlyWhilePending(t *testing.T) {
	f := newFixture(t, 250000)

	created, err := f.eng.Create(context.Background(), f.bankRequest(10000))
	require.NoError(t, err)
	require.NoError(t, f.eng.Cancel(created.ID))

	// Cancellation is a deletion, not a transition.
	_, _, err = f.eng.PollStatus(created.ID)
	require.ErrorIs(t, err, domain.ErrTransferNotFound)

	confirmed, err := f.eng.Create(context.Background(), f.bankRequest(10000))
	require.NoError(t, err)
	_, err = f.eng.Confirm(context.Background(), confirmed.ID)
	require.NoError(t, err)

	require.ErrorIs(t, f.eng.Cancel(confirmed.ID), domain.ErrNotCancellable)
	require.ErrorIs(t, f.eng.Cancel(uuid.New()), domain.ErrTransferNotFound)
}

func TestPollStatusNeverMutates(t *testing.T) {
	f := newFixture(t, 250000)

	created, err := f.eng.Create(context.Background(), f.bankRequest(10000))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		status, failReason, err := f.eng.PollStatus(created.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StatusPending, status)
		require.Empty(t, failReason)
	}
	require.Equal(t, int64(250000), f.balance(t))
}

func TestConcurrentConfirmsSingleWinner(t *testing.T) {
	f := newFixture(t, 250000)

	created, err := f.eng.Create(context.Background(), f.bankRequest(10000))
	require.NoError(t, err)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.eng.Confirm(context.Background(), created.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, domain.ErrInvalidStateTransition)
		}
	}
	require.Equal(t, 1, succeeded)
	require.Equal(t, int64(240000), f.balance(t))
}

func TestConcurrentTransfersSameAccount(t *testing.T) {
	f := newFixture(t, 10000)

	a, err := f.eng.Create(context.Background(), f.bankRequest(7000))
	require.NoError(t, err)
	b, err := f.eng.Create(context.Background(), f.bankRequest(7000))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]domain.Transfer, 2)
	for i, id := range []uuid.UUID{a.ID, b.ID} {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			results[i], _ = f.eng.Confirm(context.Background(), id)
		}(i, id)
	}
	wg.Wait()

	statuses := map[domain.TransferStatus]int{}
	for _, r := range results {
		statuses[r.Status]++
	}
	require.Equal(t, 1, statuses[domain.StatusSuccess])
	require.Equal(t, 1, statuses[domain.StatusFailed])
	require.Equal(t, int64(3000), f.balance(t))
}

func TestWaitTerminal(t *testing.T) {
	f := newFixture(t, 250000)

	created, err := f.eng.Create(context.Background(), f.bankRequest(10000))
	require.NoError(t, err)

	// A transfer that never leaves PENDING exhausts the polling bound.
	_, err = f.eng.WaitTerminal(context.Background(), created.ID, 3, time.Millisecond)
	require.ErrorIs(t, err, domain.ErrStillProcessing)

	_, err = f.eng.Confirm(context.Background(), created.ID)
	require.NoError(t, err)

	got, err := f.eng.WaitTerminal(context.Background(), created.ID, 3, time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, domain.StatusSuccess, got.Status)
}

func TestWaitTerminalHonoursCancellation(t *testing.T) {
	f := newFixture(t, 250000)

	created, err := f.eng.Create(context.Background(), f.bankRequest(10000))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.eng.WaitTerminal(ctx, created.ID, 10, 50*time.Millisecond)
	require.ErrorIs(t, err, context.Canceled)
}

func TestHistoryAccumulatesNewestFirst(t *testing.T) {
	f := newFixture(t, 250000)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		created, err := f.eng.Create(context.Background(), f.bankRequest(1000))
		require.NoError(t, err)
		_, err = f.eng.Confirm(context.Background(), created.ID)
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	entries, hasMore := f.history.List(f.userID, 0, 10)
	require.False(t, hasMore)
	require.Len(t, entries, 3)
	require.Equal(t, ids[2], entries[0].TransferID)
	require.Equal(t, ids[0], entries[2].TransferID)
}
