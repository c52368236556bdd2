package storage

import (
	"regexp"
	"sync"

	"github.com/google/uuid"

	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/domain"
	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/engine"
)

var _ engine.Directory = (*Directory)(nil)

// accountNoPattern is the required bank account format: numeric only,
// at least 10 digits.
var accountNoPattern = regexp.MustCompile(`^\d{10,}$`)

// notFoundAccountNo is the sentinel that resolves to "not found" even
// though it is well-formed. Kept from the upstream validation contract.
const notFoundAccountNo = "0000000000"

// Directory is the in-memory recipient store: saved recipients by user,
// plus handle resolution for ad-hoc entries.
type Directory struct {
	mu         sync.Mutex
	recipients map[uuid.UUID]*domain.Recipient
}

func NewDirectory() *Directory {
	return &Directory{recipients: make(map[uuid.UUID]*domain.Recipient)}
}

// Add registers a saved recipient, used when seeding.
func (d *Directory) Add(rec domain.Recipient) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := rec
	d.recipients[rec.ID] = &cp
}

// Recipient looks up a saved recipient by id.
func (d *Directory) Recipient(id uuid.UUID) (domain.Recipient, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rec, ok := d.recipients[id]
	if !ok {
		return domain.Recipient{}, domain.ErrInvalidRecipient
	}
	return *rec, nil
}

// SavedForUser lists the user's saved recipients.
func (d *Directory) SavedForUser(userID uuid.UUID) []domain.Recipient {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.Recipient, 0, len(d.recipients))
	for _, rec := range d.recipients {
		if rec.UserID == userID {
			out = append(out, *rec)
		}
	}
	return out
}

// ResolveBankAccount validates an ad-hoc bank handle. Format violations
// are validation errors; a recognized-but-nonexistent account (the
// all-zero sentinel) resolves with IsValid=false and no error.
func (d *Directory) ResolveBankAccount(accountNo, bankCode string) (domain.Resolution, error) {
	if !accountNoPattern.MatchString(accountNo) {
		return domain.Resolution{}, domain.ErrInvalidAccountFormat
	}
	if bankCode == "" {
		return domain.Resolution{}, domain.ErrInvalidBankCode
	}
	if accountNo == notFoundAccountNo {
		return domain.Resolution{IsValid: false}, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, rec := range d.recipients {
		if rec.Channel == domain.ChannelBankAccount && rec.AccountNo == accountNo && rec.BankCode == bankCode {
			return domain.Resolution{IsValid: true, DisplayName: rec.Name}, nil
		}
	}
	// Unknown but well-formed accounts still resolve; the display name
	// comes from the account range, matching the upstream fixture.
	name := "JANE SMITH"
	if accountNo[0] == '1' {
		name = "JOHN DOE"
	}
	return domain.Resolution{IsValid: true, DisplayName: name}, nil
}

// ResolveMobile looks up the display name for a mobile handle. Unknown
// numbers resolve without a name; mobile top-ups do not require one.
func (d *Directory) ResolveMobile(mobileNumber string) (domain.Resolution, error) {
	if mobileNumber == "" {
		return domain.Resolution{}, domain.ErrInvalidRecipient
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, rec := range d.recipients {
		if rec.Channel == domain.ChannelMobileNumber && rec.MobileNumber == mobileNumber {
			return domain.Resolution{IsValid: true, DisplayName: rec.Name}, nil
		}
	}
	return domain.Resolution{IsValid: true}, nil
}
