package domain

import (
	"time"

	"github.com/google/uuid"
)

// Channel is the class of recipient handle a transfer targets.
type Channel string

const (
	ChannelBankAccount  Channel = "BANK_ACCOUNT"  // accountNo + bankCode
	ChannelMobileNumber Channel = "MOBILE_NUMBER" // MSISDN, optional provider tag
)

// Valid reports whether c is one of the known channels.
func (c Channel) Valid() bool {
	return c == ChannelBankAccount || c == ChannelMobileNumber
}

// TransferStatus is the lifecycle state of a transfer.
// PENDING and PROCESSING are non-terminal; SUCCESS and FAILED are final.
type TransferStatus string

const (
	StatusPending    TransferStatus = "PENDING"
	StatusProcessing TransferStatus = "PROCESSING"
	StatusSuccess    TransferStatus = "SUCCESS"
	StatusFailed     TransferStatus = "FAILED"
)

// Terminal reports whether no further transition is possible from s.
func (s TransferStatus) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// FailReason explains a FAILED transfer. These are business outcomes,
// not errors: a FAILED transfer is a valid terminal value.
type FailReason string

const (
	FailInsufficientFunds       FailReason = "INSUFFICIENT_FUNDS"
	FailNetworkValidationFailed FailReason = "NETWORK_VALIDATION_FAILED"
)

// Account is a user's balance in a single currency. Balance is stored in
// minor units (cents) as an int64, never a float.
type Account struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	AccountNo string    `json:"account_no,omitempty"`
	Currency  Currency  `json:"currency"`
	Balance   int64     `json:"balance_cents"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Recipient is a saved recipient handle. Only the fields relevant to its
// channel are populated; Channel is the discriminator.
type Recipient struct {
	ID      uuid.UUID `json:"id"`
	UserID  uuid.UUID `json:"user_id"`
	Channel Channel   `json:"channel"`
	Name    string    `json:"name"`

	// BANK_ACCOUNT channel
	AccountNo string `json:"account_no,omitempty"`
	BankCode  string `json:"bank_code,omitempty"`

	// MOBILE_NUMBER channel
	MobileNumber string `json:"mobile_number,omitempty"`
	Provider     string `json:"provider,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TransferRequest is the inbound contract for creating a transfer.
// Saved recipients reference RecipientID; ad-hoc recipients carry the raw
// channel fields instead and are resolved at confirmation time.
type TransferRequest struct {
	AccountID uuid.UUID `json:"account_id"`
	Channel   Channel   `json:"channel"`

	RecipientID uuid.UUID `json:"recipient_id,omitempty"`

	// Ad-hoc BANK_ACCOUNT
	AccountNo string `json:"account_no,omitempty"`
	BankCode  string `json:"bank_code,omitempty"`

	// Ad-hoc MOBILE_NUMBER
	MobileNumber string `json:"mobile_number,omitempty"`
	Provider     string `json:"provider,omitempty"`

	AmountCents int64  `json:"amount_cents"`
	Note        string `json:"note,omitempty"`
}

// HasRecipient reports whether the request carries recipient data usable
// for its channel: either a saved recipient id or the ad-hoc fields.
func (r TransferRequest) HasRecipient() bool {
	if r.RecipientID != uuid.Nil {
		return true
	}
	switch r.Channel {
	case ChannelBankAccount:
		return r.AccountNo != "" && r.BankCode != ""
	case ChannelMobileNumber:
		return r.MobileNumber != ""
	default:
		return false
	}
}

// Transfer is a single money movement from one source account to a
// recipient handle. Status transitions are monotonic:
// PENDING -> PROCESSING -> SUCCESS | FAILED.
type Transfer struct {
	ID            uuid.UUID      `json:"id"`
	AccountID     uuid.UUID      `json:"account_id"`
	Channel       Channel        `json:"channel"`
	RecipientID   uuid.UUID      `json:"recipient_id,omitempty"`
	RecipientName string         `json:"recipient_name,omitempty"`
	AccountNo     string         `json:"account_no,omitempty"`
	BankCode      string         `json:"bank_code,omitempty"`
	MobileNumber  string         `json:"mobile_number,omitempty"`
	AmountCents   int64          `json:"amount_cents"`
	Currency      Currency       `json:"currency"`
	Note          string         `json:"note,omitempty"`
	ReferenceCode string         `json:"reference_code,omitempty"`
	Status        TransferStatus `json:"status"`
	FailReason    FailReason     `json:"fail_reason,omitempty"`
	InitiatedAt   time.Time      `json:"initiated_at"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
}

// HistoryEntry is a denormalized, read-only projection of a terminal
// transfer for list display. Never mutated after creation.
type HistoryEntry struct {
	TransferID    uuid.UUID      `json:"transfer_id"`
	UserID        uuid.UUID      `json:"user_id"`
	Channel       Channel        `json:"channel"`
	Label         string         `json:"label"` // display handle, e.g. "Maybank 7890"
	Currency      Currency       `json:"currency"`
	AmountCents   int64          `json:"amount_cents"`
	Status        TransferStatus `json:"status"`
	FailReason    FailReason     `json:"fail_reason,omitempty"`
	ReferenceCode string         `json:"reference_code,omitempty"`
	CompletedAt   time.Time      `json:"completed_at"`
}

// Resolution is the outcome of looking up a recipient handle.
type Resolution struct {
	IsValid     bool   `json:"is_valid"`
	DisplayName string `json:"display_name,omitempty"`
}
