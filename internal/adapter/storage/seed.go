package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/domain"
)

// MalaysianBanks maps supported bank codes to display names.
var MalaysianBanks = map[string]string{
	"MB":  "Maybank",
	"CB":  "CIMB Bank",
	"PB":  "Public Bank",
	"RHB": "RHB Bank",
	"HLB": "Hong Leong Bank",
	"AMB": "AmBank",
	"BI":  "Bank Islam",
	"TNG": "Touch 'n Go eWallet",
	"BST": "Boost",
	"GRB": "GrabPay",
}

// SeedUserID/SeedAccountID identify the demo fixture so clients and tests
// can address it without a sign-up flow.
var (
	SeedUserID    = uuid.MustParse("7b0d3c2e-6f6a-4f3a-9a25-0e6f1a2b3c4d")
	SeedAccountID = uuid.MustParse("2f9f5c39-8d52-4b7e-9d3c-5a1e8b7c6d0e")
)

// Seed loads the demo fixture: one MYR account with RM 2,500.00 and a
// pair of saved recipients, one per channel.
func Seed(ledger *Ledger, dir *Directory) {
	now := time.Now()

	ledger.Add(domain.Account{
		ID:        SeedAccountID,
		OwnerID:   SeedUserID,
		AccountNo: "8812034455",
		Currency:  domain.MYR,
		Balance:   250000, // RM 2,500.00
		CreatedAt: now,
		UpdatedAt: now,
	})

	dir.Add(domain.Recipient{
		ID:        uuid.New(),
		UserID:    SeedUserID,
		Channel:   domain.ChannelBankAccount,
		Name:      "John Doe",
		AccountNo: "1234567890",
		BankCode:  "MB",
		CreatedAt: now,
	})
	dir.Add(domain.Recipient{
		ID:           uuid.New(),
		UserID:       SeedUserID,
		Channel:      domain.ChannelMobileNumber,
		Name:         "Jane Smith",
		MobileNumber: "+60123456789",
		Provider:     "Boost",
		CreatedAt:    now,
	})
}
